package backup

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/dori/projboard/internal/model"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	ts := time.Date(2024, 7, 9, 14, 3, 5, 0, time.UTC)
	assert.Equal(t, "backup_2024-07-09_14-03-05.json", FileName(ts))
}

func TestEncodeDecode(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	started := created.Add(time.Hour)
	projects := []model.Project{
		{ID: 1, Name: "A", Category: "Personal", Position: 1, Status: model.StatusStarted,
			Notes: "n", CreationTime: created, StartTime: &started},
		{ID: 2, Name: "B", Category: "Professional", Position: 1, CreationTime: created},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, projects))
	assert.Contains(t, buf.String(), `"creation_time"`)
	assert.Contains(t, buf.String(), `"completion_time": null`)

	got, err := Decode(&buf)
	require.NoError(t, err)
	if diff := cmp.Diff(projects, got); diff != "" {
		t.Errorf("decode mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: "hello"},
		{name: "object instead of array", payload: `{"name": "A"}`},
		{name: "null", payload: `null`},
		{name: "unknown field", payload: `[{"name": "A", "category": "Personal", "colour": "red"}]`},
		{name: "missing name", payload: `[{"category": "Personal", "position": 1}]`},
		{name: "bad status", payload: `[{"name": "A", "category": "Personal", "status": 9}]`},
		{name: "trailing data", payload: `[] []`},
		{name: "bad timestamp", payload: `[{"name": "A", "category": "Personal", "creation_time": "yesterday"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.payload))
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestDecodeEmptyArray(t *testing.T) {
	got, err := Decode(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, got)
}
