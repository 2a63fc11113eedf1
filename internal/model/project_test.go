package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Pending", StatusPending.String())
	assert.Equal(t, "Started", StatusStarted.String())
	assert.Equal(t, "Completed", StatusCompleted.String())
	assert.False(t, Status(7).Valid())
}

func TestProjectDuration(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(72 * time.Hour)

	p := Project{StartTime: &start}
	assert.Zero(t, p.Duration())

	p.CompletionTime = &end
	assert.Equal(t, 72*time.Hour, p.Duration())
}

func TestProjectValidate(t *testing.T) {
	valid := Project{Name: "Shed", Category: "Personal", Status: StatusPending, Position: 1}
	assert.NoError(t, valid.Validate())

	bad := Project{Name: " ", Category: "", Status: Status(9), Position: -1}
	err := bad.Validate()
	assert.ErrorContains(t, err, "name is required")
	assert.ErrorContains(t, err, "category is required")
	assert.ErrorContains(t, err, "unknown status 9")
	assert.ErrorContains(t, err, "negative position -1")
}

func TestGroupByCategory(t *testing.T) {
	projects := []Project{
		{Name: "a", Category: "Personal"},
		{Name: "b", Category: "Professional"},
		{Name: "c", Category: "Personal"},
	}

	grouped := GroupByCategory(projects, []string{"Personal", "Professional", "Hobby"})
	assert.Len(t, grouped, 3)
	assert.Equal(t, []string{"a", "c"}, names(grouped["Personal"]))
	assert.Equal(t, []string{"b"}, names(grouped["Professional"]))
	assert.Empty(t, grouped["Hobby"])
}

func names(projects []Project) []string {
	out := make([]string, 0, len(projects))
	for _, p := range projects {
		out = append(out, p.Name)
	}
	return out
}
