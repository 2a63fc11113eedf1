// Package backup reads and writes the JSON backup format: a flat array of
// project objects.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dori/projboard/internal/model"
)

// ErrMalformed is returned when a backup payload does not have the expected shape
var ErrMalformed = errors.New("malformed backup")

// maxSize bounds how much of a backup payload is read
const maxSize = 32 << 20

// FileName returns the download name for a backup taken at t
func FileName(t time.Time) string {
	return t.Format("backup_2006-01-02_15-04-05.json")
}

// Encode writes projects as an indented JSON array
func Encode(w io.Writer, projects []model.Project) error {
	if projects == nil {
		projects = []model.Project{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(projects)
}

// Decode reads a backup payload. Unknown fields, trailing data and projects
// that fail validation are reported as ErrMalformed.
func Decode(r io.Reader) ([]model.Project, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read backup: %w", err)
	}
	if len(data) > maxSize {
		return nil, fmt.Errorf("%w: larger than %d bytes", ErrMalformed, maxSize)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var projects []model.Project
	if err := dec.Decode(&projects); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after project list", ErrMalformed)
	}
	if projects == nil {
		return nil, fmt.Errorf("%w: expected a JSON array of projects", ErrMalformed)
	}

	for i := range projects {
		if err := projects[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: project %d: %w", ErrMalformed, i, err)
		}
	}
	return projects, nil
}
