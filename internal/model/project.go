package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Status represents the lifecycle stage of a project
type Status int

const (
	StatusPending Status = iota
	StatusStarted
	StatusCompleted
)

// BlockSize is the number of completed projects shown per block
const BlockSize = 10

// String returns the display label for a status
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusStarted:
		return "Started"
	case StatusCompleted:
		return "Completed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	return s >= StatusPending && s <= StatusCompleted
}

// Project represents a tracked project within a category
type Project struct {
	ID             int64      `json:"id"`
	Name           string     `json:"name"`
	Category       string     `json:"category"`
	Position       int        `json:"position"`
	Status         Status     `json:"status"`
	Notes          string     `json:"notes"`
	CreationTime   time.Time  `json:"creation_time"`
	StartTime      *time.Time `json:"start_time"`
	CompletionTime *time.Time `json:"completion_time"`
}

// IsStarted returns true if the project has been started but not completed
func (p *Project) IsStarted() bool {
	return p.Status == StatusStarted
}

// IsCompleted returns true if the project is completed
func (p *Project) IsCompleted() bool {
	return p.Status == StatusCompleted
}

// Duration returns the time between start and completion, or zero when
// either timestamp is missing.
func (p *Project) Duration() time.Duration {
	if p.StartTime == nil || p.CompletionTime == nil {
		return 0
	}
	return p.CompletionTime.Sub(*p.StartTime)
}

// Validate checks the fields a stored project must carry
func (p *Project) Validate() error {
	var errs []error
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if strings.TrimSpace(p.Category) == "" {
		errs = append(errs, errors.New("category is required"))
	}
	if !p.Status.Valid() {
		errs = append(errs, fmt.Errorf("unknown status %d", int(p.Status)))
	}
	if p.Position < 0 {
		errs = append(errs, fmt.Errorf("negative position %d", p.Position))
	}
	return errors.Join(errs...)
}

// GroupByCategory splits projects by category, keeping their input order.
// Every name in categories gets an entry, even when it has no projects.
func GroupByCategory(projects []Project, categories []string) map[string][]Project {
	grouped := make(map[string][]Project, len(categories))
	for _, c := range categories {
		grouped[c] = nil
	}
	for _, p := range projects {
		grouped[p.Category] = append(grouped[p.Category], p)
	}
	return grouped
}
