package db

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dori/projboard/internal/model"
	"go.uber.org/zap"
)

// ImportMode selects how restored projects combine with existing ones
type ImportMode int

const (
	// ImportMerge appends restored projects after the existing ones in each category
	ImportMerge ImportMode = iota + 1
	// ImportReplace removes every existing project before restoring
	ImportReplace
)

func (m ImportMode) String() string {
	switch m {
	case ImportMerge:
		return "merge"
	case ImportReplace:
		return "replace"
	default:
		return fmt.Sprintf("ImportMode(%d)", int(m))
	}
}

// ParseImportMode parses "merge" or "replace"
func ParseImportMode(s string) (ImportMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "merge":
		return ImportMerge, nil
	case "replace":
		return ImportReplace, nil
	case "":
		return 0, fmt.Errorf("import mode is required (merge or replace)")
	default:
		return 0, fmt.Errorf("unknown import mode %q (want merge or replace)", s)
	}
}

// ExportProjects returns every project, ordered by category and position
func (db *DB) ExportProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		ORDER BY category, position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects, err := scanProjects(rows)
	if err != nil {
		return nil, err
	}
	db.logger.Debug("exported projects", zap.Int("count", len(projects)))
	return projects, nil
}

// ImportProjects restores projects in a single transaction and returns how
// many were inserted. Ids are reassigned. Within each category the restored
// projects keep their relative order and are renumbered so positions stay
// dense.
func (db *DB) ImportProjects(ctx context.Context, projects []model.Project, mode ImportMode) (int, error) {
	if mode != ImportMerge && mode != ImportReplace {
		return 0, fmt.Errorf("invalid import mode %s", mode)
	}
	for i := range projects {
		if err := projects[i].Validate(); err != nil {
			return 0, fmt.Errorf("%w: project %d: %w", ErrConstraint, i, err)
		}
	}

	categories, grouped := groupForImport(projects)

	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		if mode == ImportReplace {
			if _, err := tx.ExecContext(ctx, `DELETE FROM projects`); err != nil {
				return err
			}
		}

		for _, category := range categories {
			base, err := highestPosition(ctx, tx, category)
			if err != nil {
				return err
			}
			for i, p := range grouped[category] {
				if err := insertProject(ctx, tx, p, base+i+1); err != nil {
					return err
				}
			}
			if err := verifyDense(ctx, tx, category); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	db.logger.Info("imported projects",
		zap.Int("count", len(projects)), zap.Stringer("mode", mode))
	return len(projects), nil
}

// groupForImport splits projects by category in order of first appearance and
// sorts each group by position. Projects without a position go last.
func groupForImport(projects []model.Project) ([]string, map[string][]model.Project) {
	var categories []string
	grouped := make(map[string][]model.Project)
	for _, p := range projects {
		p.Category = strings.TrimSpace(p.Category)
		if _, ok := grouped[p.Category]; !ok {
			categories = append(categories, p.Category)
		}
		grouped[p.Category] = append(grouped[p.Category], p)
	}

	rank := func(p model.Project) int {
		if p.Position <= 0 {
			return math.MaxInt
		}
		return p.Position
	}
	for _, c := range categories {
		group := grouped[c]
		sort.SliceStable(group, func(i, j int) bool {
			return rank(group[i]) < rank(group[j])
		})
	}
	return categories, grouped
}

func insertProject(ctx context.Context, tx *sql.Tx, p model.Project, position int) error {
	var started, completed any
	if p.StartTime != nil {
		started = formatTime(*p.StartTime)
	}
	if p.CompletionTime != nil {
		completed = formatTime(*p.CompletionTime)
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO projects (name, category, position, status, notes, creation_time, start_time, completion_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, strings.TrimSpace(p.Name), p.Category, position, p.Status, p.Notes,
		formatTime(p.CreationTime), started, completed)
	return err
}
