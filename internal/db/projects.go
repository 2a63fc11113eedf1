package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dori/projboard/internal/model"
	"go.uber.org/zap"
)

const projectColumns = `id, name, category, position, status, notes, creation_time, start_time, completion_time`

// timeLayout is fixed width so text ordering matches chronological ordering
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// GetActiveProjects returns all projects that are not completed, ordered by
// category and position
func (db *DB) GetActiveProjects(ctx context.Context) ([]model.Project, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects
		WHERE status != ?
		ORDER BY category, position
	`, model.StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects, err := scanProjects(rows)
	if err != nil {
		return nil, err
	}
	db.logger.Debug("fetched active projects", zap.Int("count", len(projects)))
	return projects, nil
}

// GetCompletedProjects returns completed projects, most recently completed
// first. Page 0 returns every completed project; page n >= 1 returns the
// n-th block of model.BlockSize projects.
func (db *DB) GetCompletedProjects(ctx context.Context, page int) ([]model.Project, error) {
	if page < 0 {
		return nil, fmt.Errorf("invalid page %d", page)
	}

	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE status = ?
		ORDER BY completion_time DESC, id DESC
	`
	args := []any{model.StatusCompleted}
	if page > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, model.BlockSize, (page-1)*model.BlockSize)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects, err := scanProjects(rows)
	if err != nil {
		return nil, err
	}
	db.logger.Debug("fetched completed projects", zap.Int("page", page), zap.Int("count", len(projects)))
	return projects, nil
}

// GetProject returns a single project by ID
func (db *DB) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+projectColumns+`
		FROM projects WHERE id = ?
	`, id)

	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// AddProject appends a new pending project to the end of its category and
// returns its id
func (db *DB) AddProject(ctx context.Context, name, category string) (int64, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" || category == "" {
		return 0, fmt.Errorf("%w: name and category are required", ErrConstraint)
	}

	// One statement, so the max lookup and the insert cannot interleave
	res, err := db.ExecContext(ctx, `
		INSERT INTO projects (name, category, position, status, notes, creation_time)
		SELECT ?, ?, COALESCE(MAX(position), 0) + 1, ?, '', ?
		FROM projects WHERE category = ?
	`, name, category, model.StatusPending, formatTime(db.now()), category)
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	db.logger.Debug("added project",
		zap.Int64("id", id), zap.String("name", name), zap.String("category", category))
	return id, nil
}

// DeleteProject removes a project and closes the gap it leaves in its category.
// category and position are what the caller last saw; the stored values are
// used when they differ.
func (db *DB) DeleteProject(ctx context.Context, id int64, category string, position int) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		cur, err := db.locate(ctx, tx, id)
		if err != nil {
			return err
		}
		db.checkStale("delete", id, category, position, cur)

		if _, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE projects SET position = position - 1
			WHERE category = ? AND position > ?
		`, cur.category, cur.position)
		if err != nil {
			return err
		}

		if err := verifyDense(ctx, tx, cur.category); err != nil {
			return err
		}

		db.logger.Debug("deleted project",
			zap.Int64("id", id), zap.String("category", cur.category), zap.Int("position", cur.position))
		return nil
	})
}

// MoveProjectUp swaps a project with the one directly above it. A project
// already at the top is left where it is.
func (db *DB) MoveProjectUp(ctx context.Context, id int64, category string, position int) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		cur, err := db.locate(ctx, tx, id)
		if err != nil {
			return err
		}
		db.checkStale("move up", id, category, position, cur)

		if cur.position <= 1 {
			db.logger.Debug("project already in top position", zap.Int64("id", id))
			return nil
		}

		// Push the project above down, then pull this one up
		_, err = tx.ExecContext(ctx, `
			UPDATE projects SET position = position + 1
			WHERE category = ? AND position = ?
		`, cur.category, cur.position-1)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE projects SET position = position - 1 WHERE id = ?`, id); err != nil {
			return err
		}

		if err := verifyDense(ctx, tx, cur.category); err != nil {
			return err
		}

		db.logger.Debug("moved project up",
			zap.Int64("id", id), zap.String("category", cur.category), zap.Int("position", cur.position-1))
		return nil
	})
}

// MoveProjectDown swaps a project with the one directly below it. A project
// already at the bottom is left where it is.
func (db *DB) MoveProjectDown(ctx context.Context, id int64, category string, position int) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		cur, err := db.locate(ctx, tx, id)
		if err != nil {
			return err
		}
		db.checkStale("move down", id, category, position, cur)

		highest, err := highestPosition(ctx, tx, cur.category)
		if err != nil {
			return err
		}
		if cur.position >= highest {
			db.logger.Debug("project already in bottom position",
				zap.Int64("id", id), zap.Int("position", cur.position))
			return nil
		}

		// Pull the project below up, then push this one down
		_, err = tx.ExecContext(ctx, `
			UPDATE projects SET position = position - 1
			WHERE category = ? AND position = ?
		`, cur.category, cur.position+1)
		if err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE projects SET position = position + 1 WHERE id = ?`, id); err != nil {
			return err
		}

		if err := verifyDense(ctx, tx, cur.category); err != nil {
			return err
		}

		db.logger.Debug("moved project down",
			zap.Int64("id", id), zap.String("category", cur.category), zap.Int("position", cur.position+1))
		return nil
	})
}

// StartProject marks a pending project as started and moves it to the front
// of its category. Projects that were ahead of it shift back by one.
func (db *DB) StartProject(ctx context.Context, id int64, category string, position int) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		cur, err := db.locate(ctx, tx, id)
		if err != nil {
			return err
		}
		db.checkStale("start", id, category, position, cur)

		if cur.status != model.StatusPending {
			return fmt.Errorf("%w: project %d is %s, only pending projects can be started",
				ErrConstraint, id, cur.status)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE projects SET status = ?, position = 1, start_time = ?
			WHERE id = ?
		`, model.StatusStarted, formatTime(db.now()), id)
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE projects SET position = position + 1
			WHERE category = ? AND position <= ? AND id != ?
		`, cur.category, cur.position, id)
		if err != nil {
			return err
		}

		if err := verifyDense(ctx, tx, cur.category); err != nil {
			return err
		}

		db.logger.Debug("started project", zap.Int64("id", id), zap.String("category", cur.category))
		return nil
	})
}

// CompleteProject marks a project as completed. Its category and position are
// left unchanged.
func (db *DB) CompleteProject(ctx context.Context, id int64) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		cur, err := db.locate(ctx, tx, id)
		if err != nil {
			return err
		}
		if cur.status == model.StatusCompleted {
			return fmt.Errorf("%w: project %d is already completed", ErrConstraint, id)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE projects SET status = ?, completion_time = ?
			WHERE id = ?
		`, model.StatusCompleted, formatTime(db.now()), id)
		if err != nil {
			return err
		}

		db.logger.Debug("completed project", zap.Int64("id", id))
		return nil
	})
}

// UpdateNotes overwrites a project's notes
func (db *DB) UpdateNotes(ctx context.Context, id int64, notes string) error {
	res, err := db.ExecContext(ctx, `UPDATE projects SET notes = ? WHERE id = ?`, notes, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("project %d: %w", id, ErrNotFound)
	}

	db.logger.Debug("updated notes", zap.Int64("id", id))
	return nil
}

// Helper functions

// location is the stored placement of a project
type location struct {
	category string
	position int
	status   model.Status
}

func (db *DB) locate(ctx context.Context, q querier, id int64) (location, error) {
	var loc location
	err := q.QueryRowContext(ctx, `
		SELECT category, position, status FROM projects WHERE id = ?
	`, id).Scan(&loc.category, &loc.position, &loc.status)
	if errors.Is(err, sql.ErrNoRows) {
		return loc, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	return loc, err
}

// checkStale logs when the caller's view of a project no longer matches storage
func (db *DB) checkStale(op string, id int64, category string, position int, cur location) {
	if (category != "" && category != cur.category) || (position != 0 && position != cur.position) {
		db.logger.Warn("stale project position from caller",
			zap.String("op", op),
			zap.Int64("id", id),
			zap.String("category", category),
			zap.Int("position", position),
			zap.String("stored_category", cur.category),
			zap.Int("stored_position", cur.position),
		)
	}
}

func highestPosition(ctx context.Context, q querier, category string) (int, error) {
	var maxPos sql.NullInt64
	err := q.QueryRowContext(ctx, `
		SELECT MAX(position) FROM projects WHERE category = ?
	`, category).Scan(&maxPos)
	if err != nil {
		return 0, err
	}
	if !maxPos.Valid {
		return 0, nil
	}
	return int(maxPos.Int64), nil
}

// verifyDense checks that the positions of a category are exactly 1..N
func verifyDense(ctx context.Context, q querier, category string) error {
	var count, distinct, lo, hi int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(DISTINCT position), COALESCE(MIN(position), 0), COALESCE(MAX(position), 0)
		FROM projects WHERE category = ?
	`, category).Scan(&count, &distinct, &lo, &hi)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}
	if distinct != count || lo != 1 || hi != count {
		return fmt.Errorf("%w: positions in %q are not 1..%d (distinct=%d min=%d max=%d)",
			ErrConstraint, category, count, distinct, lo, hi)
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func scanProjects(rows *sql.Rows) ([]model.Project, error) {
	var projects []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(s scanner) (*model.Project, error) {
	var p model.Project
	var created string
	var started, completed *string

	err := s.Scan(
		&p.ID, &p.Name, &p.Category, &p.Position, &p.Status, &p.Notes,
		&created, &started, &completed,
	)
	if err != nil {
		return nil, err
	}

	if p.CreationTime, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("project %d: creation_time: %w", p.ID, err)
	}
	if started != nil {
		t, err := parseTime(*started)
		if err != nil {
			return nil, fmt.Errorf("project %d: start_time: %w", p.ID, err)
		}
		p.StartTime = &t
	}
	if completed != nil {
		t, err := parseTime(*completed)
		if err != nil {
			return nil, fmt.Errorf("project %d: completion_time: %w", p.ID, err)
		}
		p.CompletionTime = &t
	}

	return &p, nil
}
