package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// testClock hands out strictly increasing timestamps, one minute apart
type testClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newTestClock() *testClock {
	return &testClock{cur: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Minute)
	return c.cur
}

func openTestDB(t *testing.T, opts ...Option) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")

	opts = append([]Option{WithClock(newTestClock().Now)}, opts...)
	db, err := Open(dbPath, opts...)
	require.NoError(t, err, "Failed to open database")
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpenCreatesSchema(t *testing.T) {
	db := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'projects'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "projects", name)
}

func TestOpenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	first, err := Open(dbPath)
	require.NoError(t, err)
	_, err = first.AddProject(context.Background(), "Survives reopen", "Personal")
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(dbPath)
	require.NoError(t, err)
	defer second.Close()

	projects, err := second.GetActiveProjects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Survives reopen", projects[0].Name)
}

func TestOpenDriverPure(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "pure.db")

	db, err := OpenDriver(DriverPure, dbPath, WithClock(newTestClock().Now))
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	id, err := db.AddProject(ctx, "Pure Go", "Personal")
	require.NoError(t, err)

	p, err := db.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Pure Go", p.Name)
	assert.Equal(t, 1, p.Position)
	assert.False(t, p.CreationTime.IsZero())
}

func TestOpenDriverUnsupported(t *testing.T) {
	_, err := OpenDriver("postgres", filepath.Join(t.TempDir(), "x.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestTransactionRollsBackOnError(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO projects (name, category, position, creation_time)
			VALUES ('Ghost', 'Personal', 1, '2024-01-01T00:00:00.000000000Z')
		`)
		require.NoError(t, err)
		return boom
	})
	require.ErrorIs(t, err, boom)

	projects, err := db.ExportProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestTransactionRollsBackOnPanic(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	assert.Panics(t, func() {
		_ = db.Transaction(ctx, func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				INSERT INTO projects (name, category, position, creation_time)
				VALUES ('Ghost', 'Personal', 1, '2024-01-01T00:00:00.000000000Z')
			`)
			require.NoError(t, err)
			panic("mid-transaction")
		})
	})

	projects, err := db.ExportProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestTransactionCanceledContext(t *testing.T) {
	db := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := db.Transaction(ctx, func(tx *sql.Tx) error { return nil })
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestPing(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, db.Ping(context.Background()))
}
