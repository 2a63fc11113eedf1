package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dori/projboard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = filepath.Join(t.TempDir(), "data")
	return cfg
}

func TestNewOpensStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Notify.Enabled = true

	a, err := New(cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.FileExists(t, filepath.Join(cfg.DataDir, "projboard.db"))
	assert.FileExists(t, filepath.Join(cfg.DataDir, lockName))
	assert.True(t, a.Notifier.IsEnabled())

	_, err = a.DB.AddProject(context.Background(), "Works", "Personal")
	assert.NoError(t, err)
}

func TestNewHonorsDriverAndPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.Driver = "sqlite"
	cfg.Database.Path = filepath.Join(t.TempDir(), "elsewhere", "custom.db")

	a, err := New(cfg, nil)
	require.NoError(t, err)
	defer a.Close()

	assert.FileExists(t, cfg.Database.Path)
}

func TestSecondInstanceIsLockedOut(t *testing.T) {
	cfg := testConfig(t)

	first, err := New(cfg, nil)
	require.NoError(t, err)

	_, err = New(cfg, nil)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, first.Close())

	again, err := New(cfg, nil)
	require.NoError(t, err)
	assert.NoError(t, again.Close())
}
