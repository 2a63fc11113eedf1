// Package app wires the store, notifier and logger for one projboard process.
package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dori/projboard/internal/config"
	"github.com/dori/projboard/internal/db"
	"github.com/dori/projboard/internal/notify"
	"github.com/gofrs/flock"
	"go.uber.org/zap"
)

// ErrLocked is returned when another process holds the data directory
var ErrLocked = errors.New("another projboard instance is using this data directory")

const lockName = "projboard.lock"

// App holds the application state and dependencies
type App struct {
	DB       *db.DB
	Notifier *notify.Notifier
	Logger   *zap.Logger
	Config   *config.Config
	lockFile *flock.Flock
}

// New locks the data directory and opens the database
func New(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	app := &App{
		Notifier: notify.NewNotifier(cfg.Notify.Enabled),
		Logger:   logger,
		Config:   cfg,
	}

	if err := app.acquireLock(); err != nil {
		return nil, err
	}

	database, err := db.OpenDriver(cfg.Database.Driver, cfg.DBPath(), db.WithLogger(logger))
	if err != nil {
		app.releaseLock()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.DB = database

	logger.Debug("opened store",
		zap.String("driver", cfg.Database.Driver),
		zap.String("path", cfg.DBPath()),
	)
	return app, nil
}

// acquireLock takes an exclusive lock on the data directory
func (a *App) acquireLock() error {
	a.lockFile = flock.New(filepath.Join(a.Config.DataDir, lockName))

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	return nil
}

func (a *App) releaseLock() {
	if a.lockFile == nil {
		return
	}
	if err := a.lockFile.Unlock(); err != nil {
		a.Logger.Warn("release lock", zap.Error(err))
	}
}

// Close closes the database and releases the lock
func (a *App) Close() error {
	var err error
	if a.DB != nil {
		if cerr := a.DB.Close(); cerr != nil {
			err = fmt.Errorf("failed to close database: %w", cerr)
		}
	}
	a.releaseLock()
	return err
}
