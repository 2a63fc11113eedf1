package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, []string{"Personal", "Professional"}, cfg.Categories)
	assert.False(t, cfg.Notify.Enabled)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "pure go driver",
			modify:  func(c *Config) { c.Database.Driver = "sqlite" },
			wantErr: false,
		},
		{
			name:    "missing addr",
			modify:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
		},
		{
			name:    "unknown driver",
			modify:  func(c *Config) { c.Database.Driver = "mysql" },
			wantErr: true,
		},
		{
			name:    "bad log level",
			modify:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
		},
		{
			name:    "no categories",
			modify:  func(c *Config) { c.Categories = nil },
			wantErr: true,
		},
		{
			name:    "duplicate category",
			modify:  func(c *Config) { c.Categories = []string{"Home", "Home"} },
			wantErr: true,
		},
		{
			name:    "blank category",
			modify:  func(c *Config) { c.Categories = []string{"Home", " "} },
			wantErr: true,
		},
		{
			name:    "negative shutdown timeout",
			modify:  func(c *Config) { c.Server.ShutdownTimeout = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projboard.yaml")
	content := `
server:
  addr: "127.0.0.1:8080"
  shutdown_timeout: 3s
database:
  driver: sqlite
log:
  level: debug
notify:
  enabled: true
data_dir: ` + dir + `
categories: [Home, Work, Side]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:8080", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout, "unset fields keep defaults")
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Notify.Enabled)
	assert.Equal(t, []string{"Home", "Work", "Side"}, cfg.Categories)
	assert.Equal(t, filepath.Join(dir, "projboard.db"), cfg.DBPath())
	assert.True(t, cfg.HasCategory("Work"))
	assert.False(t, cfg.HasCategory("work"))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  driver: oracle\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.driver")
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PROJBOARD_ADDR":      ":9999",
		"PROJBOARD_DB_PATH":   "/tmp/x.db",
		"PROJBOARD_DB_DRIVER": "sqlite",
		"PROJBOARD_LOG_LEVEL": "warn",
		"PROJBOARD_PASSWORD":  "hunter2",
	}
	cfg := DefaultConfig()
	cfg.applyEnv(func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	})

	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "/tmp/x.db", cfg.DBPath())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "hunter2", cfg.Server.Password)
}
