package testsupport

import (
	"path/filepath"
	"testing"

	"spellbook/internal/config"
)

// ConfigOption adjusts a generated test config before its directories are
// created.
type ConfigOption func(*config.Config)

// NewConfig returns defaults rooted in a fresh temp dir: data/ holds the
// database, data/logs and data/backups hold the rest. Logging is at debug.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()
	data := filepath.Join(t.TempDir(), "data")
	cfg := config.Default()
	cfg.Paths = config.Paths{
		DataDir:   data,
		LogDir:    filepath.Join(data, "logs"),
		BackupDir: filepath.Join(data, "backups"),
	}
	cfg.Logging.Level = "debug"
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return &cfg
}

// WithProgressInterval overrides how often the backfill logs progress.
func WithProgressInterval(n int) ConfigOption {
	return func(c *config.Config) { c.Migration.ProgressInterval = n }
}

// WithMinFreeSpaceFactor overrides the backup free-space preflight factor.
func WithMinFreeSpaceFactor(factor float64) ConfigOption {
	return func(c *config.Config) { c.Backup.MinFreeSpaceFactor = factor }
}

// WithMigrationLogLimits overrides the migration log rotation thresholds.
func WithMigrationLogLimits(maxSizeMB, maxAgeDays int) ConfigOption {
	return func(c *config.Config) {
		c.Migration.LogMaxSizeMB = maxSizeMB
		c.Migration.LogMaxAgeDays = maxAgeDays
	}
}
