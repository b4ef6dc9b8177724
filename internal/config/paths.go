package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// EnsureDirectories creates the data, log, and backup directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, c.Paths.BackupDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the absolute path of the SQLite database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, c.Database.Filename)
}

// MigrationLogPath returns the rotating migration log location.
func (c *Config) MigrationLogPath() string {
	return filepath.Join(c.Paths.LogDir, defaultMigrationLogName)
}

// MigrationLogMaxBytes converts log_max_size_mb to bytes.
func (c *Config) MigrationLogMaxBytes() int64 {
	return int64(c.Migration.LogMaxSizeMB) << 20
}

// MigrationLogMaxAge converts log_max_age_days to a duration.
func (c *Config) MigrationLogMaxAge() time.Duration {
	return time.Duration(c.Migration.LogMaxAgeDays) * 24 * time.Hour
}

// ExpandPath resolves a leading "~" against the home directory and returns
// the cleaned absolute path. Empty input stays empty.
func ExpandPath(value string) (string, error) {
	return expandPath(value)
}

func expandPath(value string) (string, error) {
	if value == "" {
		return "", nil
	}
	if rest, ok := strings.CutPrefix(value, "~"); ok && (rest == "" || rest[0] == '/' || rest[0] == '\\') {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		value = home + string(filepath.Separator) + strings.TrimLeft(rest, `/\`)
	}
	abs, err := filepath.Abs(value)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", value, err)
	}
	return abs, nil
}
