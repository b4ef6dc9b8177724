package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	DataDir   string `toml:"data_dir"`
	LogDir    string `toml:"log_dir"`
	BackupDir string `toml:"backup_dir"`
}

// Database names the SQLite file inside the data directory.
type Database struct {
	Filename string `toml:"filename"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Migration contains configuration for the hash backfill.
type Migration struct {
	// ProgressInterval is how many records pass between progress log lines.
	ProgressInterval int `toml:"progress_interval"`
	// LogMaxSizeMB and LogMaxAgeDays bound migration.log before it rotates.
	LogMaxSizeMB  int `toml:"log_max_size_mb"`
	LogMaxAgeDays int `toml:"log_max_age_days"`
	// RunOnStart runs the backfill before import writes new rows.
	RunOnStart bool `toml:"run_on_start"`
}

// Backup contains configuration for pre-migration backups.
type Backup struct {
	// PruneDays removes backups older than this many days. Zero keeps all.
	PruneDays int `toml:"prune_days"`
	// MinFreeSpaceFactor is the free space required in backup_dir as a
	// multiple of the database size.
	MinFreeSpaceFactor float64 `toml:"min_free_space_factor"`
}

// Config encapsulates all configuration values for Spellbook.
//
// Configuration sections by subsystem:
//   - Paths: data, log, and backup directories
//   - Database: SQLite file name
//   - Logging: log format, level, and retention
//   - Migration: backfill cadence and migration log rotation
//   - Backup: retention and free-space preflight
type Config struct {
	Paths     Paths     `toml:"paths"`
	Database  Database  `toml:"database"`
	Logging   Logging   `toml:"logging"`
	Migration Migration `toml:"migration"`
	Backup    Backup    `toml:"backup"`
}

// configSearchOrder lists the files Load tries when no path is given. The
// first existing regular file wins.
var configSearchOrder = []string{"~/.config/spellbook/config.toml", "spellbook.toml"}

// DefaultConfigPath returns the per-user config location.
func DefaultConfigPath() (string, error) {
	return expandPath(configSearchOrder[0])
}

// Load reads the config at path, or the first file in the search order when
// path is empty, then applies defaults, environment overrides and
// validation. It reports the resolved path and whether that file existed;
// a missing file is not an error and yields the defaults.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := locateConfig(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		data, err := os.ReadFile(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func locateConfig(path string) (string, bool, error) {
	candidates := configSearchOrder
	if path != "" {
		candidates = []string{path}
	}
	var fallback string
	for i, candidate := range candidates {
		expanded, err := expandPath(candidate)
		if err != nil {
			return "", false, err
		}
		if i == 0 {
			fallback = expanded
		}
		info, err := os.Stat(expanded)
		switch {
		case err == nil && !info.IsDir():
			return expanded, true, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist) && path != "":
			return "", false, fmt.Errorf("stat config: %w", err)
		}
	}
	return fallback, false, nil
}

// CreateSample writes the commented sample config to path, creating its
// directory.
func CreateSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
