package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateMigration(); err != nil {
		return err
	}
	if err := c.validateBackup(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		return errors.New("paths.data_dir must be set")
	}
	if filepath.Clean(c.Paths.BackupDir) == filepath.Clean(c.Paths.DataDir) {
		return errors.New("paths.backup_dir must differ from paths.data_dir")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.ContainsAny(c.Database.Filename, `/\`) {
		return errors.New("database.filename must be a file name, not a path")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, ok := validLogLevels[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateMigration() error {
	return ensurePositiveMap(map[string]int{
		"migration.progress_interval": c.Migration.ProgressInterval,
		"migration.log_max_size_mb":   c.Migration.LogMaxSizeMB,
		"migration.log_max_age_days":  c.Migration.LogMaxAgeDays,
	})
}

func (c *Config) validateBackup() error {
	if c.Backup.MinFreeSpaceFactor < 1 {
		return errors.New("backup.min_free_space_factor must be at least 1")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
