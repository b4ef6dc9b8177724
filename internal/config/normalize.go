package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeDatabase()
	c.normalizeLogging()
	c.normalizeMigration()
	c.normalizeBackup()
	return nil
}

func (c *Config) normalizePaths() error {
	if value, ok := os.LookupEnv("SPELLBOOK_DATA_DIR"); ok && strings.TrimSpace(value) != "" {
		c.Paths.DataDir = strings.TrimSpace(value)
	}
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	var err error
	if c.Paths.DataDir, err = expandPath(strings.TrimSpace(c.Paths.DataDir)); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, defaultLogDirName)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.BackupDir) == "" {
		c.Paths.BackupDir = filepath.Join(c.Paths.DataDir, defaultBackupDirName)
	}
	if c.Paths.BackupDir, err = expandPath(strings.TrimSpace(c.Paths.BackupDir)); err != nil {
		return fmt.Errorf("paths.backup_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDatabase() {
	c.Database.Filename = strings.TrimSpace(c.Database.Filename)
	if c.Database.Filename == "" {
		c.Database.Filename = defaultDatabaseFilename
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func (c *Config) normalizeMigration() {
	if c.Migration.ProgressInterval == 0 {
		c.Migration.ProgressInterval = defaultProgressInterval
	}
	if c.Migration.LogMaxSizeMB == 0 {
		c.Migration.LogMaxSizeMB = defaultMigrationLogMaxSizeMB
	}
	if c.Migration.LogMaxAgeDays == 0 {
		c.Migration.LogMaxAgeDays = defaultMigrationLogMaxAgeDays
	}
}

func (c *Config) normalizeBackup() {
	if c.Backup.PruneDays < 0 {
		c.Backup.PruneDays = 0
	}
	if c.Backup.MinFreeSpaceFactor == 0 {
		c.Backup.MinFreeSpaceFactor = defaultBackupMinFreeFactor
	}
}
