package logging

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"spellbook/internal/config"
)

// OpenMigrationLog opens the rotating migration.log and returns base teed
// into it. File lines are always JSON so the report exporter can read them
// back. Rotated generations older than logging.retention_days are pruned.
// The caller closes the returned file.
func OpenMigrationLog(base *slog.Logger, cfg *config.Config) (*slog.Logger, *RotatingFile, error) {
	file, err := OpenRotating(cfg.MigrationLogPath(), RotationPolicy{
		MaxBytes: cfg.MigrationLogMaxBytes(),
		MaxAge:   cfg.MigrationLogMaxAge(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("open migration log: %w", err)
	}
	level := parseLevel(cfg.Logging.Level)
	if level > slog.LevelInfo {
		level = slog.LevelInfo
	}
	logger := TeeLogger(base, newJSONHandler(file, level, false))
	if reason := file.Rotated(); reason != "" {
		logger.Info("migration log rotated",
			String(FieldEventType, "log_rotated"),
			String("rotation_reason", reason),
			String("previous_log", file.Path()+".old"),
		)
	}
	CleanupOldLogs(logger, cfg.Logging.RetentionDays, RetentionTarget{
		Dir:     filepath.Dir(file.Path()),
		Pattern: filepath.Base(file.Path()) + ".*",
		Exclude: []string{file.Path()},
	})
	return logger, file, nil
}
