package config

const (
	defaultDataDir                = "~/.local/share/spellbook"
	defaultLogDirName             = "logs"
	defaultBackupDirName          = "backups"
	defaultDatabaseFilename       = "spellbook.sqlite3"
	defaultMigrationLogName       = "migration.log"
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultLogRetentionDays       = 60
	defaultProgressInterval       = 100
	defaultMigrationLogMaxSizeMB  = 10
	defaultMigrationLogMaxAgeDays = 30
	defaultBackupMinFreeFactor    = 2.0
)

// Default returns a Config populated with repository defaults. Log and
// backup directories stay empty so they follow data_dir during normalize.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Database: Database{
			Filename: defaultDatabaseFilename,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
		Migration: Migration{
			ProgressInterval: defaultProgressInterval,
			LogMaxSizeMB:     defaultMigrationLogMaxSizeMB,
			LogMaxAgeDays:    defaultMigrationLogMaxAgeDays,
			RunOnStart:       true,
		},
		Backup: Backup{
			MinFreeSpaceFactor: defaultBackupMinFreeFactor,
		},
	}
}
