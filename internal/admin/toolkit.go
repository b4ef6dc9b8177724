package admin

import (
	"log/slog"
	"time"

	"spellbook/internal/backup"
	"spellbook/internal/config"
	"spellbook/internal/logging"
	"spellbook/internal/store"
)

// Toolkit runs admin commands against one store.
type Toolkit struct {
	cfg     *config.Config
	st      *store.Store
	backups *backup.Manager
	logger  *slog.Logger
	now     func() time.Time
}

// New builds a toolkit. logger should already be teed into migration.log so
// every command summary is recorded there.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) *Toolkit {
	return &Toolkit{
		cfg:     cfg,
		st:      st,
		backups: backup.NewManager(cfg, logger),
		logger:  logging.NewComponentLogger(logger, "admin"),
		now:     time.Now,
	}
}

// Store returns the active store. It changes after a successful restore.
func (t *Toolkit) Store() *store.Store { return t.st }

func (t *Toolkit) summary(msg, command string, attrs ...logging.Attr) {
	attrs = append([]logging.Attr{
		logging.String(logging.FieldEventType, logging.EventAdminSummary),
		logging.String("command", command),
	}, attrs...)
	t.logger.Info(msg, logging.Args(attrs...)...)
}
