package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"spellbook/internal/backup"
	"spellbook/internal/config"
	"spellbook/internal/logging"
	"spellbook/internal/preflight"
	"spellbook/internal/store"
)

// preMigrationLabel names the backup taken before a backfill touches rows.
const preMigrationLabel = "pre_migration"

// Manager runs hash backfills against one store.
type Manager struct {
	cfg     *config.Config
	store   *store.Store
	backups *backup.Manager
	logger  *slog.Logger
	now     func() time.Time
}

// NewManager builds a manager. logger should already be teed into
// migration.log (see logging.OpenMigrationLog).
func NewManager(cfg *config.Config, st *store.Store, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:     cfg,
		store:   st,
		backups: backup.NewManager(cfg, logger),
		logger:  logging.NewComponentLogger(logger, "migration"),
		now:     time.Now,
	}
}

// Run backfills every row without a content hash. It holds the data
// directory lock for its whole duration. The returned run is never nil and
// carries the final state even when err is non-nil.
func (m *Manager) Run(ctx context.Context) (*Run, error) {
	run := NewRun(m.now())
	ctx = logging.WithRunID(ctx, run.ID)
	logger := logging.WithContext(ctx, m.logger)

	lock, err := store.AcquireLock(m.cfg)
	if err != nil {
		return run, err
	}
	defer func() { _ = lock.Release() }()

	pending, err := m.store.CountPendingHash(ctx)
	if err != nil {
		return run, fmt.Errorf("scan pending spells: %w", err)
	}
	run.Total = pending
	if pending == 0 {
		logger.Debug("no spells pending backfill", logging.String(logging.FieldEventType, logging.EventMigrationStep))
		return m.finish(run, logger, StateCommitted)
	}
	logger.Info("backfill starting",
		logging.String(logging.FieldEventType, logging.EventMigrationStep),
		logging.String("step", "scan"),
		logging.Int(logging.FieldProgressTotal, pending),
	)

	if err := preflight.Failed(preflight.ForBackup(m.cfg, preflight.StoreSize(m.store.Path()))); err != nil {
		return m.abort(ctx, run, logger, &BackupError{Op: "preflight", Err: err})
	}
	entry, err := m.backups.Create(ctx, m.store, preMigrationLabel)
	if err != nil {
		return m.abort(ctx, run, logger, &BackupError{Op: "create", Err: err})
	}
	run.BackupPath = entry.Path
	if err := run.transition(StateBackupCreated); err != nil {
		return run, err
	}
	logger.Info("backup verified",
		logging.String(logging.FieldEventType, logging.EventMigrationStep),
		logging.String("step", "backup"),
		logging.String("backup_path", entry.Path),
	)

	if err := run.transition(StateInProgress); err != nil {
		return run, err
	}
	err = m.store.WithTx(ctx, func(tx *store.Tx) error {
		return m.backfill(ctx, tx, run, logger)
	})
	if err != nil {
		return m.abort(ctx, run, logger, err)
	}

	m.backups.Prune(entry.Path)
	return m.finish(run, logger, StateCommitted)
}

func (m *Manager) backfill(ctx context.Context, tx *store.Tx, run *Run, logger *slog.Logger) error {
	rows, err := tx.ListPendingHash(ctx)
	if err != nil {
		return err
	}
	run.Total = len(rows)
	sampler := logging.NewProgressSampler(m.cfg.Migration.ProgressInterval)

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		run.Processed++

		prepared := Prepare(row.LegacyRecord)
		if len(prepared.Fallbacks) > 0 {
			run.Fallbacks++
			for _, fb := range prepared.Fallbacks {
				run.FieldFallbacks[fb.Field]++
			}
			LogFallbacks(logger, row.ID, prepared.Fallbacks)
		}
		LogUnknownComponents(logger, row.ID, prepared.UnknownComponents)

		switch {
		case prepared.Err == nil:
			if err := tx.SetCanonical(ctx, row.ID, prepared.Data, prepared.Hash, prepared.Spell.SchemaVersion); err != nil {
				if store.IsUniqueViolation(err) {
					return NewHashCollision(ctx, tx, row.ID, row.Name, prepared.Hash)
				}
				return err
			}
			run.Updated++
		case IsValidationError(prepared.Err):
			run.HashFailures++
			logging.WarnWithContext(logger, "spell failed validation; hash skipped", logging.EventHashFailure,
				logging.SpellID(row.ID),
				logging.String("spell_name", row.Name),
				logging.Error(prepared.Err),
				logging.String(logging.FieldErrorHint, "fix the legacy columns and run --recompute-hashes"),
				logging.String(logging.FieldImpact, "spell keeps a NULL content_hash"),
			)
		default:
			return fmt.Errorf("spell %d: %w", row.ID, prepared.Err)
		}

		if sampler.ShouldLog(run.Processed, run.Total, "backfill") {
			logger.Info("backfill progress",
				logging.String(logging.FieldEventType, logging.EventMigrationStep),
				logging.Int(logging.FieldProgressProcessed, run.Processed),
				logging.Int(logging.FieldProgressTotal, run.Total),
				logging.Float64(logging.FieldProgressPercent, logging.Percent(run.Processed, run.Total)),
			)
		}
	}
	return nil
}

func (m *Manager) abort(ctx context.Context, run *Run, logger *slog.Logger, err error) (*Run, error) {
	run.Err = err
	if transitionErr := run.transition(StateRolledBack); transitionErr != nil {
		err = errors.Join(err, transitionErr)
	}
	run.FinishedAt = m.now()

	var collision *HashCollisionError
	switch {
	case errors.As(err, &collision):
		logging.ErrorWithContext(logger, CollisionMessage, logging.EventHashCollision,
			logging.SpellID(collision.SpellID),
			logging.String("spell_name", collision.Name),
			logging.Int64("other_spell_id", collision.OtherID),
			logging.String("other_spell_name", collision.OtherName),
			logging.String("content_hash", collision.Hash),
			logging.String(logging.FieldErrorHint, "run spellbook --detect-collisions"),
			logging.String(logging.FieldImpact, "no spell was migrated in this run"),
		)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.WarnContext(ctx, "backfill cancelled; transaction rolled back",
			logging.String(logging.FieldEventType, logging.EventMigrationStep),
			logging.Error(err),
		)
	default:
		hint := "check migration.log and retry spellbook migrate"
		if store.Kind(err) == "backup" {
			hint = "free space in the backup directory or fix its permissions, then retry"
		}
		logging.ErrorWithContext(logger, "backfill aborted; transaction rolled back", logging.EventMigrationStep,
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hint),
			logging.String(logging.FieldImpact, "no spell was migrated in this run"),
		)
	}
	m.logSummary(logger, run)
	return run, err
}

func (m *Manager) finish(run *Run, logger *slog.Logger, state State) (*Run, error) {
	if err := run.transition(state); err != nil {
		return run, err
	}
	run.FinishedAt = m.now()
	if run.Total > 0 {
		m.logSummary(logger, run)
	}
	return run, nil
}

func (m *Manager) logSummary(logger *slog.Logger, run *Run) {
	rep := run.Report()
	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, logging.EventMigrationSummary),
		logging.String("state", string(rep.State)),
		logging.Int("processed", rep.Processed),
		logging.Int("updated", rep.Updated),
		logging.Int("fallbacks", rep.Fallbacks),
		logging.Int("hash_failures", rep.HashFailures),
		logging.Int("updated_percent", rep.UpdatedPercent),
		logging.Int("fallback_percent", rep.FallbackPercent),
		logging.Duration("duration", rep.Duration),
	}
	for _, field := range rep.FallbackFields() {
		attrs = append(attrs, logging.Int("fallbacks_"+field, rep.FieldFallbacks[field]))
	}
	logger.Info("backfill finished", logging.Args(attrs...)...)
}
