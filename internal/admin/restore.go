package admin

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"spellbook/internal/backup"
	"spellbook/internal/logging"
	"spellbook/internal/store"
)

// IntegrityCheckError reports a restore whose result failed its integrity
// check. The previous store was put back.
type IntegrityCheckError struct {
	BackupPath string
	Report     *IntegrityReport
	Err        error
}

func (e *IntegrityCheckError) Error() string {
	detail := ""
	switch {
	case e.Err != nil:
		detail = e.Err.Error()
	case e.Report != nil:
		detail = strings.Join(e.Report.Issues(), "; ")
	}
	return fmt.Sprintf("restore of %s failed its integrity check (%s); previous store reinstated", e.BackupPath, detail)
}

func (e *IntegrityCheckError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for the CLI.
func (e *IntegrityCheckError) ErrorKind() string { return "integrity" }

// RestoreResult describes a successful restore.
type RestoreResult struct {
	BackupPath    string          `json:"backup_path"`
	PreservedPath string          `json:"preserved_path,omitempty"`
	Report        IntegrityReport `json:"integrity"`
}

// ListBackups returns the backups on disk, newest first.
func (t *Toolkit) ListBackups() ([]backup.Entry, error) {
	entries, err := t.backups.List()
	if err != nil {
		return nil, err
	}
	t.summary("backups listed", "list-backups", logging.Int("backups", len(entries)))
	return entries, nil
}

// RestoreBackup replaces the active store with a copy of path and checks the
// result. When the restored store is not clean, or cannot be opened, the
// previous store is moved back and *IntegrityCheckError is returned.
func (t *Toolkit) RestoreBackup(ctx context.Context, path string) (RestoreResult, error) {
	lock, err := store.AcquireLock(t.cfg)
	if err != nil {
		return RestoreResult{}, err
	}
	defer func() { _ = lock.Release() }()
	return t.restore(ctx, path, "restore-backup")
}

// RollbackMigration restores the newest backup, the one written before the
// last backfill. It fails with backup.ErrNoBackups when none exists.
func (t *Toolkit) RollbackMigration(ctx context.Context) (RestoreResult, error) {
	lock, err := store.AcquireLock(t.cfg)
	if err != nil {
		return RestoreResult{}, err
	}
	defer func() { _ = lock.Release() }()

	latest, err := t.backups.Latest()
	if err != nil {
		return RestoreResult{}, err
	}
	return t.restore(ctx, latest.Path, "rollback-migration")
}

func (t *Toolkit) restore(ctx context.Context, path, command string) (RestoreResult, error) {
	path, err := filepath.Abs(strings.TrimSpace(path))
	if err != nil {
		return RestoreResult{}, fmt.Errorf("restore: %w", err)
	}
	active := t.st.Path()
	if filepath.Clean(path) == filepath.Clean(active) {
		return RestoreResult{}, errors.New("restore: backup path is the active store")
	}
	if err := t.st.Close(); err != nil {
		return RestoreResult{}, fmt.Errorf("restore: close active store: %w", err)
	}

	preserved, err := backup.Swap(path, active, t.now())
	if err != nil {
		if reopenErr := t.reopen(active); reopenErr != nil {
			return RestoreResult{}, errors.Join(err, reopenErr)
		}
		return RestoreResult{}, err
	}

	restored, openErr := store.OpenPath(active)
	var report IntegrityReport
	if openErr == nil {
		report, openErr = checkIntegrity(ctx, restored)
		if openErr == nil && report.Clean() {
			t.st = restored
			attrs := append(logging.DecisionAttrs("restore", "kept", "integrity check clean"),
				logging.String("backup_path", path),
				logging.String("preserved_path", preserved),
				logging.Int("null_hashes", report.NullHashes),
			)
			t.summary("backup restored", command, attrs...)
			return RestoreResult{BackupPath: path, PreservedPath: preserved, Report: report}, nil
		}
		_ = restored.Close()
	}

	failure := &IntegrityCheckError{BackupPath: path, Err: openErr}
	if openErr == nil {
		failure.Report = &report
	}
	if err := backup.Revert(preserved, active); err != nil {
		return RestoreResult{}, errors.Join(failure, err, t.reopen(active))
	}
	attrs := append(logging.DecisionAttrs("restore", "reverted", "restored store failed its integrity check"),
		logging.String("command", command),
		logging.String("backup_path", path),
		logging.Error(failure),
		logging.String(logging.FieldErrorHint, "pick another backup with spellbook --list-backups"),
		logging.String(logging.FieldImpact, "active store unchanged"),
	)
	logging.ErrorWithContext(t.logger, "restored store failed integrity check; previous store reinstated", logging.EventAdminSummary, attrs...)
	if err := t.reopen(active); err != nil {
		return RestoreResult{BackupPath: path}, errors.Join(failure, err)
	}
	return RestoreResult{BackupPath: path}, failure
}

func (t *Toolkit) reopen(active string) error {
	st, err := store.OpenPath(active)
	if err != nil {
		return fmt.Errorf("reopen store: %w", err)
	}
	t.st = st
	return nil
}
