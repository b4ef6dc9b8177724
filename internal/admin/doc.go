// Package admin implements the one-shot operator commands that inspect and
// repair the canonical identity columns: recomputing hashes, checking
// integrity, classifying hash collisions, restoring backups and exporting
// the migration report.
//
// Commands that write take the data directory lock. RestoreBackup swaps the
// database file underneath the toolkit, so callers must go through Store
// after a restore instead of holding on to the previous *store.Store.
package admin
