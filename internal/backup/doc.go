// Package backup creates, verifies, lists and restores full copies of the
// spell store.
//
// Backups are written with SQLite's VACUUM INTO and named
// spells_backup_<unix-seconds>.db (optionally followed by a sanitized label)
// inside the configured backup directory. A backup that does not pass
// PRAGMA integrity_check is deleted before Create returns. Swap and Revert
// move the active database file, together with its -wal and -shm sidecars,
// so a failed restore can put the previous store back untouched.
package backup
