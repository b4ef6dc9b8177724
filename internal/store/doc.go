// Package store persists spells in SQLite.
//
// The legacy `spell` and `character_class_spell` tables are created when
// missing, and embedded migrations expand them with the canonical_data,
// content_hash, and schema_version columns plus the partial unique index that
// enforces hash uniqueness for migrated rows. Callers use the Store for
// single statements and WithTx for all-or-nothing units of work such as the
// hash backfill. Maintenance queries back the admin integrity and collision
// reports, and BackupTo produces consistent copies with VACUUM INTO.
//
// Migration and admin commands are exclusive one-shot operations; AcquireLock
// serializes them across processes with an advisory file lock.
package store
