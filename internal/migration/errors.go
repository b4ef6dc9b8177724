package migration

import "fmt"

// CollisionMessage is shown to the operator when a backfill aborts on a
// duplicate content hash.
const CollisionMessage = "Hash collision: two or more spells produced the same content_hash. Migration aborted. See migration.log. Fix duplicates or run --detect-collisions."

// HashCollisionError reports two spells that resolved to the same content
// hash. The transaction that produced it was rolled back.
type HashCollisionError struct {
	SpellID   int64
	Name      string
	OtherID   int64
	OtherName string
	Hash      string
}

func (e *HashCollisionError) Error() string {
	if e.OtherID == 0 {
		return fmt.Sprintf("hash collision: spell %d (%q) produced content_hash %s already in use", e.SpellID, e.Name, e.Hash)
	}
	return fmt.Sprintf("hash collision: spell %d (%q) and spell %d (%q) share content_hash %s",
		e.SpellID, e.Name, e.OtherID, e.OtherName, e.Hash)
}

// ErrorKind classifies the error for the CLI.
func (e *HashCollisionError) ErrorKind() string { return "hash_collision" }

// BackupError reports that the pre-migration backup could not be created or
// verified. No row was modified.
type BackupError struct {
	Op  string
	Err error
}

func (e *BackupError) Error() string {
	return fmt.Sprintf("migration aborted before any change: backup %s: %v", e.Op, e.Err)
}

func (e *BackupError) Unwrap() error { return e.Err }

// ErrorKind classifies the error for the CLI.
func (e *BackupError) ErrorKind() string { return "backup" }
