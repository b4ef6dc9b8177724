package store

import (
	"time"

	"spellbook/internal/spell"
)

// SpellRow is one row of the spell table: the legacy columns plus the
// expand-phase canonical columns, which stay empty until backfilled.
type SpellRow struct {
	spell.LegacyRecord
	CanonicalData []byte
	ContentHash   string
	SchemaVersion int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasHash reports whether the row was backfilled.
func (r *SpellRow) HasHash() bool { return r.ContentHash != "" }

// SpellRef names a spell without its content.
type SpellRef struct {
	ID   int64
	Name string
}

// HashGroup is a set of spells sharing one content hash.
type HashGroup struct {
	Hash   string
	Spells []SpellRef
}

// OrphanReference is a character_class_spell row pointing at a spell that no
// longer exists, by id or by content hash.
type OrphanReference struct {
	ID               int64
	CharacterClassID int64
	SpellID          int64
	SpellContentHash string
	Reason           string
}

const (
	OrphanMissingSpellID   = "missing_spell_id"
	OrphanMissingSpellHash = "missing_spell_content_hash"
)

// DatabaseHealth captures diagnostic information about the spell database.
type DatabaseHealth struct {
	DBPath            string
	DatabaseExists    bool
	DatabaseReadable  bool
	AppliedMigrations []string
	TableExists       bool
	ColumnsPresent    []string
	MissingColumns    []string
	IntegrityCheck    bool
	TotalSpells       int
	PendingHashes     int
	Error             string
}
