package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// queries holds the statements shared by Store and Tx.
type queries struct {
	q querier
}

const legacyColumns = "name, level, school, sphere, class_list, range, components, material_components, casting_time, duration, area, saving_throw, damage, magic_resistance, reversible, description, tags, source, edition, author, license, is_quest_spell, is_cantrip"

const spellColumns = "id, " + legacyColumns + ", canonical_data, content_hash, schema_version, created_at, updated_at"

func (q queries) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	ctx = ensureContext(ctx)
	var (
		res     sql.Result
		execErr error
	)
	if err := retryOnBusy(ctx, func() error {
		res, execErr = q.q.ExecContext(ctx, query, args...)
		return execErr
	}); err != nil {
		return nil, err
	}
	return res, nil
}

// GetSpell loads one spell row.
func (q queries) GetSpell(ctx context.Context, id int64) (*SpellRow, error) {
	row := q.q.QueryRowContext(ensureContext(ctx), "SELECT "+spellColumns+" FROM spell WHERE id = ?", id)
	result, err := scanSpell(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("spell %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("get spell %d: %w", id, err)
	}
	return result, nil
}

// ListSpells returns every spell ordered by id.
func (q queries) ListSpells(ctx context.Context) ([]*SpellRow, error) {
	return q.listSpells(ctx, "SELECT "+spellColumns+" FROM spell ORDER BY id")
}

// ListPendingHash returns rows whose content_hash has not been backfilled.
func (q queries) ListPendingHash(ctx context.Context) ([]*SpellRow, error) {
	return q.listSpells(ctx, "SELECT "+spellColumns+" FROM spell WHERE content_hash IS NULL ORDER BY id")
}

// SpellsByHash returns the rows holding hash.
func (q queries) SpellsByHash(ctx context.Context, hash string) ([]*SpellRow, error) {
	return q.listSpells(ctx, "SELECT "+spellColumns+" FROM spell WHERE content_hash = ? ORDER BY id", hash)
}

// SpellsByName returns rows whose name matches case-insensitively.
func (q queries) SpellsByName(ctx context.Context, name string) ([]*SpellRow, error) {
	return q.listSpells(ctx, "SELECT "+spellColumns+" FROM spell WHERE name = ? COLLATE NOCASE ORDER BY id", strings.TrimSpace(name))
}

func (q queries) listSpells(ctx context.Context, query string, args ...any) ([]*SpellRow, error) {
	rows, err := q.q.QueryContext(ensureContext(ctx), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list spells: %w", err)
	}
	defer rows.Close()

	var spells []*SpellRow
	for rows.Next() {
		row, err := scanSpell(rows)
		if err != nil {
			return nil, fmt.Errorf("scan spell: %w", err)
		}
		spells = append(spells, row)
	}
	return spells, rows.Err()
}

// CountSpells returns the total number of spells.
func (q queries) CountSpells(ctx context.Context) (int, error) {
	var count int
	if err := q.q.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM spell").Scan(&count); err != nil {
		return 0, fmt.Errorf("count spells: %w", err)
	}
	return count, nil
}

// CountPendingHash returns how many rows still lack a content hash.
func (q queries) CountPendingHash(ctx context.Context) (int, error) {
	var count int
	if err := q.q.QueryRowContext(ensureContext(ctx), "SELECT COUNT(1) FROM spell WHERE content_hash IS NULL").Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending hashes: %w", err)
	}
	return count, nil
}

// InsertSpell writes a new row and returns its id. Empty canonical data and
// hash are stored as NULL so the row is picked up by the next backfill.
func (q queries) InsertSpell(ctx context.Context, row *SpellRow) (int64, error) {
	if row == nil {
		return 0, errors.New("insert spell: nil row")
	}
	if strings.TrimSpace(row.Name) == "" {
		return 0, errors.New("insert spell: name is required")
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	args := append(legacyArgs(row), nullableBytes(row.CanonicalData), nullableString(row.ContentHash), nullableInt(row.SchemaVersion), now, now)
	res, err := q.exec(ctx,
		"INSERT INTO spell ("+legacyColumns+", canonical_data, content_hash, schema_version, created_at, updated_at) VALUES ("+makePlaceholders(len(args))+")",
		args...,
	)
	if err != nil {
		return 0, fmt.Errorf("insert spell %q: %w", row.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert spell id: %w", err)
	}
	row.ID = id
	return id, nil
}

// UpdateSpell rewrites every column of an existing row.
func (q queries) UpdateSpell(ctx context.Context, row *SpellRow) error {
	if row == nil || row.ID == 0 {
		return errors.New("update spell: row id is required")
	}
	assignments := make([]string, 0, 24)
	for _, col := range strings.Split(legacyColumns, ", ") {
		assignments = append(assignments, col+" = ?")
	}
	assignments = append(assignments, "canonical_data = ?", "content_hash = ?", "schema_version = ?", "updated_at = ?")
	args := append(legacyArgs(row), nullableBytes(row.CanonicalData), nullableString(row.ContentHash), nullableInt(row.SchemaVersion), time.Now().UTC().Format(time.RFC3339Nano), row.ID)

	res, err := q.exec(ctx, "UPDATE spell SET "+strings.Join(assignments, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("update spell %d: %w", row.ID, err)
	}
	return requireOneRow(res, row.ID)
}

// SetCanonical stores the backfilled canonical form and hash of one row.
func (q queries) SetCanonical(ctx context.Context, id int64, data []byte, hash string, schemaVersion int) error {
	res, err := q.exec(ctx,
		"UPDATE spell SET canonical_data = ?, content_hash = ?, schema_version = ?, updated_at = ? WHERE id = ?",
		nullableBytes(data), nullableString(hash), nullableInt(schemaVersion), time.Now().UTC().Format(time.RFC3339Nano), id,
	)
	if err != nil {
		return fmt.Errorf("set canonical for spell %d: %w", id, err)
	}
	return requireOneRow(res, id)
}

// SyncClassSpellHashes copies spell.content_hash into the referencing
// character_class_spell rows and returns how many rows changed.
func (q queries) SyncClassSpellHashes(ctx context.Context) (int64, error) {
	res, err := q.exec(ctx, `UPDATE character_class_spell
SET spell_content_hash = (SELECT content_hash FROM spell WHERE spell.id = character_class_spell.spell_id)
WHERE spell_content_hash IS NOT (SELECT content_hash FROM spell WHERE spell.id = character_class_spell.spell_id)
  AND EXISTS (SELECT 1 FROM spell WHERE spell.id = character_class_spell.spell_id)`)
	if err != nil {
		return 0, fmt.Errorf("sync class spell hashes: %w", err)
	}
	return res.RowsAffected()
}

// AddClassSpell links a spell to a character class.
func (q queries) AddClassSpell(ctx context.Context, characterClassID, spellID int64, spellHash string) (int64, error) {
	res, err := q.exec(ctx,
		"INSERT INTO character_class_spell (character_class_id, spell_id, spell_content_hash) VALUES (?, ?, ?)",
		characterClassID, spellID, nullableString(spellHash),
	)
	if err != nil {
		return 0, fmt.Errorf("add class spell: %w", err)
	}
	return res.LastInsertId()
}

func requireOneRow(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("spell %d: %w", id, ErrNotFound)
	}
	return nil
}
