package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// IntegrityCheck runs PRAGMA integrity_check and returns its messages joined
// by newlines. A healthy database returns "ok".
func (q queries) IntegrityCheck(ctx context.Context) (string, error) {
	return integrityCheck(ensureContext(ctx), q.q)
}

func integrityCheck(ctx context.Context, q querier) (string, error) {
	rows, err := q.QueryContext(ctx, "PRAGMA integrity_check")
	if err != nil {
		return "", fmt.Errorf("integrity check: %w", err)
	}
	defer rows.Close()
	var messages []string
	for rows.Next() {
		var msg string
		if err := rows.Scan(&msg); err != nil {
			return "", fmt.Errorf("scan integrity check: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("integrity check: %w", err)
	}
	if len(messages) == 0 {
		return "", errors.New("integrity check returned no rows")
	}
	return strings.Join(messages, "\n"), nil
}

// DuplicateHashGroups returns hashes held by more than one row. The unique
// index makes this empty on a healthy store; it is non-empty only after the
// index was dropped or bypassed.
func (q queries) DuplicateHashGroups(ctx context.Context) ([]HashGroup, error) {
	rows, err := q.q.QueryContext(ensureContext(ctx), `SELECT content_hash, id, name FROM spell
WHERE content_hash IN (SELECT content_hash FROM spell WHERE content_hash IS NOT NULL GROUP BY content_hash HAVING COUNT(1) > 1)
ORDER BY content_hash, id`)
	if err != nil {
		return nil, fmt.Errorf("duplicate hashes: %w", err)
	}
	defer rows.Close()
	var groups []HashGroup
	for rows.Next() {
		var (
			hash string
			ref  SpellRef
		)
		if err := rows.Scan(&hash, &ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan duplicate hash: %w", err)
		}
		if n := len(groups); n == 0 || groups[n-1].Hash != hash {
			groups = append(groups, HashGroup{Hash: hash})
		}
		groups[len(groups)-1].Spells = append(groups[len(groups)-1].Spells, ref)
	}
	return groups, rows.Err()
}

// NameGroups returns spells sharing a case-insensitive name, the candidates
// for collision analysis.
func (q queries) NameGroups(ctx context.Context) ([][]SpellRef, error) {
	rows, err := q.q.QueryContext(ensureContext(ctx), `SELECT id, name FROM spell
WHERE lower(trim(name)) IN (SELECT lower(trim(name)) FROM spell GROUP BY lower(trim(name)) HAVING COUNT(1) > 1)
ORDER BY lower(trim(name)), id`)
	if err != nil {
		return nil, fmt.Errorf("name groups: %w", err)
	}
	defer rows.Close()
	var (
		groups  [][]SpellRef
		lastKey string
	)
	for rows.Next() {
		var ref SpellRef
		if err := rows.Scan(&ref.ID, &ref.Name); err != nil {
			return nil, fmt.Errorf("scan name group: %w", err)
		}
		key := strings.ToLower(strings.TrimSpace(ref.Name))
		if len(groups) == 0 || key != lastKey {
			groups = append(groups, nil)
			lastKey = key
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], ref)
	}
	return groups, rows.Err()
}

// OrphanReferences lists character_class_spell rows whose spell_id or
// spell_content_hash matches no spell.
func (q queries) OrphanReferences(ctx context.Context) ([]OrphanReference, error) {
	rows, err := q.q.QueryContext(ensureContext(ctx), `SELECT ccs.id, ccs.character_class_id, ccs.spell_id, COALESCE(ccs.spell_content_hash, ''),
	CASE WHEN NOT EXISTS (SELECT 1 FROM spell s WHERE s.id = ccs.spell_id) THEN 'missing_spell_id' ELSE 'missing_spell_content_hash' END
FROM character_class_spell ccs
WHERE NOT EXISTS (SELECT 1 FROM spell s WHERE s.id = ccs.spell_id)
   OR (ccs.spell_content_hash IS NOT NULL AND NOT EXISTS (SELECT 1 FROM spell s WHERE s.content_hash = ccs.spell_content_hash))
ORDER BY ccs.id`)
	if err != nil {
		return nil, fmt.Errorf("orphan references: %w", err)
	}
	defer rows.Close()
	var orphans []OrphanReference
	for rows.Next() {
		var o OrphanReference
		if err := rows.Scan(&o.ID, &o.CharacterClassID, &o.SpellID, &o.SpellContentHash, &o.Reason); err != nil {
			return nil, fmt.Errorf("scan orphan reference: %w", err)
		}
		orphans = append(orphans, o)
	}
	return orphans, rows.Err()
}

// BackupTo writes a consistent copy of the database to dest with VACUUM INTO.
// dest must not exist.
func (s *Store) BackupTo(ctx context.Context, dest string) error {
	if s == nil || s.db == nil {
		return errors.New("backup: store is closed")
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup: %s already exists", dest)
	}
	ctx = ensureContext(ctx)
	if err := retryOnBusy(ctx, func() error {
		_, err := s.db.ExecContext(ctx, "VACUUM INTO ?", dest)
		return err
	}); err != nil {
		return fmt.Errorf("vacuum into %s: %w", dest, err)
	}
	return nil
}

// QuickCheck opens the database file at path without applying migrations and
// runs PRAGMA integrity_check against it.
func QuickCheck(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()
	return integrityCheck(ensureContext(ctx), db)
}

// requiredColumns are the spell columns the migration engine depends on.
var requiredColumns = []string{
	"id", "name", "level", "school", "sphere", "class_list", "range", "components",
	"material_components", "casting_time", "duration", "area", "saving_throw", "damage",
	"magic_resistance", "reversible", "description", "tags", "source",
	"canonical_data", "content_hash", "schema_version",
}

// CheckHealth returns diagnostic information about the spell database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("spell database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return health, nil
		}
		return health, fmt.Errorf("stat spell database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("spell database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("spell database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ensureContext(ctx), 5*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping spell database: %w", err)
	}
	health.DatabaseReadable = true

	if health.AppliedMigrations, err = s.AppliedMigrations(connCtx); err != nil {
		health.Error = err.Error()
		return health, err
	}

	columns, err := s.tableColumns(connCtx, "spell")
	if err != nil {
		health.Error = err.Error()
		return health, err
	}
	health.TableExists = len(columns) > 0
	health.ColumnsPresent = columns
	present := make(map[string]struct{}, len(columns))
	for _, col := range columns {
		present[col] = struct{}{}
	}
	for _, col := range requiredColumns {
		if _, ok := present[col]; !ok {
			health.MissingColumns = append(health.MissingColumns, col)
		}
	}
	sort.Strings(health.MissingColumns)

	if health.TableExists {
		if health.TotalSpells, err = s.CountSpells(connCtx); err != nil {
			health.Error = err.Error()
			return health, err
		}
		if len(health.MissingColumns) == 0 {
			if health.PendingHashes, err = s.CountPendingHash(connCtx); err != nil {
				health.Error = err.Error()
				return health, err
			}
		}
	}

	result, err := s.IntegrityCheck(connCtx)
	if err != nil {
		health.Error = err.Error()
		return health, err
	}
	health.IntegrityCheck = strings.EqualFold(result, "ok")
	return health, nil
}

func (s *Store) tableColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info("+table+")")
	if err != nil {
		return nil, fmt.Errorf("table info: %w", err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			cid     int
			name    string
			typeStr string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typeStr, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("scan table info: %w", err)
		}
		columns = append(columns, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate table info: %w", err)
	}
	return columns, nil
}
