package importer

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"spellbook/internal/logging"
	"spellbook/internal/migration"
	"spellbook/internal/spell"
	"spellbook/internal/store"
	"spellbook/internal/synccheck"
)

// Result counts what ImportFile did with each record.
type Result struct {
	Read           int     `json:"read"`
	Imported       int     `json:"imported"`
	Updated        int     `json:"updated"`
	Pending        int     `json:"pending"`
	Duplicates     int     `json:"duplicates"`
	Malformed      int     `json:"malformed"`
	Rejected       int     `json:"rejected"`
	SyncMismatches int     `json:"sync_mismatches"`
	IDs            []int64 `json:"ids,omitempty"`
}

// Importer writes legacy records into a store.
type Importer struct {
	st             *store.Store
	checker        *synccheck.Checker
	logger         *slog.Logger
	updateExisting bool
}

// Option configures an Importer.
type Option func(*Importer)

// UpdateExisting makes a record whose name matches exactly one stored spell
// (case-insensitively) rewrite that spell instead of inserting a new row.
func UpdateExisting() Option {
	return func(i *Importer) { i.updateExisting = true }
}

// errUnchanged aborts the transaction when an update would not change the
// stored content.
var errUnchanged = errors.New("spell content unchanged")

// New builds an importer for st.
func New(st *store.Store, logger *slog.Logger, opts ...Option) *Importer {
	i := &Importer{
		st:      st,
		checker: synccheck.New(st, logger),
		logger:  logging.NewComponentLogger(logger, "importer"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// ImportFile reads path by extension (.jsonl, .yaml or .yml) and imports
// every record. Only failures to read the file or to write the store are
// returned as errors.
func (i *Importer) ImportFile(ctx context.Context, path string) (Result, error) {
	records, malformed, err := ReadRecords(path)
	if err != nil {
		return Result{}, err
	}
	res := Result{Read: len(records) + malformed, Malformed: malformed}
	if malformed > 0 {
		logging.WarnWithContext(i.logger, "malformed lines skipped", "import_malformed",
			logging.String("path", path),
			logging.Int("malformed", malformed),
			logging.String(logging.FieldErrorHint, "each line must be one JSON object with at least a name"),
			logging.String(logging.FieldImpact, "those lines were not imported"),
		)
	}

	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := i.importRecord(ctx, rec, &res); err != nil {
			return res, err
		}
	}

	i.logger.Info("import finished",
		logging.String(logging.FieldEventType, "import_summary"),
		logging.String("path", path),
		logging.Int("read", res.Read),
		logging.Int("imported", res.Imported),
		logging.Int("updated", res.Updated),
		logging.Int("pending", res.Pending),
		logging.Int("duplicates", res.Duplicates),
		logging.Int("malformed", res.Malformed),
		logging.Int("rejected", res.Rejected),
	)
	return res, nil
}

func (i *Importer) importRecord(ctx context.Context, rec spell.LegacyRecord, res *Result) error {
	rec.ID = 0
	if strings.TrimSpace(rec.Name) == "" {
		res.Rejected++
		logging.WarnWithContext(i.logger, "record without a name skipped", "import_rejected",
			logging.String(logging.FieldErrorHint, "add a name to the record and import it again"),
		)
		return nil
	}

	var (
		id       int64
		target   *store.SpellRow
		prepared migration.Prepared
	)
	err := i.st.WithTx(ctx, func(tx *store.Tx) error {
		var err error
		if target, err = i.updateTarget(ctx, tx, rec.Name); err != nil {
			return err
		}
		if target != nil {
			id = target.ID
		} else if id, err = tx.InsertSpell(ctx, &store.SpellRow{LegacyRecord: rec}); err != nil {
			return err
		}
		rec.ID = id
		prepared = migration.Prepare(rec)
		if !prepared.Valid() && !migration.IsValidationError(prepared.Err) {
			return prepared.Err
		}

		switch {
		case target != nil:
			if prepared.Valid() && prepared.Hash == target.ContentHash && bytes.Equal(prepared.Data, target.CanonicalData) {
				return errUnchanged
			}
			row := &store.SpellRow{LegacyRecord: rec}
			if prepared.Valid() {
				row.CanonicalData, row.ContentHash, row.SchemaVersion = prepared.Data, prepared.Hash, prepared.Spell.SchemaVersion
			}
			err = tx.UpdateSpell(ctx, row)
		case prepared.Valid():
			err = tx.SetCanonical(ctx, id, prepared.Data, prepared.Hash, prepared.Spell.SchemaVersion)
		}
		if err != nil && store.IsUniqueViolation(err) {
			return migration.NewHashCollision(ctx, tx, id, rec.Name, prepared.Hash)
		}
		return err
	})

	var collision *migration.HashCollisionError
	switch {
	case errors.Is(err, errUnchanged):
		res.Duplicates++
		i.logger.Info("spell already stored with the same content; record skipped",
			logging.String(logging.FieldEventType, "import_unchanged"),
			logging.SpellID(id),
			logging.String("spell_name", rec.Name),
		)
		return nil
	case errors.As(err, &collision):
		res.Duplicates++
		logging.WarnWithContext(i.logger, "spell already stored; record skipped", logging.EventHashCollision,
			logging.String("spell_name", rec.Name),
			logging.Int64("existing_spell_id", collision.OtherID),
			logging.String("content_hash", collision.Hash),
			logging.String(logging.FieldErrorHint, "remove the duplicate from the import file or run --detect-collisions"),
			logging.String(logging.FieldImpact, "record not imported"),
		)
		return nil
	case err != nil:
		return fmt.Errorf("import %q: %w", rec.Name, err)
	}

	res.IDs = append(res.IDs, id)
	migration.LogFallbacks(i.logger, id, prepared.Fallbacks)
	migration.LogUnknownComponents(i.logger, id, prepared.UnknownComponents)
	switch {
	case prepared.Valid() && target != nil:
		res.Updated++
	case prepared.Valid():
		res.Imported++
	default:
		res.Pending++
		logging.WarnWithContext(logging.WithContext(logging.WithSpellID(ctx, id), i.logger),
			"imported spell failed validation; hash left for backfill", logging.EventHashFailure,
			logging.String("spell_name", rec.Name),
			logging.Error(prepared.Err),
			logging.String(logging.FieldErrorHint, "fix the legacy columns and run --recompute-hashes"),
			logging.String(logging.FieldImpact, "spell stored with a NULL content_hash"),
		)
	}

	check, err := i.checker.Check(ctx, id)
	if err != nil {
		return err
	}
	if !check.InSync() {
		res.SyncMismatches++
	}
	return nil
}

// updateTarget returns the stored spell a record should rewrite, or nil when
// the record is inserted as a new row.
func (i *Importer) updateTarget(ctx context.Context, tx *store.Tx, name string) (*store.SpellRow, error) {
	if !i.updateExisting {
		return nil, nil
	}
	matches, err := tx.SpellsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		logging.WarnWithContext(i.logger, "several spells share the name; record inserted as new", "import_ambiguous",
			logging.String("spell_name", name),
			logging.Int("matches", len(matches)),
			logging.String(logging.FieldErrorHint, "rename the record or merge the stored spells"),
			logging.String(logging.FieldImpact, "no stored spell was updated"),
		)
		return nil, nil
	}
}

// ReadRecords decodes legacy records from path. For JSONL, malformed lines
// are skipped and counted rather than failing the whole file.
func ReadRecords(path string) ([]spell.LegacyRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return readJSONL(f, path)
	case ".yaml", ".yml":
		records, err := readYAML(f, path)
		return records, 0, err
	default:
		return nil, 0, fmt.Errorf("unsupported import format %q (use .jsonl, .yaml or .yml)", filepath.Ext(path))
	}
}

func readJSONL(r io.Reader, path string) ([]spell.LegacyRecord, int, error) {
	var (
		records   []spell.LegacyRecord
		malformed int
	)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var rec spell.LegacyRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			malformed++
			continue
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("scanning %s: %w", path, err)
	}
	return records, malformed, nil
}

func readYAML(r io.Reader, path string) ([]spell.LegacyRecord, error) {
	var records []spell.LegacyRecord
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return records, nil
}
