package importer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellbook/internal/importer"
	"spellbook/internal/logging"
	"spellbook/internal/spell"
	"spellbook/internal/store"
	"spellbook/internal/testsupport"
)

func newImporter(t *testing.T) (*importer.Importer, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	return importer.New(st, logging.NewNop()), st
}

func TestImportJSONLSkipsMalformedAndDuplicates(t *testing.T) {
	imp, st := newImporter(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "spells.jsonl")
	testsupport.WriteJSONL(t, path,
		[]spell.LegacyRecord{testsupport.Fireball(), testsupport.MagicMissile(), testsupport.Fireball()},
		"{not json",
		"",
	)

	res, err := imp.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Read)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Duplicates)
	assert.Equal(t, 1, res.Malformed)
	assert.Zero(t, res.Pending)
	assert.Zero(t, res.SyncMismatches)
	assert.Len(t, res.IDs, 2)

	count, err := st.CountSpells(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	for _, id := range res.IDs {
		row, err := st.GetSpell(ctx, id)
		require.NoError(t, err)
		assert.True(t, row.HasHash(), "spell %d should be hashed", id)
		assert.NotEmpty(t, row.CanonicalData)
	}
}

func TestImportYAMLLeavesInvalidSpellsPending(t *testing.T) {
	imp, st := newImporter(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "spells.yaml")
	testsupport.WriteYAML(t, path, []spell.LegacyRecord{
		testsupport.CureLightWounds(),
		{Name: "Nameless Hum", Level: 2, Description: "A hum with no tradition."},
	})

	res, err := imp.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Read)
	assert.Equal(t, 1, res.Imported)
	assert.Equal(t, 1, res.Pending)

	pending, err := st.CountPendingHash(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}

func TestImportRejectsRecordsWithoutName(t *testing.T) {
	imp, st := newImporter(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "spells.jsonl")
	testsupport.WriteJSONL(t, path, []spell.LegacyRecord{{Level: 1, School: "Evocation"}})

	res, err := imp.ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Rejected)
	assert.Zero(t, res.Imported)

	count, err := st.CountSpells(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestImportIgnoresIDsInFile(t *testing.T) {
	imp, st := newImporter(t)
	ctx := context.Background()
	rec := testsupport.MagicMissile()
	rec.ID = 999
	path := filepath.Join(t.TempDir(), "spells.jsonl")
	testsupport.WriteJSONL(t, path, []spell.LegacyRecord{rec})

	res, err := imp.ImportFile(ctx, path)
	require.NoError(t, err)
	require.Len(t, res.IDs, 1)
	assert.NotEqual(t, int64(999), res.IDs[0])

	row, err := st.GetSpell(ctx, res.IDs[0])
	require.NoError(t, err)
	assert.Equal(t, rec.Name, row.Name)
}

func TestReadRecordsRejectsUnknownFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spells.csv")
	require.NoError(t, os.WriteFile(path, []byte("name\nFireball\n"), 0o644))

	_, _, err := importer.ReadRecords(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported import format")
}

func TestReadRecordsRejectsUnknownYAMLFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spells.yml")
	require.NoError(t, os.WriteFile(path, []byte("- name: Fireball\n  colour: red\n"), 0o644))

	_, _, err := importer.ReadRecords(path)
	require.Error(t, err)
}

func TestReadRecordsEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	records, malformed, err := importer.ReadRecords(path)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, malformed)
}

func TestImportUpdateExistingRewritesMatchingSpell(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()
	dir := t.TempDir()

	first := filepath.Join(dir, "first.jsonl")
	testsupport.WriteJSONL(t, first, []spell.LegacyRecord{testsupport.Fireball()})
	res, err := importer.New(st, logging.NewNop()).ImportFile(ctx, first)
	require.NoError(t, err)
	require.Len(t, res.IDs, 1)
	id := res.IDs[0]
	before, err := st.GetSpell(ctx, id)
	require.NoError(t, err)

	revised := testsupport.Fireball()
	revised.Name = "fireball"
	revised.Damage = "1d8/level (max 10d8)"
	second := filepath.Join(dir, "second.jsonl")
	testsupport.WriteJSONL(t, second, []spell.LegacyRecord{revised})

	imp := importer.New(st, logging.NewNop(), importer.UpdateExisting())
	res, err = imp.ImportFile(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)
	assert.Zero(t, res.Imported)
	assert.Zero(t, res.SyncMismatches)
	assert.Equal(t, []int64{id}, res.IDs)

	count, err := st.CountSpells(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	after, err := st.GetSpell(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, revised.Damage, after.Damage)
	assert.True(t, after.HasHash())
	assert.NotEqual(t, before.ContentHash, after.ContentHash)

	res, err = imp.ImportFile(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Duplicates)
	assert.Zero(t, res.Updated)
}

func TestImportUpdateExistingInsertsWhenNameIsAmbiguous(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	reprint := testsupport.Fireball()
	reprint.Source = "Tome of Flames p. 12"
	reprint.Range = "20 yds + 1 yd/level"
	testsupport.SeedLegacy(t, st, testsupport.Fireball(), reprint)

	revised := testsupport.Fireball()
	revised.Damage = "1d4/level (max 10d4)"
	path := filepath.Join(t.TempDir(), "spells.jsonl")
	testsupport.WriteJSONL(t, path, []spell.LegacyRecord{revised})

	res, err := importer.New(st, logging.NewNop(), importer.UpdateExisting()).ImportFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Imported)
	assert.Zero(t, res.Updated)

	count, err := st.CountSpells(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}
