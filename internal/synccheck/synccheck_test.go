package synccheck_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellbook/internal/hashing"
	"spellbook/internal/logging"
	"spellbook/internal/parser"
	"spellbook/internal/store"
	"spellbook/internal/synccheck"
	"spellbook/internal/testsupport"
)

func backfill(t *testing.T, st *store.Store, id int64) {
	t.Helper()
	ctx := context.Background()
	row, err := st.GetSpell(ctx, id)
	require.NoError(t, err)
	canon := parser.ParseRecord(row.LegacyRecord).Spell
	hash, data, err := hashing.Prepare(&canon)
	require.NoError(t, err)
	require.NoError(t, st.SetCanonical(ctx, id, data, hash, canon.SchemaVersion))
}

func jsonLogger(t *testing.T, buf *bytes.Buffer) *slog.Logger {
	t.Helper()
	handler, err := logging.NewHandler(buf, "json", "debug", false)
	require.NoError(t, err)
	return slog.New(handler)
}

func TestCheckInSync(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ids := testsupport.SeedLegacy(t, st, testsupport.Fireball(), testsupport.OddlyWorded())
	for _, id := range ids {
		backfill(t, st, id)
	}

	checker := synccheck.New(st, logging.NewNop())
	for _, id := range ids {
		res, err := checker.Check(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, res.Skipped)
		assert.True(t, res.InSync(), "unexpected drift: %+v", res.Mismatches)
	}
}

func TestCheckReportsDrift(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()
	id := testsupport.SeedLegacy(t, st, testsupport.Fireball())[0]
	backfill(t, st, id)

	row, err := st.GetSpell(ctx, id)
	require.NoError(t, err)
	row.Range = "Touch"
	row.Level = 4
	require.NoError(t, st.UpdateSpell(ctx, row))

	var buf bytes.Buffer
	res, err := synccheck.New(st, jsonLogger(t, &buf)).Check(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"level", "range"}, res.Fields())
	assert.Contains(t, buf.String(), `"event_type":"sync_mismatch"`)
	assert.Contains(t, buf.String(), `"fields":"level,range"`)
}

func TestCheckSkipsRowsWithoutCanonicalData(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	id := testsupport.SeedLegacy(t, st, testsupport.MagicMissile())[0]

	res, err := synccheck.New(st, nil).Check(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.True(t, res.InSync())
}

func TestCheckMissingRow(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	_, err := synccheck.New(st, nil).Check(context.Background(), 999)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestCheckInsideTransaction(t *testing.T) {
	st := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	id := testsupport.SeedLegacy(t, st, testsupport.CureLightWounds())[0]
	backfill(t, st, id)

	err := st.WithTx(context.Background(), func(tx *store.Tx) error {
		res, err := synccheck.New(tx, nil).Check(context.Background(), id)
		if err != nil {
			return err
		}
		assert.True(t, res.InSync())
		return nil
	})
	require.NoError(t, err)
}
