package migration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spellbook/internal/backup"
	"spellbook/internal/config"
	"spellbook/internal/logging"
	"spellbook/internal/migration"
	"spellbook/internal/spell"
	"spellbook/internal/store"
	"spellbook/internal/testsupport"
)

func newManager(t *testing.T, opts ...testsupport.ConfigOption) (*config.Config, *store.Store, *migration.Manager, *bytes.Buffer) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	st := testsupport.MustOpenStore(t, cfg)
	var buf bytes.Buffer
	handler, err := logging.NewHandler(&buf, "json", "info", false)
	require.NoError(t, err)
	return cfg, st, migration.NewManager(cfg, st, slog.New(handler)), &buf
}

func hashes(t *testing.T, st *store.Store) []string {
	t.Helper()
	rows, err := st.ListSpells(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ContentHash)
	}
	return out
}

func TestRunBackfillsEveryPendingSpell(t *testing.T) {
	cfg, st, mgr, _ := newManager(t)
	testsupport.SeedLegacy(t, st,
		testsupport.Fireball(),
		testsupport.MagicMissile(),
		testsupport.CureLightWounds(),
		testsupport.OddlyWorded(),
	)

	run, err := mgr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, migration.StateCommitted, run.State)
	assert.Equal(t, 4, run.Total)
	assert.Equal(t, 4, run.Processed)
	assert.Equal(t, 4, run.Updated)
	assert.Equal(t, 0, run.HashFailures)
	assert.Equal(t, 1, run.Fallbacks)
	assert.Equal(t, 1, run.FieldFallbacks[spell.FieldRange])
	assert.Equal(t, 1, run.FieldFallbacks[spell.FieldDamage])

	seen := map[string]bool{}
	for _, h := range hashes(t, st) {
		require.Len(t, h, 64)
		require.False(t, seen[h], "duplicate hash %s", h)
		seen[h] = true
	}

	require.NotEmpty(t, run.BackupPath)
	assert.True(t, strings.HasSuffix(run.BackupPath, "_pre_migration.db"), "backup %s", run.BackupPath)
	require.NoError(t, backup.Verify(context.Background(), run.BackupPath))
	latest, err := backup.NewManager(cfg, nil).Latest()
	require.NoError(t, err)
	assert.Equal(t, run.BackupPath, latest.Path)

	rep := run.Report()
	assert.Equal(t, 100, rep.UpdatedPercent)
	assert.Equal(t, 25, rep.FallbackPercent)
	assert.Contains(t, rep.FallbackFields(), spell.FieldRange)

	pending, err := st.CountPendingHash(context.Background())
	require.NoError(t, err)
	assert.Zero(t, pending)
}

func TestRunRollsBackOnHashCollision(t *testing.T) {
	_, st, mgr, logs := newManager(t)
	ids := testsupport.SeedLegacy(t, st, testsupport.Fireball(), testsupport.MagicMissile(), testsupport.Fireball())

	run, err := mgr.Run(context.Background())
	require.Error(t, err)

	var collision *migration.HashCollisionError
	require.ErrorAs(t, err, &collision)
	assert.Equal(t, ids[2], collision.SpellID)
	assert.Equal(t, ids[0], collision.OtherID)
	assert.Equal(t, "Fireball", collision.OtherName)
	assert.Equal(t, "hash_collision", store.Kind(err))

	assert.Equal(t, migration.StateRolledBack, run.State)
	assert.Equal(t, migration.StateRolledBack, run.Report().State)
	for _, h := range hashes(t, st) {
		assert.Empty(t, h, "no spell may keep a hash after rollback")
	}
	assert.Contains(t, logs.String(), migration.CollisionMessage)
	assert.Contains(t, logs.String(), `"event_type":"hash_collision"`)
	assert.FileExists(t, run.BackupPath)
}

func TestRunSkipsInvalidSpells(t *testing.T) {
	_, st, mgr, logs := newManager(t)
	ids := testsupport.SeedLegacy(t, st,
		testsupport.Fireball(),
		spell.LegacyRecord{Name: "Nameless Rite", Level: 1, Description: "No school, no sphere."},
	)

	run, err := mgr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, migration.StateCommitted, run.State)
	assert.Equal(t, 1, run.Updated)
	assert.Equal(t, 1, run.HashFailures)
	assert.Equal(t, 50, run.Report().UpdatedPercent)

	row, err := st.GetSpell(context.Background(), ids[1])
	require.NoError(t, err)
	assert.False(t, row.HasHash())
	assert.Contains(t, logs.String(), `"event_type":"hash_failure"`)
}

func TestRunLogsUnknownComponentTokens(t *testing.T) {
	_, st, mgr, logs := newManager(t)
	rec := testsupport.Fireball()
	rec.Components = "V, S, Q"
	ids := testsupport.SeedLegacy(t, st, rec)

	run, err := mgr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, run.Updated)

	var found bool
	for _, line := range strings.Split(strings.TrimSpace(logs.String()), "\n") {
		var entry struct {
			EventType string `json:"event_type"`
			SpellID   int64  `json:"spell_id"`
			Field     string `json:"field"`
			Token     string `json:"token"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry.EventType != logging.EventUnknownComponent {
			continue
		}
		found = true
		assert.Equal(t, ids[0], entry.SpellID)
		assert.Equal(t, spell.FieldComponents, entry.Field)
		assert.Equal(t, "q", entry.Token)
	}
	assert.True(t, found, "expected an unknown_component line in %s", logs.String())
}

func TestRunWithNothingPending(t *testing.T) {
	cfg, _, mgr, _ := newManager(t)

	run, err := mgr.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, migration.StateCommitted, run.State)
	assert.Zero(t, run.Total)
	assert.Empty(t, run.BackupPath)

	entries, err := backup.NewManager(cfg, nil).List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunIsRepeatable(t *testing.T) {
	_, st, mgr, _ := newManager(t)
	testsupport.SeedLegacy(t, st, testsupport.Fireball())

	first, err := mgr.Run(context.Background())
	require.NoError(t, err)
	second, err := mgr.Run(context.Background())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, first.Updated)
	assert.Zero(t, second.Total)
}

func TestRunAbortsWhenPreflightFails(t *testing.T) {
	cfg, st, mgr, _ := newManager(t, testsupport.WithMinFreeSpaceFactor(1e12))
	testsupport.SeedLegacy(t, st, testsupport.Fireball())

	run, err := mgr.Run(context.Background())
	require.Error(t, err)

	var backupErr *migration.BackupError
	require.ErrorAs(t, err, &backupErr)
	assert.Equal(t, "preflight", backupErr.Op)
	assert.Equal(t, "backup", store.Kind(err))
	assert.Equal(t, migration.StateRolledBack, run.State)
	assert.Empty(t, run.BackupPath)
	assert.Equal(t, []string{""}, hashes(t, st))

	entries, err := os.ReadDir(cfg.Paths.BackupDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunRefusesWhenLocked(t *testing.T) {
	cfg, st, mgr, _ := newManager(t)
	testsupport.SeedLegacy(t, st, testsupport.Fireball())

	lock, err := store.AcquireLock(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = lock.Release() })

	run, err := mgr.Run(context.Background())
	require.ErrorIs(t, err, store.ErrLocked)
	assert.Equal(t, migration.StateNotStarted, run.State)
}

func TestRunLogsProgressAtInterval(t *testing.T) {
	_, st, mgr, logs := newManager(t, testsupport.WithProgressInterval(2))
	testsupport.SeedLegacy(t, st,
		testsupport.Fireball(),
		testsupport.MagicMissile(),
		testsupport.CureLightWounds(),
		testsupport.OddlyWorded(),
	)

	_, err := mgr.Run(context.Background())
	require.NoError(t, err)
	// The first record opens the phase, then every second record logs.
	assert.Equal(t, 3, strings.Count(logs.String(), `"msg":"backfill progress"`))
	assert.Contains(t, logs.String(), `"progress_processed":4`)
	assert.Contains(t, logs.String(), `"event_type":"field_fallback"`)
	assert.Contains(t, logs.String(), `"field":"range"`)
	assert.Contains(t, logs.String(), `"event_type":"migration_summary"`)
}

func TestRunCancelledContextRollsBack(t *testing.T) {
	_, st, mgr, _ := newManager(t)
	testsupport.SeedLegacy(t, st, testsupport.Fireball())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	run, err := mgr.Run(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled) || run.State == migration.StateRolledBack)
	assert.Equal(t, []string{""}, hashes(t, st))
}

func TestNewRunID(t *testing.T) {
	run := migration.NewRun(time.Now())
	_, err := uuid.Parse(run.ID)
	require.NoError(t, err)
	assert.Equal(t, migration.StateNotStarted, run.State)
	assert.False(t, run.Done())
}
