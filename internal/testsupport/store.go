package testsupport

import (
	"context"
	"testing"

	"spellbook/internal/config"
	"spellbook/internal/spell"
	"spellbook/internal/store"
)

// MustOpenStore opens a store.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *store.Store {
	t.Helper()

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

// SeedLegacy inserts legacy-only rows (no canonical data, no hash) and
// returns their ids in order.
func SeedLegacy(t testing.TB, st *store.Store, records ...spell.LegacyRecord) []int64 {
	t.Helper()

	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		row := &store.SpellRow{LegacyRecord: rec}
		id, err := st.InsertSpell(context.Background(), row)
		if err != nil {
			t.Fatalf("seed %q: %v", rec.Name, err)
		}
		ids = append(ids, id)
	}
	return ids
}
