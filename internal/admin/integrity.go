package admin

import (
	"context"
	"fmt"
	"strings"

	"spellbook/internal/canonical"
	"spellbook/internal/hashing"
	"spellbook/internal/logging"
	"spellbook/internal/store"
)

// maxMismatchExamples bounds the mismatches listed in a report; the total is
// always exact.
const maxMismatchExamples = 10

// HashMismatch is a spell whose stored hash does not match its stored
// canonical data.
type HashMismatch struct {
	SpellID    int64  `json:"spell_id"`
	Name       string `json:"name"`
	StoredHash string `json:"stored_hash"`
	Recomputed string `json:"recomputed,omitempty"`
	Problem    string `json:"problem,omitempty"`
}

// IntegrityReport is the read-only result of CheckIntegrity.
type IntegrityReport struct {
	SQLiteCheck         string                  `json:"sqlite_check"`
	TotalSpells         int                     `json:"total_spells"`
	NullHashes          int                     `json:"null_hashes"`
	HashMismatches      []HashMismatch          `json:"hash_mismatches,omitempty"`
	HashMismatchesTotal int                     `json:"hash_mismatches_total"`
	OrphanReferences    []store.OrphanReference `json:"orphan_references,omitempty"`
	DuplicateHashes     []store.HashGroup       `json:"duplicate_hashes,omitempty"`
}

// Clean reports whether the store has no corruption. Null hashes are rows
// still waiting for a backfill and do not count.
func (r IntegrityReport) Clean() bool {
	return strings.EqualFold(r.SQLiteCheck, "ok") &&
		r.HashMismatchesTotal == 0 &&
		len(r.OrphanReferences) == 0 &&
		len(r.DuplicateHashes) == 0
}

// Issues lists one line per problem class, for display.
func (r IntegrityReport) Issues() []string {
	var out []string
	if !strings.EqualFold(r.SQLiteCheck, "ok") {
		out = append(out, "sqlite integrity_check: "+r.SQLiteCheck)
	}
	if r.HashMismatchesTotal > 0 {
		out = append(out, fmt.Sprintf("%d spell(s) whose content_hash does not match canonical_data", r.HashMismatchesTotal))
	}
	if n := len(r.OrphanReferences); n > 0 {
		out = append(out, fmt.Sprintf("%d character_class_spell reference(s) to missing spells", n))
	}
	if n := len(r.DuplicateHashes); n > 0 {
		out = append(out, fmt.Sprintf("%d content_hash value(s) held by more than one spell", n))
	}
	return out
}

// CheckIntegrity scans the store without modifying it.
func (t *Toolkit) CheckIntegrity(ctx context.Context) (IntegrityReport, error) {
	report, err := checkIntegrity(ctx, t.st)
	if err != nil {
		return report, err
	}
	level := "clean"
	if !report.Clean() {
		level = "issues_found"
	}
	t.summary("integrity check finished", "check-integrity",
		logging.String("result", level),
		logging.String("sqlite_check", report.SQLiteCheck),
		logging.Int("null_hashes", report.NullHashes),
		logging.Int("hash_mismatches", report.HashMismatchesTotal),
		logging.Int("orphan_references", len(report.OrphanReferences)),
		logging.Int("duplicate_hashes", len(report.DuplicateHashes)),
	)
	return report, nil
}

func checkIntegrity(ctx context.Context, st *store.Store) (IntegrityReport, error) {
	var (
		report IntegrityReport
		err    error
	)
	if report.SQLiteCheck, err = st.IntegrityCheck(ctx); err != nil {
		return report, err
	}
	if report.TotalSpells, err = st.CountSpells(ctx); err != nil {
		return report, err
	}
	if report.NullHashes, err = st.CountPendingHash(ctx); err != nil {
		return report, err
	}
	rows, err := st.ListSpells(ctx)
	if err != nil {
		return report, err
	}
	for _, row := range rows {
		if !row.HasHash() {
			continue
		}
		mismatch, ok := verifyHash(row)
		if ok {
			continue
		}
		report.HashMismatchesTotal++
		if len(report.HashMismatches) < maxMismatchExamples {
			report.HashMismatches = append(report.HashMismatches, mismatch)
		}
	}
	if report.OrphanReferences, err = st.OrphanReferences(ctx); err != nil {
		return report, err
	}
	if report.DuplicateHashes, err = st.DuplicateHashGroups(ctx); err != nil {
		return report, err
	}
	return report, nil
}

func verifyHash(row *store.SpellRow) (HashMismatch, bool) {
	mismatch := HashMismatch{SpellID: row.ID, Name: row.Name, StoredHash: row.ContentHash}
	if len(row.CanonicalData) == 0 {
		mismatch.Problem = "content_hash set without canonical_data"
		return mismatch, false
	}
	decoded, err := canonical.Unmarshal(row.CanonicalData)
	if err != nil {
		mismatch.Problem = err.Error()
		return mismatch, false
	}
	recomputed, err := hashing.ComputeHash(decoded)
	if err != nil {
		mismatch.Problem = err.Error()
		return mismatch, false
	}
	if recomputed != row.ContentHash {
		mismatch.Recomputed = recomputed
		return mismatch, false
	}
	return mismatch, true
}
