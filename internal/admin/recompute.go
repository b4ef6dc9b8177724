package admin

import (
	"bytes"
	"context"

	"spellbook/internal/logging"
	"spellbook/internal/migration"
	"spellbook/internal/store"
	"spellbook/internal/synccheck"
)

// RecomputeReport counts what RecomputeHashes did.
type RecomputeReport struct {
	Total            int     `json:"total"`
	Changed          int     `json:"changed"`
	Refreshed        int     `json:"refreshed"`
	Unchanged        int     `json:"unchanged"`
	Failed           int     `json:"failed"`
	ChangedIDs       []int64 `json:"changed_ids,omitempty"`
	ClassRefsUpdated int64   `json:"class_refs_updated"`
	SyncMismatches   int     `json:"sync_mismatches"`
}

// RecomputeHashes re-derives canonical data and the content hash of every
// spell, whether or not it already has one, in a single transaction.
// Changed counts hashes that moved; Refreshed counts rows whose hash held but
// whose stored canonical data differed. A duplicate hash aborts with
// *migration.HashCollisionError and nothing is written.
func (t *Toolkit) RecomputeHashes(ctx context.Context) (RecomputeReport, error) {
	var report RecomputeReport
	lock, err := store.AcquireLock(t.cfg)
	if err != nil {
		return report, err
	}
	defer func() { _ = lock.Release() }()

	err = t.st.WithTx(ctx, func(tx *store.Tx) error {
		report = RecomputeReport{}
		rows, err := tx.ListSpells(ctx)
		if err != nil {
			return err
		}
		report.Total = len(rows)
		var touched []int64
		for _, row := range rows {
			prepared := migration.Prepare(row.LegacyRecord)
			migration.LogUnknownComponents(t.logger, row.ID, prepared.UnknownComponents)
			if !prepared.Valid() {
				if !migration.IsValidationError(prepared.Err) {
					return prepared.Err
				}
				report.Failed++
				logging.WarnWithContext(t.logger, "spell failed validation during recompute", logging.EventHashFailure,
					logging.SpellID(row.ID),
					logging.String("spell_name", row.Name),
					logging.Error(prepared.Err),
					logging.String(logging.FieldErrorHint, "fix the legacy columns and rerun --recompute-hashes"),
					logging.String(logging.FieldImpact, "stored hash left as it was"),
				)
				continue
			}
			if prepared.Hash == row.ContentHash && bytes.Equal(prepared.Data, row.CanonicalData) {
				report.Unchanged++
				continue
			}
			if err := tx.SetCanonical(ctx, row.ID, prepared.Data, prepared.Hash, prepared.Spell.SchemaVersion); err != nil {
				if store.IsUniqueViolation(err) {
					return migration.NewHashCollision(ctx, tx, row.ID, row.Name, prepared.Hash)
				}
				return err
			}
			touched = append(touched, row.ID)
			if prepared.Hash != row.ContentHash {
				report.Changed++
				report.ChangedIDs = append(report.ChangedIDs, row.ID)
				t.logger.Debug("content hash changed",
					logging.SpellID(row.ID),
					logging.String("old_hash", row.ContentHash),
					logging.String("new_hash", prepared.Hash),
				)
			} else {
				report.Refreshed++
			}
		}

		if report.ClassRefsUpdated, err = tx.SyncClassSpellHashes(ctx); err != nil {
			return err
		}
		checker := synccheck.New(tx, t.logger)
		for _, id := range touched {
			res, err := checker.Check(ctx, id)
			if err != nil {
				return err
			}
			if !res.InSync() {
				report.SyncMismatches++
			}
		}
		return nil
	})
	if err != nil {
		logging.ErrorWithContext(t.logger, "recompute aborted; nothing written", logging.EventAdminSummary,
			logging.Error(err),
			logging.String(logging.FieldErrorHint, hintFor(err)),
		)
		return report, err
	}

	t.summary("hashes recomputed", "recompute-hashes",
		logging.Int("total", report.Total),
		logging.Int("changed", report.Changed),
		logging.Int("refreshed", report.Refreshed),
		logging.Int("unchanged", report.Unchanged),
		logging.Int("failed", report.Failed),
		logging.Int64("class_refs_updated", report.ClassRefsUpdated),
	)
	return report, nil
}

func hintFor(err error) string {
	switch store.Kind(err) {
	case "hash_collision":
		return "run spellbook --detect-collisions"
	case "locked":
		return "wait for the running spellbook command to finish"
	case "integrity":
		return "pick another backup with spellbook --list-backups"
	}
	return "check migration.log for details"
}
