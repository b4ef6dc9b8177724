package admin

import (
	"bytes"
	"context"
	"strings"

	"spellbook/internal/canonical"
	"spellbook/internal/logging"
	"spellbook/internal/store"
	"spellbook/internal/textutil"
)

// Verdict classifies a group of spells sharing one content hash.
type Verdict string

const (
	// VerdictDuplicateContent means the spells carry the same hashed content.
	VerdictDuplicateContent Verdict = "duplicate_content"
	// VerdictCannotCompare means fewer than two members have canonical data.
	VerdictCannotCompare Verdict = "cannot_compare"
	// VerdictTrueCollision means different content resolved to one hash and
	// needs manual resolution.
	VerdictTrueCollision Verdict = "true_collision"
)

// nearDuplicateThreshold is the description cosine similarity above which
// same-named spells with different hashes are reported.
const nearDuplicateThreshold = 0.8

// CollisionGroup is one duplicated hash and its verdict.
type CollisionGroup struct {
	Hash    string           `json:"hash"`
	Verdict Verdict          `json:"verdict"`
	Spells  []store.SpellRef `json:"spells"`
}

// NearDuplicate is a pair of same-named spells whose hashes differ but whose
// descriptions are nearly identical, usually a transcription variant.
type NearDuplicate struct {
	Name       string           `json:"name"`
	Spells     []store.SpellRef `json:"spells"`
	Similarity float64          `json:"similarity"`
}

// CollisionReport is the result of DetectCollisions.
type CollisionReport struct {
	Groups         []CollisionGroup `json:"groups"`
	NearDuplicates []NearDuplicate  `json:"near_duplicates,omitempty"`
}

// TrueCollisions counts groups needing manual resolution.
func (r CollisionReport) TrueCollisions() int {
	n := 0
	for _, g := range r.Groups {
		if g.Verdict == VerdictTrueCollision {
			n++
		}
	}
	return n
}

// DetectCollisions groups spells by identical hash and compares the hashed
// content of each group's members.
func (t *Toolkit) DetectCollisions(ctx context.Context) (CollisionReport, error) {
	report := CollisionReport{Groups: []CollisionGroup{}}
	groups, err := t.st.DuplicateHashGroups(ctx)
	if err != nil {
		return report, err
	}
	for _, group := range groups {
		rows, err := t.st.SpellsByHash(ctx, group.Hash)
		if err != nil {
			return report, err
		}
		verdict := classify(rows)
		report.Groups = append(report.Groups, CollisionGroup{
			Hash:    group.Hash,
			Verdict: verdict,
			Spells:  group.Spells,
		})
		attrs := append(logging.DecisionAttrs("collision_verdict", string(verdict), verdictReason(verdict)),
			logging.String("content_hash", group.Hash),
			logging.Int("spells", len(group.Spells)),
		)
		t.logger.Info("collision group classified", logging.Args(attrs...)...)
	}

	if report.NearDuplicates, err = t.nearDuplicates(ctx); err != nil {
		return report, err
	}

	t.summary("collision scan finished", "detect-collisions",
		logging.Int("duplicate_groups", len(report.Groups)),
		logging.Int("true_collisions", report.TrueCollisions()),
		logging.Int("near_duplicates", len(report.NearDuplicates)),
	)
	return report, nil
}

func verdictReason(v Verdict) string {
	switch v {
	case VerdictDuplicateContent:
		return "hashed content is identical; keep one spell and repoint class references"
	case VerdictCannotCompare:
		return "fewer than two members carry canonical data"
	default:
		return "different content produced one hash; resolve by hand"
	}
}

// classify compares hash inputs so provenance differences (source, edition)
// still count as duplicate content.
func classify(rows []*store.SpellRow) Verdict {
	var inputs [][]byte
	for _, row := range rows {
		if len(row.CanonicalData) == 0 {
			continue
		}
		decoded, err := canonical.Unmarshal(row.CanonicalData)
		if err != nil {
			continue
		}
		input, err := canonical.HashInput(decoded)
		if err != nil {
			continue
		}
		inputs = append(inputs, input)
	}
	if len(inputs) < 2 {
		return VerdictCannotCompare
	}
	for _, input := range inputs[1:] {
		if !bytes.Equal(inputs[0], input) {
			return VerdictTrueCollision
		}
	}
	return VerdictDuplicateContent
}

func (t *Toolkit) nearDuplicates(ctx context.Context) ([]NearDuplicate, error) {
	groups, err := t.st.NameGroups(ctx)
	if err != nil {
		return nil, err
	}
	var out []NearDuplicate
	for _, refs := range groups {
		rows := make([]*store.SpellRow, 0, len(refs))
		for _, ref := range refs {
			row, err := t.st.GetSpell(ctx, ref.ID)
			if err != nil {
				return nil, err
			}
			rows = append(rows, row)
		}
		for i := 0; i < len(rows); i++ {
			for j := i + 1; j < len(rows); j++ {
				a, b := rows[i], rows[j]
				if a.HasHash() && a.ContentHash == b.ContentHash {
					continue
				}
				sim := textutil.CosineSimilarity(
					textutil.NewFingerprint(a.Description),
					textutil.NewFingerprint(b.Description),
				)
				if sim < nearDuplicateThreshold {
					continue
				}
				out = append(out, NearDuplicate{
					Name:       strings.TrimSpace(a.Name),
					Spells:     []store.SpellRef{{ID: a.ID, Name: a.Name}, {ID: b.ID, Name: b.Name}},
					Similarity: sim,
				})
			}
		}
	}
	return out, nil
}
