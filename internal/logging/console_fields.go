package logging

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type infoField struct {
	label string
	value string
}

const (
	infoAttrLimit   = 8
	infoValueLimit  = 120
	errorValueLimit = 200
)

// highlightOrder ranks the keys an operator reads first. Keys not listed
// follow in record order.
var highlightOrder = []string{
	FieldEventType, FieldDecisionType, "decision_result", "decision_reason",
	"spell_name", "state",
	FieldProgressProcessed, FieldProgressTotal, FieldProgressPercent,
	"error", FieldErrorHint, FieldImpact,
	"updated", "fallbacks", "hash_failures", "changed", "unchanged", "failed",
	"backup_path", "backup_size_bytes", "elapsed", "reason",
}

var highlightLabels = map[string]string{
	FieldEventType:         "Event",
	FieldDecisionType:      "Decision",
	"decision_result":      "Result",
	"decision_reason":      "Reason",
	FieldErrorHint:         "Hint",
	FieldProgressProcessed: "Processed",
	FieldProgressTotal:     "Total",
	FieldProgressPercent:   "Progress",
	"spell_name":           "Spell",
	"backup_path":          "Backup",
	"backup_size_bytes":    "Backup Size",
}

func highlightRank(key string) int {
	if i := slices.Index(highlightOrder, key); i >= 0 {
		return i
	}
	return len(highlightOrder)
}

// selectInfoFields orders attrs by highlight rank and formats up to limit
// of them (0 means no limit). It also counts the fields it held back:
// debug-only keys, oversized values, and anything past the limit.
func selectInfoFields(attrs []kv, limit int, includeDebug bool) ([]infoField, int) {
	ordered := slices.Clone(attrs)
	slices.SortStableFunc(ordered, func(a, b kv) int {
		return cmp.Compare(highlightRank(a.key), highlightRank(b.key))
	})

	var (
		out    []infoField
		hidden int
	)
	for _, a := range ordered {
		if headerKey(a.key) {
			continue
		}
		value := formatValueForKey(a.key, a.value)
		switch {
		case !includeDebug && debugOnlyKey(a.key),
			!includeDebug && oversized(a.key, value),
			limit > 0 && len(out) >= limit:
			hidden++
			continue
		}
		out = append(out, infoField{label: displayLabel(a.key), value: value})
	}
	return out, hidden
}

// formatValueForKey picks a human rendering from the key's suffix: sizes,
// durations and percentages get units, booleans read yes/no.
func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()
	switch {
	case v.Kind() == slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	case (strings.HasSuffix(key, "_bytes") || key == "size") && v.Kind() == slog.KindInt64:
		return formatBytes(v.Int64())
	case (strings.HasSuffix(key, "_bytes") || key == "size") && v.Kind() == slog.KindUint64:
		return formatBytes(int64(v.Uint64()))
	case (strings.HasSuffix(key, "_duration") || key == "elapsed" || key == "duration") && v.Kind() == slog.KindDuration:
		return formatDurationHuman(v.Duration())
	case strings.HasSuffix(key, "_percent") && v.Kind() == slog.KindFloat64:
		return formatPercent(v.Float64())
	case key == "error":
		s := strings.TrimSpace(formatValue(v))
		if len(s) > errorValueLimit {
			s = s[:errorValueLimit] + "…"
		}
		return s
	}
	return formatValue(v)
}

// headerKey reports keys already shown in the line header.
func headerKey(key string) bool {
	return key == "" || key == FieldSpellID || key == FieldField || key == FieldComponent
}

// debugOnlyKey holds back identifiers and raw payloads. They stay in the
// JSON log and show on the console at debug.
func debugOnlyKey(key string) bool {
	switch key {
	case FieldRunID, "content_hash", "canonical_data", "raw_value", "database_path":
		return true
	}
	return strings.HasSuffix(key, "_hash") || strings.HasSuffix(key, "_dir")
}

func oversized(key, value string) bool {
	if key == "error" || key == FieldErrorHint || key == "reason" {
		return false
	}
	return len(value) > infoValueLimit
}

// displayLabel maps snake_case keys to "Title Case" unless a fixed label
// exists.
func displayLabel(key string) string {
	if label, ok := highlightLabels[key]; ok {
		return label
	}
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || r == '.' })
	// Casers keep state, so each call gets its own.
	return cases.Title(language.English).String(strings.Join(words, " "))
}

// infoSummaryKey scopes repeated-field suppression to one spell, else one
// run, else the component.
func infoSummaryKey(component, spellID string, attrs []kv) string {
	if id := strings.TrimSpace(spellID); id != "" {
		return "spell:" + id
	}
	for _, a := range attrs {
		if a.key == FieldRunID {
			return "run:" + attrString(a.value)
		}
	}
	return component
}
