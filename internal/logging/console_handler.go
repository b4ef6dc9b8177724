package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleState is shared by a handler and every WithAttrs/WithGroup clone so
// writes stay serialized and repeated-field suppression spans the whole run.
type consoleState struct {
	mu   sync.Mutex
	seen map[string]map[string]string
}

// consoleHandler renders records for a terminal: a one-line header naming
// the component and spell, then highlighted detail lines at info and above
// or every attribute at debug.
type consoleHandler struct {
	w         io.Writer
	level     slog.Leveler
	addSource bool
	preset    []kv
	groups    []string
	state     *consoleState
}

func newConsoleHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	return &consoleHandler{
		w:         w,
		level:     lvl,
		addSource: addSource,
		state:     &consoleState{seen: make(map[string]map[string]string)},
	}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// consoleLine is one record split into header parts and detail attributes.
type consoleLine struct {
	ts        time.Time
	level     slog.Level
	component string
	spellID   string
	field     string
	message   string
	source    *slog.Source
	attrs     []kv
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	if record.Level < h.level.Level() {
		return nil
	}
	line := h.split(record)

	var buf bytes.Buffer
	buf.Grow(256 + 32*len(line.attrs))

	h.state.mu.Lock()
	defer h.state.mu.Unlock()

	line.writeHeader(&buf, h.addSource)
	if line.level < slog.LevelInfo {
		line.writeAll(&buf)
	} else {
		h.writeHighlights(&buf, line)
	}
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) split(record slog.Record) consoleLine {
	line := consoleLine{
		ts:      record.Time,
		level:   record.Level,
		message: strings.TrimSpace(record.Message),
		source:  record.Source(),
	}
	if line.ts.IsZero() {
		line.ts = time.Now()
	}
	if line.message == "" {
		line.message = "(no message)"
	}

	all := append(make([]kv, 0, len(h.preset)+record.NumAttrs()), h.preset...)
	record.Attrs(func(attr slog.Attr) bool {
		flattenAttr(&all, h.groups, attr)
		return true
	})

	line.attrs = make([]kv, 0, len(all))
	for _, a := range all {
		switch a.key {
		case FieldComponent:
			if line.component == "" {
				line.component = attrString(a.value)
			}
			continue
		case FieldSpellID:
			if line.spellID == "" {
				line.spellID = attrString(a.value)
			}
		case FieldField:
			if line.field == "" {
				line.field = attrString(a.value)
			}
		}
		line.attrs = append(line.attrs, a)
	}
	line.attrs = dedupeKVsByKey(line.attrs)
	return line
}

// writeHeader emits "<time> WARN [migration] Spell #12 (range) - message".
func (l consoleLine) writeHeader(buf *bytes.Buffer, addSource bool) {
	buf.WriteString(formatTimestamp(l.ts))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(l.level))
	if l.component != "" {
		buf.WriteString(" [" + l.component + "]")
	}
	if subject := composeSubject(l.spellID, l.field); subject != "" {
		buf.WriteString(" " + subject)
	}
	buf.WriteString(" - " + l.message)
	if addSource && l.source != nil {
		buf.WriteString(" [" + filepath.Base(l.source.File) + ":" + strconv.Itoa(l.source.Line) + "]")
	}
	buf.WriteByte('\n')
}

func (l consoleLine) writeAll(buf *bytes.Buffer) {
	for _, a := range l.attrs {
		buf.WriteString("    " + a.key + ": " + formatValue(a.value) + "\n")
	}
}

func (h *consoleHandler) writeHighlights(buf *bytes.Buffer, l consoleLine) {
	fields, hidden := selectInfoFields(l.attrs, infoAttrLimit, false)
	fields = h.dropRepeated(infoSummaryKey(l.component, l.spellID, l.attrs), fields, l.level)
	for _, f := range fields {
		buf.WriteString("    - " + f.label + ": " + f.value + "\n")
	}
	switch {
	case hidden == 1:
		buf.WriteString("    + 1 more field hidden\n")
	case hidden > 1:
		buf.WriteString("    + " + strconv.Itoa(hidden) + " more fields hidden\n")
	}
}

// dropRepeated hides info fields whose value has not changed since the last
// info line for the same spell or run. Warnings always show every field but
// still refresh the cache.
func (h *consoleHandler) dropRepeated(key string, fields []infoField, level slog.Level) []infoField {
	if key == "" || len(fields) == 0 {
		return fields
	}
	seen := h.state.seen[key]
	if seen == nil {
		seen = make(map[string]string)
		h.state.seen[key] = seen
	}
	kept := fields[:0:0]
	for _, f := range fields {
		prev, ok := seen[f.label]
		seen[f.label] = f.value
		if level <= slog.LevelInfo && ok && prev == f.value {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// composeSubject renders "Spell #12 (range)" style subjects.
func composeSubject(spellID, field string) string {
	spellID = strings.TrimSpace(spellID)
	field = strings.TrimSpace(field)
	switch {
	case spellID != "" && field != "":
		return "Spell #" + spellID + " (" + field + ")"
	case spellID != "":
		return "Spell #" + spellID
	default:
		return field
	}
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.preset = append([]kv(nil), h.preset...)
	for _, attr := range attrs {
		flattenAttr(&clone.preset, h.groups, attr)
	}
	return &clone
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

type kv struct {
	key   string
	value slog.Value
}

// dedupeKVsByKey keeps the first position of each key with its last value.
func dedupeKVsByKey(attrs []kv) []kv {
	if len(attrs) < 2 {
		return attrs
	}
	index := make(map[string]int, len(attrs))
	out := make([]kv, 0, len(attrs))
	for _, a := range attrs {
		if a.key == "" {
			continue
		}
		if i, ok := index[a.key]; ok {
			out[i].value = a.value
			continue
		}
		index[a.key] = len(out)
		out = append(out, a)
	}
	return out
}

// flattenAttr appends attr to dst, expanding groups into dotted keys.
func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		if attr.Key != "" {
			prefix = append(append([]string(nil), prefix...), attr.Key)
		}
		for _, member := range attr.Value.Group() {
			flattenAttr(dst, prefix, member)
		}
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(append(append([]string(nil), prefix...), attr.Key), ".")
		key = strings.TrimSuffix(key, ".")
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
