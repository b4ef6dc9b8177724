package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"spellbook/internal/spell"
)

// WriteJSONL writes one JSON object per record, followed by any raw extra
// lines (useful for malformed input).
func WriteJSONL(t testing.TB, path string, records []spell.LegacyRecord, extra ...string) {
	t.Helper()

	var b strings.Builder
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			t.Fatalf("marshal %q: %v", rec.Name, err)
		}
		b.Write(line)
		b.WriteByte('\n')
	}
	for _, line := range extra {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	writeFile(t, path, []byte(b.String()))
}

// WriteYAML writes records as a YAML list.
func WriteYAML(t testing.TB, path string, records []spell.LegacyRecord) {
	t.Helper()

	data, err := yaml.Marshal(records)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	writeFile(t, path, data)
}

// WriteFile writes size filler bytes to path, creating parent directories.
func WriteFile(t testing.TB, path string, size int) {
	t.Helper()
	writeFile(t, path, []byte(strings.Repeat("x", size)))
}

func writeFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
