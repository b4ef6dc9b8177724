package admin

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"spellbook/internal/fileutil"
	"spellbook/internal/logging"
	"spellbook/internal/spell"
)

// ErrNoMigrationLog reports that no backfill has written migration.log yet.
var ErrNoMigrationLog = errors.New("no migration log found")

// MigrationReport is the exported summary of migration.log.
type MigrationReport struct {
	Timestamp     string         `json:"timestamp"`
	SpellCount    int            `json:"spell_count"`
	ParseFailures map[string]int `json:"parse_failures"`
	HashFailures  int            `json:"hash_failures"`
	LogLines      []string       `json:"log_lines"`
}

// ExportMigrationReport counts field fallbacks per field in migration.log
// and writes migration_report_<unix-seconds>.json to the data directory. It
// returns the written path.
func (t *Toolkit) ExportMigrationReport(ctx context.Context) (string, MigrationReport, error) {
	report := MigrationReport{ParseFailures: make(map[string]int, len(spell.ParsedFields))}
	for _, field := range spell.ParsedFields {
		report.ParseFailures[field] = 0
	}

	logPath := t.cfg.MigrationLogPath()
	data, err := os.ReadFile(logPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", report, fmt.Errorf("%s: %w", logPath, ErrNoMigrationLog)
		}
		return "", report, fmt.Errorf("read migration log: %w", err)
	}

	report.LogLines = []string{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if len(bytes.TrimSpace([]byte(line))) == 0 {
			continue
		}
		report.LogLines = append(report.LogLines, line)

		var entry struct {
			EventType string `json:"event_type"`
			Field     string `json:"field"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		switch entry.EventType {
		case logging.EventFieldFallback:
			if entry.Field != "" {
				report.ParseFailures[entry.Field]++
			}
		case logging.EventHashFailure:
			report.HashFailures++
		}
	}
	if err := scanner.Err(); err != nil {
		return "", report, fmt.Errorf("scan migration log: %w", err)
	}

	if report.SpellCount, err = t.st.CountSpells(ctx); err != nil {
		return "", report, err
	}
	now := t.now()
	report.Timestamp = now.UTC().Format(time.RFC3339)

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", report, fmt.Errorf("encode migration report: %w", err)
	}
	path := t.reportPath(now)
	if err := fileutil.WriteFileAtomic(path, append(out, '\n'), 0o644); err != nil {
		return "", report, fmt.Errorf("write migration report: %w", err)
	}
	t.summary("migration report exported", "export-migration-report",
		logging.String("report_path", path),
		logging.Int("spell_count", report.SpellCount),
		logging.Int("log_lines", len(report.LogLines)),
	)
	return path, report, nil
}

func (t *Toolkit) reportPath(now time.Time) string {
	ts := now.Unix()
	for {
		path := filepath.Join(t.cfg.Paths.DataDir, "migration_report_"+strconv.FormatInt(ts, 10)+".json")
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return path
		}
		ts++
	}
}
