package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spellbook/internal/backup"
	"spellbook/internal/importer"
	"spellbook/internal/migration"
	"spellbook/internal/spell"
	"spellbook/internal/store"
	"spellbook/internal/testsupport"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.DatabasePath())

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected init to refuse an existing file")
	} else {
		requireContains(t, describeError(err), "--overwrite")
	}
}

func TestMigrateThenAdminCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, testsupport.Fireball(), testsupport.MagicMissile(), testsupport.CureLightWounds())

	out, _, err := runCLI(t, []string{"migrate", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	var report migration.Report
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out)
	}
	if report.State != migration.StateCommitted {
		t.Fatalf("state = %s, want %s", report.State, migration.StateCommitted)
	}
	if report.Updated != 3 || report.UpdatedPercent != 100 {
		t.Fatalf("updated = %d (%d%%), want 3 (100%%)", report.Updated, report.UpdatedPercent)
	}

	out, _, err = runCLI(t, []string{"--list-backups"}, env.configPath)
	if err != nil {
		t.Fatalf("list backups: %v", err)
	}
	requireContains(t, out, "spells_backup_")

	out, _, err = runCLI(t, []string{"--check-integrity"}, env.configPath)
	if err != nil {
		t.Fatalf("check integrity: %v", err)
	}
	requireContains(t, out, "Hash mismatches")

	out, _, err = runCLI(t, []string{"--detect-collisions"}, env.configPath)
	if err != nil {
		t.Fatalf("detect collisions: %v", err)
	}
	requireContains(t, out, "No spells share a content hash")

	out, _, err = runCLI(t, []string{"--recompute-hashes", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	var recompute struct {
		Total   int `json:"total"`
		Changed int `json:"changed"`
	}
	if err := json.Unmarshal([]byte(out), &recompute); err != nil {
		t.Fatalf("decode recompute: %v", err)
	}
	if recompute.Total != 3 || recompute.Changed != 0 {
		t.Fatalf("recompute = %+v, want 3 total and 0 changed", recompute)
	}

	out, _, err = runCLI(t, []string{"--rollback-migration"}, env.configPath)
	if err != nil {
		t.Fatalf("rollback: %v", err)
	}
	requireContains(t, out, "Restored")
	requireContains(t, out, "Integrity check: ok (3 spells, 3 pending hashes)")
}

func TestExportMigrationReport(t *testing.T) {
	env := setupCLITestEnv(t)
	env.seed(t, testsupport.Fireball(), testsupport.OddlyWorded())

	if _, _, err := runCLI(t, []string{"migrate"}, env.configPath); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	out, _, err := runCLI(t, []string{"--export-migration-report", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	var payload struct {
		Path   string `json:"path"`
		Report struct {
			SpellCount    int            `json:"spell_count"`
			ParseFailures map[string]int `json:"parse_failures"`
		} `json:"report"`
	}
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if payload.Report.SpellCount != 2 {
		t.Fatalf("spell count = %d, want 2", payload.Report.SpellCount)
	}
	if payload.Report.ParseFailures["range"] == 0 {
		t.Fatalf("expected a range fallback, got %v", payload.Report.ParseFailures)
	}
	if _, err := os.Stat(payload.Path); err != nil {
		t.Fatalf("report file: %v", err)
	}
}

func TestImportAndHealth(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "spells.jsonl")
	testsupport.WriteJSONL(t, path, []spell.LegacyRecord{testsupport.Fireball(), testsupport.MagicMissile()}, "{oops")

	out, _, err := runCLI(t, []string{"import", path, "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	var res importer.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode import: %v", err)
	}
	if res.Imported != 2 || res.Malformed != 1 {
		t.Fatalf("import result = %+v, want 2 imported and 1 malformed", res)
	}

	out, _, err = runCLI(t, []string{"health"}, env.configPath)
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	requireContains(t, out, renderStatusLine("Total spells", statusInfo, "2", false))
	requireContains(t, out, renderStatusLine("Pending hashes", statusOK, "0", false))
	requireContains(t, out, "== Backup preflight ==")
}

func TestImportUnsupportedFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "spells.csv")
	if err := os.WriteFile(path, []byte("name\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	_, _, err := runCLI(t, []string{"import", path}, env.configPath)
	if err == nil {
		t.Fatal("expected unsupported format error")
	}
	requireContains(t, describeError(err), "Next step:")
}

func TestConflictingAdminFlags(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"--list-backups", "--check-integrity"}, env.configPath)
	if err == nil {
		t.Fatal("expected conflicting flags error")
	}
	requireContains(t, err.Error(), "conflicting flags")
}

func TestRollbackWithoutBackups(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"--rollback-migration"}, env.configPath)
	if !errors.Is(err, backup.ErrNoBackups) {
		t.Fatalf("expected ErrNoBackups, got %v", err)
	}
	requireContains(t, describeError(err), "spellbook migrate")
}

func TestDescribeErrorHints(t *testing.T) {
	collision := describeError(&migration.HashCollisionError{SpellID: 2, Name: "Fireball", OtherID: 1, OtherName: "Fireball", Hash: "abc"})
	if !strings.HasPrefix(collision, migration.CollisionMessage) {
		t.Fatalf("collision output should start with the collision message, got %q", collision)
	}
	requireContains(t, collision, "--detect-collisions")

	locked := describeError(store.ErrLocked)
	requireContains(t, locked, "wait for the other spellbook command")

	backupErr := describeError(&migration.BackupError{Op: "preflight", Err: errors.New("disk full")})
	requireContains(t, backupErr, "free space")

	if got := describeError(errors.New("plain")); strings.Contains(got, "Next step") {
		t.Fatalf("unclassified errors carry no hint, got %q", got)
	}
}
