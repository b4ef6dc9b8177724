package preflight

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spellbook/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	result := CheckDirectoryAccess("test", t.TempDir())
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if CheckDirectoryAccess("test", f).Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckFreeSpace(t *testing.T) {
	dir := t.TempDir()
	if r := CheckFreeSpace("space", dir, 1); !r.Passed {
		t.Fatalf("expected 1 byte to fit, got: %s", r.Detail)
	}
	if r := CheckFreeSpace("space", dir, math.MaxUint64); r.Passed {
		t.Fatal("expected impossible requirement to fail")
	}
	if r := CheckFreeSpace("space", filepath.Join(dir, "missing"), 1); r.Passed {
		t.Fatal("expected statfs failure for missing path")
	}
}

func TestForBackupAndFailed(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "data", "logs")
	cfg.Paths.BackupDir = filepath.Join(base, "backups")
	if err := os.MkdirAll(cfg.Paths.DataDir, 0o755); err != nil {
		t.Fatal(err)
	}

	results := ForBackup(&cfg, 1024)
	if len(results) != 3 {
		t.Fatalf("expected 3 checks, got %d", len(results))
	}
	err := Failed(results)
	if err == nil || !strings.Contains(err.Error(), "Backup directory") {
		t.Fatalf("expected missing backup dir to fail, got %v", err)
	}

	if err := os.MkdirAll(cfg.Paths.BackupDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := Failed(ForBackup(&cfg, 1024)); err != nil {
		t.Fatalf("expected checks to pass, got %v", err)
	}
}

func TestStoreSize(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "spells.db")
	if err := os.WriteFile(db, make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(db+"-wal", make([]byte, 20), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := StoreSize(db); got != 120 {
		t.Fatalf("StoreSize = %d, want 120", got)
	}
}
