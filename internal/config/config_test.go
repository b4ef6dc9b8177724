package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"spellbook/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SPELLBOOK_DATA_DIR", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "spellbook")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LogDir != filepath.Join(wantData, "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
	if cfg.Paths.BackupDir != filepath.Join(wantData, "backups") {
		t.Fatalf("unexpected backup dir: %q", cfg.Paths.BackupDir)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "spellbook.sqlite3") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.MigrationLogPath() != filepath.Join(wantData, "logs", "migration.log") {
		t.Fatalf("unexpected migration log path: %q", cfg.MigrationLogPath())
	}
	if cfg.Migration.ProgressInterval != 100 {
		t.Fatalf("expected progress interval 100, got %d", cfg.Migration.ProgressInterval)
	}
	if cfg.MigrationLogMaxBytes() != 10*1024*1024 {
		t.Fatalf("unexpected migration log max bytes: %d", cfg.MigrationLogMaxBytes())
	}
	if !cfg.Migration.RunOnStart {
		t.Fatal("expected run_on_start enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomConfigOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SPELLBOOK_DATA_DIR", "")

	configPath := filepath.Join(tempHome, "config.toml")
	payload := struct {
		Paths struct {
			DataDir   string `toml:"data_dir"`
			BackupDir string `toml:"backup_dir"`
		} `toml:"paths"`
		Logging struct {
			Format string `toml:"format"`
			Level  string `toml:"level"`
		} `toml:"logging"`
		Migration struct {
			ProgressInterval int  `toml:"progress_interval"`
			RunOnStart       bool `toml:"run_on_start"`
		} `toml:"migration"`
	}{}
	payload.Paths.DataDir = "~/spells"
	payload.Paths.BackupDir = "~/spell-backups"
	payload.Logging.Format = " JSON "
	payload.Logging.Level = "DEBUG"
	payload.Migration.ProgressInterval = 25
	payload.Migration.RunOnStart = false

	data, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Paths.DataDir != filepath.Join(tempHome, "spells") {
		t.Fatalf("unexpected data dir: %q", cfg.Paths.DataDir)
	}
	if cfg.Paths.BackupDir != filepath.Join(tempHome, "spell-backups") {
		t.Fatalf("unexpected backup dir: %q", cfg.Paths.BackupDir)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, "spells", "logs") {
		t.Fatalf("log dir should follow data dir, got %q", cfg.Paths.LogDir)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized logging settings, got %+v", cfg.Logging)
	}
	if cfg.Migration.ProgressInterval != 25 {
		t.Fatalf("unexpected progress interval: %d", cfg.Migration.ProgressInterval)
	}
	if cfg.Migration.RunOnStart {
		t.Fatal("expected run_on_start disabled by file")
	}
}

func TestEnvDataDirOverridesFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	envDir := filepath.Join(tempHome, "from-env")
	t.Setenv("SPELLBOOK_DATA_DIR", envDir)

	configPath := filepath.Join(tempHome, "config.toml")
	if err := os.WriteFile(configPath, []byte("[paths]\ndata_dir = \"~/from-file\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.DataDir != envDir {
		t.Fatalf("expected env data dir %q, got %q", envDir, cfg.Paths.DataDir)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SPELLBOOK_DATA_DIR", "")

	cases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "level", body: "[logging]\nlevel = \"loud\"\n", wantErr: "logging.level"},
		{name: "progress", body: "[migration]\nprogress_interval = -5\n", wantErr: "migration.progress_interval"},
		{name: "factor", body: "[backup]\nmin_free_space_factor = 0.5\n", wantErr: "backup.min_free_space_factor"},
		{name: "filename", body: "[database]\nfilename = \"nested/spells.db\"\n", wantErr: "database.filename"},
		{name: "backup dir", body: "[paths]\ndata_dir = \"~/same\"\nbackup_dir = \"~/same\"\n", wantErr: "paths.backup_dir"},
		{name: "syntax", body: "[paths\n", wantErr: "parse config"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tc.body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SPELLBOOK_DATA_DIR", "")

	path := filepath.Join(tempHome, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Backup.MinFreeSpaceFactor != 2.0 {
		t.Fatalf("unexpected min free space factor: %v", cfg.Backup.MinFreeSpaceFactor)
	}
}

func TestEnsureDirectoriesCreatesAll(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "data", "logs")
	cfg.Paths.BackupDir = filepath.Join(base, "backups")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir, cfg.Paths.BackupDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
	}
}
