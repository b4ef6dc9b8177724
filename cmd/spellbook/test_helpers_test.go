package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"spellbook/internal/config"
	"spellbook/internal/spell"
	"spellbook/internal/store"
	"spellbook/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	env := &cliTestEnv{baseDir: t.TempDir()}
	home := filepath.Join(env.baseDir, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("SPELLBOOK_DATA_DIR", "")

	env.cfg = testsupport.NewConfig(t)
	env.configPath = filepath.Join(env.baseDir, "spellbook.toml")
	writeTestConfig(t, env.configPath, env.cfg)
	return env
}

// seed inserts legacy-only rows through a short-lived store handle.
func (e *cliTestEnv) seed(t *testing.T, records ...spell.LegacyRecord) []int64 {
	t.Helper()
	st, err := store.Open(e.cfg)
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	defer st.Close()
	return testsupport.SeedLegacy(t, st, records...)
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	var stdout, stderr bytes.Buffer
	root := newRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// writeTestConfig writes the subset of cfg the CLI needs, quieting logs and
// tightening the progress interval so small fixtures still report.
func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	doc := map[string]any{
		"paths": map[string]string{
			"data_dir":   cfg.Paths.DataDir,
			"log_dir":    cfg.Paths.LogDir,
			"backup_dir": cfg.Paths.BackupDir,
		},
		"logging":   map[string]string{"level": "error"},
		"migration": map[string]int{"progress_interval": 2},
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
