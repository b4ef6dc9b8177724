package backup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"spellbook/internal/config"
	"spellbook/internal/logging"
	"spellbook/internal/store"
	"spellbook/internal/textutil"
)

// ErrNoBackups reports an empty backup directory.
var ErrNoBackups = errors.New("no backups found")

const (
	filePrefix  = "spells_backup_"
	fileExt     = ".db"
	filePattern = filePrefix + "*" + fileExt
)

var fileNameRe = regexp.MustCompile(`^spells_backup_(\d+)(?:_([a-z0-9_-]+))?\.db$`)

// Entry describes one backup file on disk.
type Entry struct {
	Path      string    `json:"path"`
	Name      string    `json:"name"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	SizeBytes int64     `json:"size_bytes"`
}

// Manager owns the backup directory.
type Manager struct {
	dir       string
	pruneDays int
	logger    *slog.Logger
	now       func() time.Time
}

// NewManager builds a manager for cfg's backup directory.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	m := &Manager{
		dir:       strings.TrimSpace(cfg.Paths.BackupDir),
		pruneDays: cfg.Backup.PruneDays,
		now:       time.Now,
	}
	m.SetLogger(logger)
	return m
}

// SetLogger refreshes the manager's logging destination.
func (m *Manager) SetLogger(logger *slog.Logger) {
	m.logger = logging.NewComponentLogger(logger, "backup")
}

// Dir returns the backup directory.
func (m *Manager) Dir() string { return m.dir }

// Create writes a verified copy of st into the backup directory. label is
// optional and only decorates the file name.
func (m *Manager) Create(ctx context.Context, st *store.Store, label string) (Entry, error) {
	if st == nil {
		return Entry{}, errors.New("backup: store is nil")
	}
	if m.dir == "" {
		return Entry{}, errors.New("backup: backup directory not configured")
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return Entry{}, fmt.Errorf("backup: create directory: %w", err)
	}

	ts, path := m.nextPath(label)
	started := time.Now()
	if err := st.BackupTo(ctx, path); err != nil {
		_ = os.Remove(path)
		return Entry{}, fmt.Errorf("backup: %w", err)
	}
	if err := Verify(ctx, path); err != nil {
		_ = os.Remove(path)
		return Entry{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, fmt.Errorf("backup: stat %s: %w", path, err)
	}
	entry := Entry{
		Path:      path,
		Name:      filepath.Base(path),
		Label:     labelToken(label),
		CreatedAt: time.Unix(ts, 0),
		SizeBytes: info.Size(),
	}
	m.logger.InfoContext(ctx, "backup created",
		logging.String(logging.FieldEventType, "backup_created"),
		logging.String("backup_path", path),
		logging.Int64("backup_size_bytes", entry.SizeBytes),
		logging.Duration("backup_duration", time.Since(started)),
	)
	return entry, nil
}

// nextPath picks an unused file name. The timestamp is bumped past every
// backup already written in the same second, whatever its label, so
// CreatedAt orders backups by creation.
func (m *Manager) nextPath(label string) (int64, string) {
	ts := m.now().Unix()
	suffix := ""
	if token := labelToken(label); token != "" {
		suffix = "_" + token
	}
	taken := m.usedTimestamps()
	for taken[ts] {
		ts++
	}
	return ts, filepath.Join(m.dir, filePrefix+strconv.FormatInt(ts, 10)+suffix+fileExt)
}

func (m *Manager) usedTimestamps() map[int64]bool {
	used := map[int64]bool{}
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return used
	}
	for _, entry := range entries {
		match := fileNameRe.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		if ts, err := strconv.ParseInt(match[1], 10, 64); err == nil {
			used[ts] = true
		}
	}
	return used
}

func labelToken(label string) string {
	if strings.TrimSpace(label) == "" {
		return ""
	}
	return textutil.SanitizeToken(label)
}

// Verify checks that path is a non-empty SQLite database that passes
// PRAGMA integrity_check.
func Verify(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("verify backup: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("verify backup: %s is a directory", path)
	}
	if info.Size() == 0 {
		return fmt.Errorf("verify backup: %s is empty", path)
	}
	result, err := store.QuickCheck(ctx, path)
	if err != nil {
		return fmt.Errorf("verify backup: %w", err)
	}
	if !strings.EqualFold(result, "ok") {
		return fmt.Errorf("verify backup: integrity_check on %s returned %q", path, result)
	}
	return nil
}

// List returns every backup in the directory, newest first.
func (m *Manager) List() ([]Entry, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list backups: %w", err)
	}
	var out []Entry
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := fileNameRe.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		ts, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, Entry{
			Path:      filepath.Join(m.dir, entry.Name()),
			Name:      entry.Name(),
			Label:     match[2],
			CreatedAt: time.Unix(ts, 0),
			SizeBytes: info.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Name > out[j].Name
	})
	return out, nil
}

// Latest returns the newest backup or ErrNoBackups.
func (m *Manager) Latest() (Entry, error) {
	entries, err := m.List()
	if err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, fmt.Errorf("%s: %w", m.dir, ErrNoBackups)
	}
	return entries[0], nil
}

// Prune removes backups older than backup.prune_days. Zero keeps everything.
func (m *Manager) Prune(keep ...string) int {
	return logging.CleanupOldLogs(m.logger, m.pruneDays, logging.RetentionTarget{
		Dir:     m.dir,
		Pattern: filePattern,
		Exclude: keep,
	})
}
