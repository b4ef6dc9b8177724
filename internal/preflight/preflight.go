package preflight

import (
	"fmt"
	"os"
	"strings"

	"spellbook/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// ForBackup runs the checks required before a store of dbSize bytes is
// copied into the backup directory.
func ForBackup(cfg *config.Config, dbSize int64) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{
		CheckDirectoryAccess("Data directory", cfg.Paths.DataDir),
		CheckDirectoryAccess("Backup directory", cfg.Paths.BackupDir),
	}
	required := uint64(float64(max(dbSize, 0)) * cfg.Backup.MinFreeSpaceFactor)
	results = append(results, CheckFreeSpace("Backup free space", cfg.Paths.BackupDir, required))
	return results
}

// StoreSize returns the combined size of the database file and its WAL.
func StoreSize(dbPath string) int64 {
	var total int64
	for _, p := range []string{dbPath, dbPath + "-wal"} {
		if info, err := os.Stat(p); err == nil {
			total += info.Size()
		}
	}
	return total
}

// Failed joins the details of failed checks into one error, or returns nil.
func Failed(results []Result) error {
	var failures []string
	for _, r := range results {
		if !r.Passed {
			failures = append(failures, r.Name+": "+r.Detail)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed: %s", strings.Join(failures, "; "))
}
