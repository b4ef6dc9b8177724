package backup

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"spellbook/internal/fileutil"
)

// sidecars are the SQLite files that travel with a WAL-mode database.
var sidecars = []string{"-wal", "-shm"}

// Swap replaces the closed database at active with a copy of backupPath.
// The previous store and its sidecars are moved to
// <active>.pre-restore-<unix-seconds>; the returned path is empty when there
// was no active store to preserve.
func Swap(backupPath, active string, now time.Time) (string, error) {
	info, err := os.Stat(backupPath)
	if err != nil {
		return "", fmt.Errorf("restore: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("restore: %s is a directory", backupPath)
	}

	preserved := active + ".pre-restore-" + strconv.FormatInt(now.Unix(), 10)
	for n := 1; exists(preserved); n++ {
		preserved = active + ".pre-restore-" + strconv.FormatInt(now.Unix(), 10) + "-" + strconv.Itoa(n)
	}

	moved, err := fileutil.MoveIfExists(active, preserved)
	if err != nil {
		return "", fmt.Errorf("restore: preserve active store: %w", err)
	}
	for _, suffix := range sidecars {
		if _, err := fileutil.MoveIfExists(active+suffix, preserved+suffix); err != nil {
			return "", errors.Join(fmt.Errorf("restore: preserve %s: %w", suffix, err), revertIf(moved, preserved, active))
		}
	}
	if !moved {
		preserved = ""
	}

	if err := fileutil.CopyFileAtomic(backupPath, active); err != nil {
		return "", errors.Join(fmt.Errorf("restore: copy backup into place: %w", err), Revert(preserved, active))
	}
	return preserved, nil
}

// Revert removes the restored store at active and moves preserved back into
// place. An empty preserved path only removes the restored files.
func Revert(preserved, active string) error {
	var errs []error
	for _, suffix := range append([]string{""}, sidecars...) {
		if err := os.Remove(active + suffix); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, fmt.Errorf("revert: remove %s: %w", active+suffix, err))
		}
	}
	if preserved == "" {
		return errors.Join(errs...)
	}
	for _, suffix := range append([]string{""}, sidecars...) {
		if _, err := fileutil.MoveIfExists(preserved+suffix, active+suffix); err != nil {
			errs = append(errs, fmt.Errorf("revert: restore %s: %w", preserved+suffix, err))
		}
	}
	return errors.Join(errs...)
}

func revertIf(moved bool, preserved, active string) error {
	if !moved {
		return nil
	}
	return Revert(preserved, active)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
