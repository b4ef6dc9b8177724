package store

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"

	"spellbook/internal/config"
)

const lockFileName = "spellbook.lock"

// Lock is an exclusive advisory lock held for the duration of a migration or
// admin command.
type Lock struct {
	path string
	lock *flock.Flock
}

// AcquireLock takes the data directory lock without blocking. It returns
// ErrLocked when another process holds it.
func AcquireLock(cfg *config.Config) (*Lock, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	path := filepath.Join(cfg.Paths.DataDir, lockFileName)
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	return &Lock{path: path, lock: fl}, nil
}

// Path returns the lock file location.
func (l *Lock) Path() string { return l.path }

// Release unlocks the lock file. It is safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
