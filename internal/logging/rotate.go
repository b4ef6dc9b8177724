package logging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// RotationPolicy bounds a log file by size and age. Zero values disable the
// corresponding check.
type RotationPolicy struct {
	MaxBytes int64
	MaxAge   time.Duration
}

// RotatingFile is an append-only log file that was rotated on open when it
// crossed its policy. The previous generation is kept at path + ".old".
type RotatingFile struct {
	mu      sync.Mutex
	path    string
	file    *os.File
	rotated string
}

// OpenRotating opens path for appending. If the existing file is larger than
// policy.MaxBytes or its modification time is older than policy.MaxAge, it is
// first renamed to path + ".old", replacing any earlier generation.
func OpenRotating(path string, policy RotationPolicy) (*RotatingFile, error) {
	if err := ensureLogDir(path); err != nil {
		return nil, fmt.Errorf("ensure log dir: %w", err)
	}
	reason, err := rotationReason(path, policy, time.Now())
	if err != nil {
		return nil, err
	}
	if reason != "" {
		if err := os.Rename(path, path+".old"); err != nil {
			return nil, fmt.Errorf("rotate %s: %w", path, err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return &RotatingFile{path: path, file: file, rotated: reason}, nil
}

// Size wins when both thresholds are crossed.
func rotationReason(path string, policy RotationPolicy, now time.Time) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("stat log file: %w", err)
	}
	if policy.MaxBytes > 0 && info.Size() >= policy.MaxBytes {
		return "size", nil
	}
	if policy.MaxAge > 0 && now.Sub(info.ModTime()) >= policy.MaxAge {
		return "age", nil
	}
	return "", nil
}

// Write appends p to the log file.
func (r *RotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return 0, os.ErrClosed
	}
	return r.file.Write(p)
}

// Close flushes and closes the underlying file.
func (r *RotatingFile) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// Path returns the active log path.
func (r *RotatingFile) Path() string { return r.path }

// Rotated reports why the previous file was rotated on open ("size", "age"),
// or an empty string when it was reused.
func (r *RotatingFile) Rotated() string { return r.rotated }

func ensureLogDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
