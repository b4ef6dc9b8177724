// Package fileutil holds the crash-safe file primitives used by backups,
// restores and report export.
package fileutil

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// replaceAtomic fills a temp file beside path, fsyncs it, applies mode and
// renames it over path. On any failure the temp file is removed and path
// is untouched.
func replaceAtomic(path string, mode fs.FileMode, fill func(*os.File) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = fill(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// CopyFileAtomic replaces dst with a copy of src, keeping src's permission
// bits. The copy is re-read from disk and its SHA256 compared with the
// source stream before the rename.
func CopyFileAtomic(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	return replaceAtomic(dst, info.Mode().Perm(), func(tmp *os.File) error {
		srcSum := sha256.New()
		n, err := io.Copy(tmp, io.TeeReader(in, srcSum))
		if err != nil {
			return fmt.Errorf("copy: %w", err)
		}
		if n != info.Size() {
			return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", info.Size(), n)
		}
		if _, err := tmp.Seek(0, io.SeekStart); err != nil {
			return fmt.Errorf("rewind temp file: %w", err)
		}
		dstSum := sha256.New()
		if _, err := io.Copy(dstSum, tmp); err != nil {
			return fmt.Errorf("verify copy: %w", err)
		}
		if !bytes.Equal(srcSum.Sum(nil), dstSum.Sum(nil)) {
			return errors.New("copy hash mismatch: file corrupted during copy")
		}
		return nil
	})
}

// WriteFileAtomic writes data to path so readers see either the old file
// or the complete new one.
func WriteFileAtomic(path string, data []byte, mode fs.FileMode) error {
	return replaceAtomic(path, mode, func(tmp *os.File) error {
		if _, err := tmp.Write(data); err != nil {
			return fmt.Errorf("write temp file: %w", err)
		}
		return nil
	})
}

// MoveIfExists renames src to dst when src exists and reports whether it did.
func MoveIfExists(src, dst string) (bool, error) {
	err := os.Rename(src, dst)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		// ENOENT also covers a missing destination directory.
		if _, statErr := os.Lstat(src); errors.Is(statErr, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	default:
		return false, err
	}
}
