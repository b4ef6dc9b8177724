package store

import (
	"errors"
	"strings"
)

// ErrorClassifier allows errors to declare their classification so the CLI
// can map a failure to an actionable next step.
type ErrorClassifier interface {
	// ErrorKind returns a string classification of the error, such as
	// "validation", "hash_collision", "backup", or "integrity".
	ErrorKind() string
}

var (
	// ErrNotFound reports a missing spell row.
	ErrNotFound = errors.New("spell not found")
	// ErrLocked reports that another migration or admin command holds the lock.
	ErrLocked = errors.New("another spellbook operation holds the lock")
)

// Kind returns the classification of err, or "" when nothing in its chain
// implements ErrorClassifier.
func Kind(err error) string {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	switch {
	case errors.Is(err, ErrLocked):
		return "locked"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	}
	return ""
}

const (
	sqliteConstraintUnique     = 2067
	sqliteConstraintPrimaryKey = 1555
)

// IsUniqueViolation reports whether err is a SQLite UNIQUE or PRIMARY KEY
// constraint failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		switch coder.Code() {
		case sqliteConstraintUnique, sqliteConstraintPrimaryKey:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
