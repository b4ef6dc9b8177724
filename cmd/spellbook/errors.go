package main

import (
	"errors"
	"fmt"
	"strings"

	"spellbook/internal/admin"
	"spellbook/internal/backup"
	"spellbook/internal/migration"
	"spellbook/internal/store"
)

// hintError is a CLI failure that already knows its next step.
type hintError struct {
	msg  string
	hint string
}

func (e *hintError) Error() string { return e.msg }

func withHint(hint, format string, args ...any) error {
	return &hintError{msg: fmt.Sprintf(format, args...), hint: hint}
}

// describeError renders err for stderr with an actionable next step.
func describeError(err error) string {
	if err == nil {
		return ""
	}
	var b strings.Builder
	if store.Kind(err) == "hash_collision" {
		b.WriteString(migration.CollisionMessage)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "Error: %v", err)
	if hint := hintFor(err); hint != "" {
		fmt.Fprintf(&b, "\nNext step: %s", hint)
	}
	return b.String()
}

func hintFor(err error) string {
	var he *hintError
	if errors.As(err, &he) {
		return he.hint
	}
	switch {
	case errors.Is(err, backup.ErrNoBackups):
		return "no backup exists yet; one is created automatically before each backfill (spellbook migrate)"
	case errors.Is(err, admin.ErrNoMigrationLog):
		return "run spellbook migrate first so migration.log has something to report"
	}
	switch store.Kind(err) {
	case "hash_collision":
		return "run spellbook --detect-collisions, fix or remove the duplicate spell, then run spellbook migrate again"
	case "backup":
		return "free space in the backup directory or fix its permissions, then run spellbook migrate again"
	case "integrity":
		return "the previous store was reinstated; pick another backup from spellbook --list-backups"
	case "validation":
		return "correct the legacy columns named above and run spellbook --recompute-hashes"
	case "locked":
		return "wait for the other spellbook command to finish, then retry"
	case "not_found":
		return "check the spell id with spellbook health"
	}
	return ""
}
