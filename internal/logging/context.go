package logging

import (
	"context"
	"log/slog"
)

type scopeKey struct{}

// scope is the logging identity carried through a context. Each With*
// call copies it, so a child context never changes its parent's fields.
type scope struct {
	runID   string
	spellID int64
	spell   bool
}

func scopeOf(ctx context.Context) scope {
	if ctx == nil {
		return scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

// WithRunID tags ctx with a migration run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	s := scopeOf(ctx)
	s.runID = id
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithSpellID tags ctx with the spell row being processed.
func WithSpellID(ctx context.Context, id int64) context.Context {
	s := scopeOf(ctx)
	s.spellID, s.spell = id, true
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithContext returns logger with the run and spell fields stored in ctx.
// A nil logger becomes a no-op logger.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	s := scopeOf(ctx)
	var args []any
	if s.runID != "" {
		args = append(args, slog.String(FieldRunID, s.runID))
	}
	if s.spell {
		args = append(args, slog.Int64(FieldSpellID, s.spellID))
	}
	if len(args) == 0 {
		return logger
	}
	return logger.With(args...)
}
