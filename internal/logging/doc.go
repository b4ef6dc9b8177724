// Package logging assembles structured slog loggers and formatting helpers used
// across Spellbook.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so migration and admin code can
// tag log lines with run IDs, spell IDs, and field names. The rotating
// migration log lives here too: OpenRotating returns a writer that TeeLogger
// attaches next to the console handler so every step lands on disk.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// data with the same shape and routing guarantees as the rest of the system.
package logging
