package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldSpellID is the standardized structured logging key for spell row identifiers.
	FieldSpellID = "spell_id"
	// FieldField names the legacy column a parse or sync event refers to.
	FieldField = "field"
	// FieldRunID identifies a migration run.
	FieldRunID = "run_id"
	// FieldEventType is the machine-readable event name (e.g. field_fallback).
	FieldEventType = "event_type"
	// FieldErrorHint carries the operator's next step.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
	// FieldDecisionType groups decision logs (collision verdicts, restore outcomes).
	FieldDecisionType = "decision_type"
	// FieldProgressProcessed and FieldProgressTotal describe batch progress.
	FieldProgressProcessed = "progress_processed"
	FieldProgressTotal     = "progress_total"
	FieldProgressPercent   = "progress_percent"
)

// Event types written to the migration log. ExportMigrationReport counts them.
const (
	EventFieldFallback    = "field_fallback"
	EventUnknownComponent = "unknown_component"
	EventHashFailure      = "hash_failure"
	EventSyncMismatch     = "sync_mismatch"
	EventMigrationStep    = "migration_step"
	EventMigrationSummary = "migration_summary"
	EventHashCollision    = "hash_collision"
	EventAdminSummary     = "admin_summary"
)
