// Package migration backfills canonical_data and content_hash for legacy
// spell rows.
//
// A backfill is an explicit Run value walked through
// NotStarted, BackupCreated, InProgress and finally Committed or RolledBack.
// The store is copied and verified before any row is touched, and every
// pending row is rewritten inside one transaction, so a hash collision or a
// write failure leaves the store exactly as it was. Field fallbacks and
// per-record validation failures are logged and counted but never abort the
// run.
package migration
