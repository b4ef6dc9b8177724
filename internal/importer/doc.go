// Package importer loads legacy spell records from JSONL or YAML files into
// the store.
//
// Each record is inserted with its legacy columns, then canonicalized and
// hashed in the same transaction. Records that fail validation keep a NULL
// content_hash for a later backfill; records whose hash already exists are
// skipped. Every written row is sync checked afterwards.
package importer
