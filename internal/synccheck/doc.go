// Package synccheck compares a spell row's legacy columns with its
// canonical_data after every write.
//
// The legacy columns are re-parsed and canonicalized, then each structured
// field is compared with the stored canonical value as JSON. Drift is logged
// as a sync_mismatch warning and returned to the caller; it never blocks the
// write that triggered the check.
package synccheck
