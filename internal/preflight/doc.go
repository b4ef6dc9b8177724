// Package preflight provides readiness checks for the filesystem paths the
// migration engine writes to.
//
// The migration manager calls ForBackup before copying the store: the data
// and backup directories must be accessible and the backup directory must
// have room for a full copy (times backup.min_free_space_factor). The CLI
// health command runs the same checks for display.
package preflight
