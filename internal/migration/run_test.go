package migration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransitions(t *testing.T) {
	tests := []struct {
		name string
		path []State
		ok   bool
	}{
		{"full commit", []State{StateBackupCreated, StateInProgress, StateCommitted}, true},
		{"rollback in progress", []State{StateBackupCreated, StateInProgress, StateRolledBack}, true},
		{"nothing pending", []State{StateCommitted}, true},
		{"backup failure", []State{StateRolledBack}, true},
		{"skip backup", []State{StateInProgress}, false},
		{"commit after rollback", []State{StateBackupCreated, StateRolledBack, StateCommitted}, false},
		{"restart after commit", []State{StateCommitted, StateNotStarted}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := NewRun(time.Now())
			var err error
			for _, next := range tt.path {
				if err = run.transition(next); err != nil {
					break
				}
			}
			if tt.ok {
				require.NoError(t, err)
				assert.True(t, run.Done())
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestReportPercentagesTruncate(t *testing.T) {
	run := NewRun(time.Unix(0, 0))
	run.Total, run.Processed, run.Updated, run.Fallbacks = 3, 3, 2, 1
	run.FinishedAt = time.Unix(2, 0)

	rep := run.Report()
	assert.Equal(t, 66, rep.UpdatedPercent)
	assert.Equal(t, 33, rep.FallbackPercent)
	assert.Equal(t, 2*time.Second, rep.Duration)
	assert.Empty(t, rep.Error)
}

func TestReportWithoutTotal(t *testing.T) {
	rep := NewRun(time.Now()).Report()
	assert.Zero(t, rep.UpdatedPercent)
	assert.Zero(t, rep.FallbackPercent)
}
