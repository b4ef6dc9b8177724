package migration

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

// State is a backfill lifecycle state.
type State string

const (
	StateNotStarted    State = "not_started"
	StateBackupCreated State = "backup_created"
	StateInProgress    State = "in_progress"
	StateCommitted     State = "committed"
	StateRolledBack    State = "rolled_back"
)

// A run with nothing to backfill commits straight from NotStarted; a failed
// backup rolls back before any row is touched.
var transitions = map[State][]State{
	StateNotStarted:    {StateBackupCreated, StateCommitted, StateRolledBack},
	StateBackupCreated: {StateInProgress, StateRolledBack},
	StateInProgress:    {StateCommitted, StateRolledBack},
}

// Run carries the state and counters of one backfill.
type Run struct {
	ID             string
	State          State
	StartedAt      time.Time
	FinishedAt     time.Time
	Total          int
	Processed      int
	Updated        int
	Fallbacks      int
	HashFailures   int
	FieldFallbacks map[string]int
	BackupPath     string
	Err            error
}

// NewRun returns a run in StateNotStarted.
func NewRun(now time.Time) *Run {
	return &Run{
		ID:             newRunID(),
		State:          StateNotStarted,
		StartedAt:      now,
		FieldFallbacks: make(map[string]int),
	}
}

func newRunID() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func (r *Run) transition(to State) error {
	for _, allowed := range transitions[r.State] {
		if allowed == to {
			r.State = to
			return nil
		}
	}
	return fmt.Errorf("migration run %s: invalid transition %s -> %s", r.ID, r.State, to)
}

// Done reports whether the run reached a terminal state.
func (r *Run) Done() bool {
	return r.State == StateCommitted || r.State == StateRolledBack
}

// Report is the operator summary of a run.
type Report struct {
	RunID           string         `json:"run_id"`
	State           State          `json:"state"`
	Total           int            `json:"total"`
	Processed       int            `json:"processed"`
	Updated         int            `json:"updated"`
	Fallbacks       int            `json:"fallbacks"`
	HashFailures    int            `json:"hash_failures"`
	UpdatedPercent  int            `json:"updated_percent"`
	FallbackPercent int            `json:"fallback_percent"`
	FieldFallbacks  map[string]int `json:"field_fallbacks,omitempty"`
	BackupPath      string         `json:"backup_path,omitempty"`
	Duration        time.Duration  `json:"duration"`
	Error           string         `json:"error,omitempty"`
}

// Report summarizes r. Percentages are whole numbers of the pending total.
func (r *Run) Report() Report {
	rep := Report{
		RunID:          r.ID,
		State:          r.State,
		Total:          r.Total,
		Processed:      r.Processed,
		Updated:        r.Updated,
		Fallbacks:      r.Fallbacks,
		HashFailures:   r.HashFailures,
		FieldFallbacks: r.FieldFallbacks,
		BackupPath:     r.BackupPath,
	}
	if r.Total > 0 {
		rep.UpdatedPercent = r.Updated * 100 / r.Total
		rep.FallbackPercent = r.Fallbacks * 100 / r.Total
	}
	if !r.FinishedAt.IsZero() {
		rep.Duration = r.FinishedAt.Sub(r.StartedAt)
	}
	if r.Err != nil {
		rep.Error = r.Err.Error()
	}
	return rep
}

// FallbackFields returns the fields that fell back, sorted by name.
func (r Report) FallbackFields() []string {
	out := make([]string, 0, len(r.FieldFallbacks))
	for field := range r.FieldFallbacks {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}
