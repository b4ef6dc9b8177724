package logging

import "strings"

// ProgressSampler suppresses repetitive progress logs while preserving signal
// when the phase changes, every interval records, and on the final record.
type ProgressSampler struct {
	interval  int
	lastPhase string
	lastCount int
}

// NewProgressSampler constructs a sampler that emits every interval records
// (default 100).
func NewProgressSampler(interval int) *ProgressSampler {
	if interval <= 0 {
		interval = 100
	}
	return &ProgressSampler{interval: interval, lastCount: -1}
}

// ShouldLog reports whether a progress event for processed of total records
// should be logged. A total of zero or less means "unknown"; phase is trimmed
// before comparison.
func (s *ProgressSampler) ShouldLog(processed, total int, phase string) bool {
	if s == nil {
		return true
	}
	phase = strings.TrimSpace(phase)
	emit := false
	if phase != "" && phase != s.lastPhase {
		s.lastPhase = phase
		s.lastCount = -1
		emit = true
	}
	if processed <= s.lastCount {
		return emit
	}
	if processed > 0 && processed%s.interval == 0 {
		emit = true
	}
	if total > 0 && processed >= total {
		emit = true
	}
	if emit {
		s.lastCount = processed
	}
	return emit
}

// Reset clears the sampler state (e.g. when a new run starts).
func (s *ProgressSampler) Reset() {
	if s == nil {
		return
	}
	s.lastPhase = ""
	s.lastCount = -1
}

// Percent returns processed as a share of total, or -1 when total is unknown.
func Percent(processed, total int) float64 {
	if total <= 0 {
		return -1
	}
	return float64(processed) * 100 / float64(total)
}
