package store

import (
	"context"
	"errors"
	"strings"
	"time"
)

// sqliteBusy is the primary result code for SQLITE_BUSY; extended codes
// carry it in the low byte.
const sqliteBusy = 5

// busyBackoff bounds how long writers wait out a concurrent connection
// before surfacing the busy error.
var busyBackoff = struct {
	attempts int
	first    time.Duration
	ceiling  time.Duration
}{attempts: 5, first: 10 * time.Millisecond, ceiling: 200 * time.Millisecond}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coded interface{ Code() int }
	if errors.As(err, &coded) {
		return coded.Code()&0xff == sqliteBusy
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

// retryOnBusy reruns op with doubling delays while SQLite reports the
// database busy. Other errors and context cancellation end the loop.
func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyBackoff.first
	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil || !isSQLiteBusy(err) || attempt == busyBackoff.attempts {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay = min(delay*2, busyBackoff.ceiling)
	}
}
