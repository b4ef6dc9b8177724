package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestNewTeeHandlerCollapses(t *testing.T) {
	if _, ok := newTeeHandler(nil, nil).(noopHandler); !ok {
		t.Fatal("expected noopHandler for all nil sinks")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newTeeHandler(nil, inner, nil); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestTeeHandlerRespectsPerSinkLevel(t *testing.T) {
	var console, file bytes.Buffer
	consoleHandler := slog.NewJSONHandler(&console, &slog.HandlerOptions{Level: slog.LevelInfo})
	fileHandler := slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug})

	h := newTeeHandler(consoleHandler, fileHandler)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected tee enabled for debug when any handler accepts it")
	}

	logger := slog.New(h)
	logger.Debug("parsed field", slog.String(FieldField, "range"))

	if console.Len() != 0 {
		t.Fatalf("console handler should not receive debug records, got %q", console.String())
	}
	if !strings.Contains(file.String(), `"field":"range"`) {
		t.Fatalf("file handler missing debug record: %q", file.String())
	}
}

func TestTeeHandlerWithAttrsAndGroup(t *testing.T) {
	var buf1, buf2 bytes.Buffer
	h := newTeeHandler(slog.NewJSONHandler(&buf1, nil), slog.NewJSONHandler(&buf2, nil))

	logger := slog.New(h.WithAttrs([]slog.Attr{slog.String(FieldRunID, "run-1")}).WithGroup("summary"))
	logger.Info("done", slog.Int("updated", 3))

	for i, buf := range []*bytes.Buffer{&buf1, &buf2} {
		out := buf.String()
		if !strings.Contains(out, `"run_id":"run-1"`) || !strings.Contains(out, `"summary":{"updated":3}`) {
			t.Fatalf("handler %d missing attrs or group: %q", i, out)
		}
	}
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestTeeHandlerKeepsWritingAfterSinkError(t *testing.T) {
	var buf bytes.Buffer
	ok := slog.NewJSONHandler(&buf, nil)
	h := newTeeHandler(failingHandler{ok}, ok)

	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "x", 0))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected sink error, got %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("second sink should still receive the record")
	}
}

func TestTeeLoggerMirrorsIntoFile(t *testing.T) {
	var baseBuf, teeBuf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&baseBuf, nil))
	logger := TeeLogger(base, slog.NewJSONHandler(&teeBuf, nil))

	logger.Info("migration committed", slog.Int("updated", 12))

	if baseBuf.Len() == 0 || teeBuf.Len() == 0 {
		t.Fatalf("expected output in both buffers, base=%q tee=%q", baseBuf.String(), teeBuf.String())
	}

	var onlyTee bytes.Buffer
	TeeLogger(nil, slog.NewJSONHandler(&onlyTee, nil)).Info("no base")
	if onlyTee.Len() == 0 {
		t.Fatal("expected output in tee buffer with nil base")
	}
}
