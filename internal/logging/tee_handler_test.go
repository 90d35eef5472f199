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

func TestTeeHandlerDropsNilHandlers(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler when every handler is nil")
	}

	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := TeeHandler(nil, inner); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
	if h := TeeHandler(inner, nil); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestTeeHandlerEnabledWhenAnyHandlerAccepts(t *testing.T) {
	var infoBuf, debugBuf bytes.Buffer
	info := slog.NewJSONHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo})
	debug := slog.NewJSONHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug})

	h := TeeHandler(info, debug)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected debug to be enabled through the debug handler")
	}

	slog.New(h).Debug("ffmpeg stderr")
	if infoBuf.Len() != 0 {
		t.Fatalf("info handler received debug record: %s", infoBuf.String())
	}
	if debugBuf.Len() == 0 {
		t.Fatal("debug handler did not receive debug record")
	}
}

func TestTeeHandlerJoinsErrors(t *testing.T) {
	h := TeeHandler(failingHandler{err: errors.New("terminal closed")}, failingHandler{err: errors.New("disk full")})
	err := h.Handle(context.Background(), slog.NewRecord(time.Now(), slog.LevelInfo, "Scanned 1 items", 0))
	if err == nil || !strings.Contains(err.Error(), "terminal closed") || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected both errors, got %v", err)
	}
}

type failingHandler struct {
	NoopHandler
	err error
}

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (f failingHandler) Handle(context.Context, slog.Record) error { return f.err }

func TestValueTextQuoting(t *testing.T) {
	tests := []struct {
		value slog.Value
		want  string
	}{
		{slog.StringValue("plain"), "plain"},
		{slog.StringValue("two words"), `"two words"`},
		{slog.StringValue(""), `""`},
		{slog.StringValue("a=b"), `"a=b"`},
		{slog.IntValue(42), "42"},
		{slog.DurationValue(1500 * time.Millisecond), "1.5s"},
		{slog.AnyValue(errors.New("exit 1")), `"exit 1"`},
	}
	for _, tt := range tests {
		if got := valueText(tt.value, true); got != tt.want {
			t.Errorf("valueText(%v) = %s, want %s", tt.value, got, tt.want)
		}
	}
	if got := valueText(slog.StringValue("two words"), false); got != "two words" {
		t.Errorf("unquoted render = %q", got)
	}
}

func TestTeeHandlerPlainAndFile(t *testing.T) {
	var terminal, file bytes.Buffer
	lvl := new(slog.LevelVar)
	fileLvl := new(slog.LevelVar)
	fileLvl.Set(slog.LevelDebug)

	h := TeeHandler(newPlainHandler(&terminal, lvl), newRunIDHandler(newJSONHandler(&file, fileLvl, false), "r1"))
	logger := slog.New(h).WithGroup("task").With(slog.String("kind", "audio"))
	logger.Info("Transcoding src/a.flac")

	if got := terminal.String(); got != "Transcoding src/a.flac task.kind=audio\n" {
		t.Fatalf("terminal output = %q", got)
	}
	out := file.String()
	for _, want := range []string{`"msg":"Transcoding src/a.flac"`, `"task":{"kind":"audio"`, `"run_id":"r1"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("file output missing %s: %s", want, out)
		}
	}
}
