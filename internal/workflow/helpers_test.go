package workflow

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"harmonize/internal/classify"
	"harmonize/internal/logging"
	"harmonize/internal/scan"
)

// fakeTranscoder writes a marker into the target and tracks concurrency.
type fakeTranscoder struct {
	delay time.Duration
	fail  map[string]error

	mu      sync.Mutex
	calls   []string
	running atomic.Int32
	peak    atomic.Int32
}

func (f *fakeTranscoder) Transcode(_ context.Context, source, target string) error {
	now := f.running.Add(1)
	defer f.running.Add(-1)
	for {
		peak := f.peak.Load()
		if now <= peak || f.peak.CompareAndSwap(peak, now) {
			break
		}
	}

	f.mu.Lock()
	f.calls = append(f.calls, source)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err := f.fail[filepath.Base(source)]; err != nil {
		return err
	}
	return os.WriteFile(target, []byte("transcoded:"+filepath.Base(source)), 0o644)
}

func (f *fakeTranscoder) called() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// syncBuffer is a bytes.Buffer safe for concurrent writers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	text := strings.TrimRight(b.buf.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func newPlainLogger(t *testing.T, level string) (*slog.Logger, *syncBuffer) {
	t.Helper()
	buf := &syncBuffer{}
	logger, closer, err := logging.New(logging.Options{Format: "plain", Level: level, Writer: buf})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	t.Cleanup(func() { _ = closer.Close() })
	return logger, buf
}

func planTree(t *testing.T, source, target string, codec classify.Codec) []Task {
	t.Helper()
	snapshot, err := scan.Scan(source, scan.Options{})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	classifier := classify.New(codec, []string{".flac", ".mp3"}, []string{".jpg", ".jpeg", ".png"})
	tasks, err := Plan(snapshot, classifier, target)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	return tasks
}

var errBoom = errors.New("boom")
