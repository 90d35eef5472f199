package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"harmonize/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// DefaultTools are the external binaries a full run may invoke.
var DefaultTools = []string{"ffmpeg", "ffprobe", "vipsheader", "vips", "jpegoptim"}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LockDir = filepath.Join(base, "locks")
	cfgVal.Transcode.Jobs = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithCodec sets the target audio codec.
func WithCodec(codec string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcode.Codec = codec
	}
}

// WithJobs sets the worker count.
func WithJobs(jobs int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcode.Jobs = jobs
	}
}

// WithMetricsTextfile points the metrics export at a file under the base dir.
func WithMetricsTextfile() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Metrics.Textfile = filepath.Join(b.baseDir, "metrics", "harmonize.prom")
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, DefaultTools are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		StubBinaries(b.t, filepath.Join(b.baseDir, "bin"), "exit 0", names...)
	}
}

// StubBinaries writes shell scripts running body into dir, one per name,
// and prepends dir to PATH for the rest of the test.
func StubBinaries(t testing.TB, dir, body string, names ...string) {
	t.Helper()

	if len(names) == 0 {
		names = DefaultTools
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir bin dir: %v", err)
	}
	script := []byte("#!/bin/sh\n" + body + "\n")
	for _, name := range names {
		target := filepath.Join(dir, name)
		if err := os.WriteFile(target, script, 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LockDir)
}
