package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/text"

	"harmonize/internal/deps"
	"harmonize/internal/testsupport"
)

func TestCheckReportsTools(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.StubBinaries(t, filepath.Join(env.baseDir, "bin"), "exit 0")

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Tools ==")
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "jpegoptim")
	requireContains(t, out, "[OK] all tools available")
}

func TestCheckFailsOnMissingTools(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("PATH", t.TempDir())

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "missing required tools") {
		t.Fatalf("expected missing tools error, got %v", err)
	}
	requireContains(t, out, "[ERROR] missing")
}

func TestCheckDirectories(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.StubBinaries(t, filepath.Join(env.baseDir, "bin"), "exit 0")

	out, _, err := runCLI(t, []string{"check", env.source, env.target}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	requireContains(t, out, "== Directories ==")
	requireContains(t, out, "Source directory:")
	requireContains(t, out, "(will be created)")

	_, _, err = runCLI(t, []string{"check", filepath.Join(env.baseDir, "nope"), env.target}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "preflight failed") {
		t.Fatalf("expected preflight failure, got %v", err)
	}
}

func TestToolSummary(t *testing.T) {
	statuses := []deps.Status{
		{Name: "FFmpeg", Command: "ffmpeg", Available: true},
		{Name: "FFprobe", Command: "ffprobe", Optional: true, Detail: `binary "ffprobe" not found`},
	}
	kind, summary := toolSummary(statuses)
	if kind != statusWarn || summary != "optional tools unavailable: FFprobe" {
		t.Fatalf("unexpected summary %v %q", kind, summary)
	}

	statuses = append(statuses, deps.Status{Name: "vips", Command: "vips"})
	kind, summary = toolSummary(statuses)
	if kind != statusError || summary != "missing vips" {
		t.Fatalf("unexpected summary %v %q", kind, summary)
	}
}

func TestToolTable(t *testing.T) {
	out := toolTable([]deps.Status{
		{Name: "FFmpeg", Command: "ffmpeg", Available: true, Detail: "/usr/bin/ffmpeg"},
		{Name: "vips", Command: "vips", Detail: `binary "vips" not found`},
	}, false)
	for _, want := range []string{"TOOL", "STATUS", "/usr/bin/ffmpeg", "missing", "ok"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatal("uncolored table must not contain escape codes")
	}
}

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("Target directory", statusError, "not writable", false)
	want := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, "Target directory:", "[ERROR] not writable")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	text.EnableColors()
	got := renderStatusLine("FFmpeg", statusOK, "", true)
	if !strings.Contains(got, "\x1b[") || !strings.Contains(got, "[OK]") {
		t.Fatalf("expected colored status line, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}
