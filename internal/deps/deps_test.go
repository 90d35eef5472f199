package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"harmonize/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Blank", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for absolute command: %s", results[0].Detail)
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected blank command status: %#v", results[2])
	}
}

func TestCheckBinariesResolvesPath(t *testing.T) {
	binDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(binDir, "vips"), []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)

	results := CheckBinaries([]Requirement{{Name: "vips", Command: "vips"}})
	if !results[0].Available || results[0].Detail != filepath.Join(binDir, "vips") {
		t.Fatalf("expected resolved path in detail, got %#v", results[0])
	}
}

func TestMissing(t *testing.T) {
	statuses := []Status{
		{Name: "FFmpeg", Available: true},
		{Name: "FFprobe", Optional: true, Detail: `binary "ffprobe" not found`},
		{Name: "vips", Detail: `binary "vips" not found`},
		{Name: "jpegoptim", Detail: `binary "jpegoptim" not found`},
	}
	err := Missing(statuses)
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if strings.Contains(msg, "FFprobe") || !strings.Contains(msg, "vips") || !strings.Contains(msg, "jpegoptim") {
		t.Fatalf("unexpected message %q", msg)
	}
	if Missing(statuses[:2]) != nil {
		t.Fatal("optional tools must not be reported")
	}
}

func TestRequirements(t *testing.T) {
	cfg := config.Default()

	names := func(reqs []Requirement) string {
		out := make([]string, 0, len(reqs))
		for _, r := range reqs {
			out = append(out, r.Name)
		}
		return strings.Join(out, ",")
	}

	if got := names(Requirements(&cfg, Need{})); got != "" {
		t.Fatalf("no pipelines should need no tools, got %s", got)
	}
	if got := names(Requirements(&cfg, Need{Audio: true})); got != "FFmpeg,FFprobe" {
		t.Fatalf("audio requirements = %s", got)
	}
	if got := names(Requirements(&cfg, All)); got != "FFmpeg,FFprobe,vipsheader,vips,jpegoptim" {
		t.Fatalf("all requirements = %s", got)
	}

	cfg.Cover.Probe = config.ProbeBuiltin
	if got := names(Requirements(&cfg, Need{Cover: true})); got != "vips,jpegoptim" {
		t.Fatalf("builtin probe requirements = %s", got)
	}

	if !Requirements(&cfg, Need{Audio: true})[1].Optional {
		t.Fatal("ffprobe should be optional without verify")
	}
	cfg.Transcode.Verify = true
	if Requirements(&cfg, Need{Audio: true})[1].Optional {
		t.Fatal("ffprobe should be required with verify")
	}
}
