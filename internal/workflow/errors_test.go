package workflow

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"harmonize/internal/media/cover"
	"harmonize/internal/procrun"
	"harmonize/internal/scan"
)

func TestFailureKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "canceled", err: fmt.Errorf("run: %w", context.Canceled), want: "canceled"},
		{name: "process", err: &procrun.Failure{ExitCode: 1, Name: "ffmpeg"}, want: "process"},
		{name: "probe", err: &cover.ProbeError{Path: "a.png", Dimension: "width", Err: errBoom}, want: "probe"},
		{name: "copy", err: &CopyError{Source: "a", Target: "b", Err: errBoom}, want: "copy"},
		{name: "collision", err: &CollisionError{Target: "a.mp3", Sources: []string{"a.flac", "a.mp3"}}, want: "collision"},
		{name: "scan", err: &scan.Error{Root: "/src", Err: errBoom}, want: "scan"},
		{name: "other", err: errors.New("misc"), want: "other"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FailureKind(tt.err); got != tt.want {
				t.Fatalf("FailureKind(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestCopyErrorUnwraps(t *testing.T) {
	err := &CopyError{Source: "a", Target: "b", Err: errBoom}
	if !errors.Is(err, errBoom) {
		t.Fatal("CopyError must unwrap to its cause")
	}
	if err.Error() != "copy a to b: boom" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestCollisionErrorMessage(t *testing.T) {
	err := &CollisionError{Target: "/out/a.mp3", Sources: []string{"/src/a.flac", "/src/a.mp3"}}
	if err.Error() != "duplicate target /out/a.mp3 for /src/a.flac, /src/a.mp3" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
