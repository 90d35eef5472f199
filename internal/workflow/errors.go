package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"harmonize/internal/media/cover"
	"harmonize/internal/procrun"
	"harmonize/internal/scan"
)

// CopyError reports a filesystem failure while mirroring a file.
type CopyError struct {
	Source string
	Target string
	Err    error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %s to %s: %v", e.Source, e.Target, e.Err)
}

func (e *CopyError) Unwrap() error { return e.Err }

// CollisionError reports source entries that would be written to the same
// target path, such as "a.flac" and "a.mp3" with the mp3 codec.
type CollisionError struct {
	Target  string
	Sources []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("duplicate target %s for %s", e.Target, strings.Join(e.Sources, ", "))
}

// FailureKind classifies err for logs and metrics labels.
func FailureKind(err error) string {
	var (
		failure   *procrun.Failure
		copyErr   *CopyError
		collision *CollisionError
		scanErr   *scan.Error
		probeErr  *cover.ProbeError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	case errors.As(err, &failure):
		return "process"
	case errors.As(err, &probeErr):
		return "probe"
	case errors.As(err, &copyErr):
		return "copy"
	case errors.As(err, &collision):
		return "collision"
	case errors.As(err, &scanErr):
		return "scan"
	default:
		return "other"
	}
}
