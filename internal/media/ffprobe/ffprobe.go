package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"harmonize/internal/procrun"
)

// probeArgs asks for streams and container in one JSON document.
var probeArgs = []string{"-v", "error", "-hide_banner", "-show_format", "-show_streams", "-of", "json", "--"}

// Result is the subset of ffprobe's JSON output that verification reads.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

type Stream struct {
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	SampleRate string `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

type Format struct {
	// FormatName is a comma-separated list of demuxer names, e.g. "mov,mp4,m4a".
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
}

// Inspect runs ffprobe on path through runner. A non-zero exit surfaces as
// the runner's *procrun.Failure.
func Inspect(ctx context.Context, runner procrun.Runner, binary string, path string) (Result, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	if strings.TrimSpace(path) == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}

	res, err := runner.Run(ctx, procrun.Command{
		Name:          binary,
		Args:          append(slices.Clone(probeArgs), path),
		CaptureStdout: true,
		Message:       "inspect " + path,
	})
	if err != nil {
		return Result{}, err
	}

	var result Result
	if err := json.Unmarshal(res.Stdout, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse %s: %w", path, err)
	}
	return result, nil
}

// AudioStreams returns the audio streams in container order.
func (r Result) AudioStreams() []Stream {
	var out []Stream
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "audio") {
			out = append(out, stream)
		}
	}
	return out
}

func (r Result) AudioStreamCount() int {
	return len(r.AudioStreams())
}

// HasFormat reports whether name is one of the demuxers in FormatName.
func (r Result) HasFormat(name string) bool {
	return slices.ContainsFunc(strings.Split(r.Format.FormatName, ","), func(part string) bool {
		return strings.EqualFold(strings.TrimSpace(part), name)
	})
}

// Duration parses the container duration in seconds. A missing duration
// is 0 with no error.
func (r Result) Duration() (float64, error) {
	value := strings.TrimSpace(r.Format.Duration)
	if value == "" || value == "N/A" {
		return 0, nil
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration %q: %w", value, err)
	}
	return seconds, nil
}

// DurationSeconds is Duration with parse failures reported as 0.
func (r Result) DurationSeconds() float64 {
	seconds, err := r.Duration()
	if err != nil {
		return 0
	}
	return seconds
}
