package audio

import (
	"context"
	"fmt"
	"strings"

	"harmonize/internal/classify"
	"harmonize/internal/media/ffprobe"
	"harmonize/internal/procrun"
)

type codecProfile struct {
	encoder string
	args    []string
	muxer   string
	// streamCodec is the codec name ffprobe reports for the output.
	streamCodec string
}

var profiles = map[classify.Codec]codecProfile{
	classify.MP3: {
		encoder:     "libmp3lame",
		args:        []string{"-q:a", "2"},
		muxer:       "mp3",
		streamCodec: "mp3",
	},
	classify.Opus: {
		encoder:     "libopus",
		args:        []string{"-b:a", "128k"},
		muxer:       "opus",
		streamCodec: "opus",
	},
}

// Transcoder converts one audio file per call.
type Transcoder struct {
	Runner procrun.Runner
	// FFmpeg is the ffmpeg executable. Empty means "ffmpeg".
	FFmpeg    string
	Codec     classify.Codec
	ExtraArgs []string
	// Verifier, when set, checks every output after ffmpeg exits.
	Verifier *Verifier
}

// Args returns the ffmpeg arguments for converting source into target.
func (t *Transcoder) Args(source, target string) []string {
	profile := profileFor(t.Codec)
	args := []string{
		"-hide_banner", "-nostdin", "-loglevel", "error", "-y",
		"-i", source,
		"-map", "0:a:0",
		"-map_metadata", "0",
		"-c:a", profile.encoder,
	}
	args = append(args, profile.args...)
	args = append(args, t.ExtraArgs...)
	return append(args, "-f", profile.muxer, target)
}

// Transcode runs ffmpeg once. A *procrun.Failure is returned unchanged.
func (t *Transcoder) Transcode(ctx context.Context, source, target string) error {
	binary := strings.TrimSpace(t.FFmpeg)
	if binary == "" {
		binary = "ffmpeg"
	}
	if _, err := t.Runner.Run(ctx, procrun.Command{Name: binary, Args: t.Args(source, target)}); err != nil {
		return err
	}
	if t.Verifier != nil {
		return t.Verifier.Check(ctx, target, t.Codec)
	}
	return nil
}

func profileFor(codec classify.Codec) codecProfile {
	if profile, ok := profiles[codec]; ok {
		return profile
	}
	return profiles[classify.MP3]
}

// Verifier inspects transcoded files with ffprobe.
type Verifier struct {
	Runner  procrun.Runner
	FFprobe string
}

// Check confirms path holds exactly one audio stream encoded with codec.
func (v *Verifier) Check(ctx context.Context, path string, codec classify.Codec) error {
	result, err := ffprobe.Inspect(ctx, v.Runner, v.FFprobe, path)
	if err != nil {
		return err
	}
	streams := result.AudioStreams()
	if len(streams) != 1 {
		return fmt.Errorf("verify %s: expected 1 audio stream, found %d", path, len(streams))
	}
	want := profileFor(codec).streamCodec
	if !strings.EqualFold(streams[0].CodecName, want) {
		return fmt.Errorf("verify %s: codec %q, want %q", path, streams[0].CodecName, want)
	}
	seconds, err := result.Duration()
	if err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}
	if seconds <= 0 {
		return fmt.Errorf("verify %s: no duration reported", path)
	}
	return nil
}
