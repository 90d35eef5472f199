package cover

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"

	// Decoders for DecodeProber.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"harmonize/internal/procrun"
)

// Dimensions is an image size in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// LongEdge returns the larger of width and height.
func (d Dimensions) LongEdge() int {
	return max(d.Width, d.Height)
}

// DimensionProber reads image dimensions without decoding pixel data.
type DimensionProber interface {
	Probe(ctx context.Context, path string) (Dimensions, error)
}

// ProbeError reports a dimension probe whose output could not be used.
type ProbeError struct {
	Path      string
	Dimension string
	Output    string
	Err       error
}

func (e *ProbeError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("probe %s of %s: unexpected output %q: %v", e.Dimension, e.Path, e.Output, e.Err)
	}
	return fmt.Sprintf("probe %s of %s: %v", e.Dimension, e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// HeaderProber asks vipsheader for one dimension per invocation.
type HeaderProber struct {
	Runner procrun.Runner
	// Binary is the vipsheader executable. Empty means "vipsheader".
	Binary string
}

// Probe reads the width and height fields through vipsheader.
func (p *HeaderProber) Probe(ctx context.Context, path string) (Dimensions, error) {
	width, err := p.field(ctx, "width", path)
	if err != nil {
		return Dimensions{}, err
	}
	height, err := p.field(ctx, "height", path)
	if err != nil {
		return Dimensions{}, err
	}
	return Dimensions{Width: width, Height: height}, nil
}

func (p *HeaderProber) field(ctx context.Context, name, path string) (int, error) {
	binary := strings.TrimSpace(p.Binary)
	if binary == "" {
		binary = "vipsheader"
	}
	res, err := p.Runner.Run(ctx, procrun.Command{
		Name:          binary,
		Args:          []string{"-f", name, "--", path},
		CaptureStdout: true,
		Message:       "read " + name,
	})
	if err != nil {
		return 0, err
	}
	output := strings.TrimSpace(string(res.Stdout))
	value, err := strconv.Atoi(output)
	if err != nil {
		return 0, &ProbeError{Path: path, Dimension: name, Output: output, Err: err}
	}
	if value <= 0 {
		return 0, &ProbeError{Path: path, Dimension: name, Output: output, Err: errors.New("dimension must be positive")}
	}
	return value, nil
}

// DecodeProber reads dimensions from the image header in-process.
type DecodeProber struct{}

func (DecodeProber) Probe(ctx context.Context, path string) (Dimensions, error) {
	if err := ctx.Err(); err != nil {
		return Dimensions{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		return Dimensions{}, &ProbeError{Path: path, Dimension: "size", Err: err}
	}
	defer file.Close()

	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return Dimensions{}, &ProbeError{Path: path, Dimension: "size", Err: err}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return Dimensions{}, &ProbeError{Path: path, Dimension: "size", Err: errors.New("dimension must be positive")}
	}
	return Dimensions{Width: cfg.Width, Height: cfg.Height}, nil
}
