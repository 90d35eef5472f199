package cover

import (
	"context"
	"strconv"
	"strings"

	"harmonize/internal/procrun"
)

// DefaultMaxEdge bounds the long edge of thumbnails.
const DefaultMaxEdge = 1000

// Tools names the executables the pipeline invokes.
type Tools struct {
	Vips      string
	JPEGOptim string
}

// Pipeline thumbnails and optimizes one cover image per call.
type Pipeline struct {
	Prober  DimensionProber
	Runner  procrun.Runner
	Tools   Tools
	MaxEdge int
}

// ThumbnailEdge returns the long-edge bound for an image: its own long edge
// when below maxEdge, otherwise maxEdge.
func ThumbnailEdge(d Dimensions, maxEdge int) int {
	if maxEdge <= 0 {
		maxEdge = DefaultMaxEdge
	}
	if edge := d.LongEdge(); edge < maxEdge {
		return edge
	}
	return maxEdge
}

// Transcode writes a thumbnail of source to target and optimizes it in place.
func (p *Pipeline) Transcode(ctx context.Context, source, target string) error {
	dims, err := p.Prober.Probe(ctx, source)
	if err != nil {
		return err
	}

	edge := ThumbnailEdge(dims, p.MaxEdge)
	if _, err := p.Runner.Run(ctx, procrun.Command{
		Name:    toolName(p.Tools.Vips, "vips"),
		Args:    []string{"thumbnail", source, target, strconv.Itoa(edge)},
		Message: "thumbnail",
	}); err != nil {
		return err
	}

	_, err = p.Runner.Run(ctx, procrun.Command{
		Name:    toolName(p.Tools.JPEGOptim, "jpegoptim"),
		Args:    []string{"--quiet", "--all-progressive", "--force", "--strip-all", "--", target},
		Message: "optimize",
	})
	return err
}

func toolName(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}
