// Package progress emits the line protocol harmonize prints on stderr:
//
//	Scanning "<root>"
//	Scanned <N> items
//	Copying <path> | Transcoding <path>   (one per task, in start order)
//	Deleting <path>                       (only when pruning)
//	Processing complete
//
// Lines are info-level records on a slog logger; with the plain format each
// record is exactly one line and concurrent records never interleave.
package progress

import (
	"context"
	"log/slog"
	"strconv"

	"harmonize/internal/classify"
	"harmonize/internal/logging"
)

// Reporter formats progress events. It holds no state of its own.
type Reporter struct {
	logger *slog.Logger
}

// New returns a Reporter writing through logger. A nil logger discards.
func New(logger *slog.Logger) *Reporter {
	return &Reporter{logger: logging.NewComponentLogger(logger, "progress")}
}

// Scanning announces the walk of root, quoted as given.
func (r *Reporter) Scanning(root string) {
	r.emit(`Scanning "` + root + `"`)
}

// Scanned reports how many entries the snapshot holds.
func (r *Reporter) Scanned(count int) {
	r.emit("Scanned " + strconv.Itoa(count) + " items")
}

// Item announces that processing of path has started.
func (r *Reporter) Item(kind classify.Kind, path string) {
	r.emit(Verb(kind) + " " + path)
}

// Deleting announces removal of an extraneous target path.
func (r *Reporter) Deleting(path string) {
	r.emit("Deleting " + path)
}

// Complete marks a successful run.
func (r *Reporter) Complete() {
	r.emit("Processing complete")
}

func (r *Reporter) emit(line string) {
	if r == nil {
		return
	}
	r.logger.Log(context.Background(), slog.LevelInfo, line)
}

// Verb is the item-line verb for kind. Cover images are reported as
// transcodes.
func Verb(kind classify.Kind) string {
	switch kind {
	case classify.Audio, classify.CoverImage:
		return "Transcoding"
	default:
		return "Copying"
	}
}
