// Package ffprobe reads stream and container metadata of transcoded audio.
//
// Inspect runs ffprobe through a procrun.Runner, so a non-zero exit
// surfaces as a *procrun.Failure like every other external tool.
package ffprobe
