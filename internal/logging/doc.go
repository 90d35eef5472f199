// Package logging assembles the slog loggers used by harmonize.
//
// Three formats are supported. "plain" writes the bare message (plus any
// attributes) and is what the progress protocol on stderr uses; "console"
// adds timestamps, levels and component tags for interactive debugging; and
// "json" emits machine-readable records. An optional log file always
// receives JSON records stamped with the run identifier.
//
// Every handler serializes its writes so that concurrent workers never
// interleave partial lines.
package logging
