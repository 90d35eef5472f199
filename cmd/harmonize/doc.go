// Package main hosts the harmonize CLI entrypoint and command graph.
//
// The root command mirrors SOURCE_DIR into TARGET_DIR; arguments after "--"
// are forwarded to the audio encoder. Subcommands cover dependency checks
// and configuration scaffolding. Progress goes to stderr and stdout stays
// empty during a run.
package main
