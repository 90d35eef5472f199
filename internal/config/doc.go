// Package config loads, normalizes, and validates harmonize configuration.
//
// It supplies defaults for every knob (codec, worker count, extension sets,
// external tool names, logging), reads an optional TOML file, and expands
// user paths including tilde shortcuts. Command-line flags are applied on
// top of the loaded Config by the CLI.
package config
