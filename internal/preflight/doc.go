// Package preflight checks the filesystem before a run touches it: the
// source must be a readable directory and the target (or the nearest
// existing ancestor it will be created under) must be writable.
//
// The CLI "check" command renders the same results as a table.
package preflight
