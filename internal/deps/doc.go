// Package deps reports whether the external tools harmonize invokes are
// installed. Runs check only the tools their pipelines need; the "check"
// command lists them all.
package deps
