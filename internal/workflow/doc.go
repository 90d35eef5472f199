// Package workflow turns a scanned source tree into target files.
//
// Plan binds every scanned entry to its kind and target path. The
// Dispatcher runs those tasks on a bounded worker pool: each worker announces
// a task on the progress stream before starting its pipeline, the first
// failure becomes the run's error and stops workers from starting new tasks,
// and tasks already in flight are always allowed to finish. Child processes
// are never killed.
//
// Run sequences a whole invocation: path validation, the per-target lock,
// scanning, planning, the dependency check, dispatch, the optional prune of
// extraneous target files, metrics, and the completion line.
package workflow
