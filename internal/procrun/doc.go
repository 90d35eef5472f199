// Package procrun spawns external media tools and turns their exit status
// into structured failures.
//
// The invocation (binary plus arguments) is captured when the command is
// built, so a Failure can always name the exact command line that failed
// without inspecting the process handle afterwards. Runners never impose a
// timeout and never kill a child once it has started; the context is only
// checked before spawning.
package procrun
