package procrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"harmonize/internal/logging"
)

// stderrTail bounds how much child stderr a Failure keeps.
const stderrTail = 4096

// Command describes one external invocation.
type Command struct {
	Name string
	Args []string
	// CaptureStdout collects stdout into Result.Stdout (dimension probes).
	CaptureStdout bool
	// Message is optional context attached to a Failure.
	Message string
}

// String renders the command line with quoting where needed.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	parts = append(parts, quoteArg(c.Name))
	for _, arg := range c.Args {
		parts = append(parts, quoteArg(arg))
	}
	return strings.Join(parts, " ")
}

// Result is the outcome of a command that exited successfully.
type Result struct {
	Command  Command
	ExitCode int
	Stdout   []byte
}

// Runner executes commands.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// Exec runs commands with os/exec.
type Exec struct {
	Logger *slog.Logger
}

// NewExec returns an Exec runner logging spawns at debug level.
func NewExec(logger *slog.Logger) *Exec {
	return &Exec{Logger: logging.NewComponentLogger(logger, "procrun")}
}

// Run spawns cmd and waits for it to exit.
func (e *Exec) Run(ctx context.Context, cmd Command) (Result, error) {
	// Snapshot the invocation so later mutation by callers cannot change
	// what a Failure reports.
	cmd.Args = append([]string(nil), cmd.Args...)
	result := Result{Command: cmd}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	logger := e.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Debug("spawning external tool", logging.String("command", cmd.String()))

	proc := exec.Command(cmd.Name, cmd.Args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	if cmd.CaptureStdout {
		proc.Stdout = &stdout
	}
	proc.Stderr = &stderr

	err := proc.Run()
	result.Stdout = stdout.Bytes()
	if err == nil {
		return result, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		failure := &Failure{
			ExitCode: result.ExitCode,
			Name:     cmd.Name,
			Args:     cmd.Args,
			Message:  cmd.Message,
			Stderr:   tail(stderr.String(), stderrTail),
		}
		logger.Debug("external tool failed",
			logging.String("command", cmd.String()),
			logging.Int("exit_code", failure.ExitCode),
			logging.String("stderr", failure.Stderr),
		)
		return result, failure
	}
	return result, fmt.Errorf("start %s: %w", cmd.String(), err)
}

// Failure reports a non-zero exit from an external tool.
type Failure struct {
	ExitCode int
	Name     string
	Args     []string
	Message  string
	Stderr   string
}

func (f *Failure) Error() string {
	var b strings.Builder
	b.WriteString("exit ")
	b.WriteString(strconv.Itoa(f.ExitCode))
	if f.Message != "" {
		b.WriteString(" - ")
		b.WriteString(f.Message)
	}
	b.WriteString(": ")
	b.WriteString(f.Command().String())
	return b.String()
}

// Command returns the invocation that failed.
func (f *Failure) Command() Command {
	return Command{Name: f.Name, Args: f.Args, Message: f.Message}
}

func quoteArg(arg string) string {
	if arg == "" {
		return `""`
	}
	for _, r := range arg {
		if r <= ' ' || r == '"' || r == '\'' || r == '\\' || r == '$' {
			return strconv.Quote(arg)
		}
	}
	return arg
}

func tail(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[len(s)-limit:]
}
