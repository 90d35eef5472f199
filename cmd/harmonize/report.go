package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"harmonize/internal/deps"
)

type statusKind int

const (
	statusOK statusKind = iota
	statusWarn
	statusError
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

var statusColors = map[statusKind]text.Colors{
	statusOK:    {text.FgGreen},
	statusWarn:  {text.FgYellow},
	statusError: {text.FgRed},
}

var statusLabels = map[statusKind]string{
	statusOK:    "OK",
	statusWarn:  "WARN",
	statusError: "ERROR",
}

// report writes the sections of "harmonize check". Color is used only when
// out is a terminal.
type report struct {
	out      io.Writer
	colorize bool
}

func newReport(out io.Writer) *report {
	return &report{out: out, colorize: shouldColorize(out)}
}

func (r *report) section(title string) {
	line := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(line))
	if r.colorize {
		line = text.FgBlue.Sprint(line)
		rule = text.FgBlue.Sprint(rule)
	}
	fmt.Fprintln(r.out, line)
	fmt.Fprintln(r.out, rule)
}

func (r *report) status(label string, kind statusKind, message string) {
	fmt.Fprintln(r.out, renderStatusLine(label, kind, message, r.colorize))
}

func (r *report) tools(statuses []deps.Status) {
	fmt.Fprintln(r.out, toolTable(statuses, r.colorize))
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	statusText := "[" + statusLabels[kind] + "]"
	if message != "" {
		statusText += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", statusText)
	if colorize {
		return statusColors[kind].Sprint(line)
	}
	return line
}

// toolTable lists every requirement with its resolution state.
func toolTable(statuses []deps.Status, colorize bool) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Tool", "Command", "Status", "Detail"})
	for _, status := range statuses {
		tw.AppendRow(table.Row{status.Name, status.Command, toolState(status), status.Detail})
	}

	configs := []table.ColumnConfig{{Name: "Detail", WidthMax: 60}}
	if colorize {
		configs = append(configs, table.ColumnConfig{
			Name: "Status",
			Transformer: func(val any) string {
				state := fmt.Sprint(val)
				return statusColors[toolStateKind(state)].Sprint(state)
			},
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func toolState(status deps.Status) string {
	switch {
	case status.Available:
		return "ok"
	case status.Optional:
		return "optional"
	default:
		return "missing"
	}
}

func toolStateKind(state string) statusKind {
	switch state {
	case "ok":
		return statusOK
	case "optional":
		return statusWarn
	default:
		return statusError
	}
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
