package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"harmonize/internal/deps"
	"harmonize/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check [SOURCE_DIR TARGET_DIR]",
		Short: "Check external tools and, optionally, the source and target directories",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected no arguments or SOURCE_DIR and TARGET_DIR, got %d", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			rep := newReport(cmd.OutOrStdout())

			statuses := deps.CheckBinaries(deps.Requirements(cfg, deps.All))
			rep.section("Tools")
			rep.tools(statuses)
			kind, summary := toolSummary(statuses)
			rep.status("Summary", kind, summary)
			problems := []error{deps.Missing(statuses)}

			if len(args) == 2 {
				fmt.Fprintln(rep.out)
				rep.section("Directories")
				results := preflight.RunAll(args[0], args[1], map[string]string{"Lock directory": cfg.Paths.LockDir})
				for _, result := range results {
					kind := statusOK
					if !result.Passed {
						kind = statusError
					}
					rep.status(result.Name, kind, result.Detail)
				}
				problems = append(problems, preflight.Failed(results))
			}
			return errors.Join(problems...)
		},
	}
}

// toolSummary condenses statuses into one line: missing required tools
// first, then unavailable optional ones.
func toolSummary(statuses []deps.Status) (statusKind, string) {
	var missing, optional []string
	for _, status := range statuses {
		switch toolState(status) {
		case "missing":
			missing = append(missing, status.Name)
		case "optional":
			optional = append(optional, status.Name)
		}
	}
	switch {
	case len(missing) > 0:
		return statusError, "missing " + strings.Join(missing, ", ")
	case len(optional) > 0:
		return statusWarn, "optional tools unavailable: " + strings.Join(optional, ", ")
	default:
		return statusOK, "all tools available"
	}
}
