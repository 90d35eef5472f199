package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

func newRootCommand() *cobra.Command {
	var configFlag string
	var opts runOptions

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "harmonize [flags] SOURCE_DIR TARGET_DIR [-- ENCODER_ARGS...]",
		Short:         "Mirror a music library, transcoding audio and thumbnailing covers",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          mirrorArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			positional, encoderArgs := splitArgs(args, cmd.ArgsLenAtDash())
			return runMirror(cmd, ctx, opts, positional[0], positional[1], encoderArgs)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")

	flags := rootCmd.Flags()
	flags.StringVar(&opts.codec, "codec", "", "Audio codec for transcoded files (mp3 or opus)")
	flags.IntVarP(&opts.jobs, "jobs", "n", 0, "Number of parallel workers (default: one per CPU)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress progress output")
	flags.StringArrayVar(&opts.exclude, "exclude", nil, "Glob pattern of source paths to skip (repeatable)")
	flags.BoolVar(&opts.deleteExtraneous, "delete", false, "Delete target files with no source counterpart")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus textfile metrics to this path")

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

// mirrorArgs requires exactly two positional arguments before "--".
func mirrorArgs(cmd *cobra.Command, args []string) error {
	positional, _ := splitArgs(args, cmd.ArgsLenAtDash())
	if len(positional) != 2 {
		return fmt.Errorf("expected SOURCE_DIR and TARGET_DIR, got %d argument(s)", len(positional))
	}
	return nil
}

// splitArgs separates positional arguments from the encoder arguments that
// follow "--". dash is cobra's ArgsLenAtDash (-1 without a dash).
func splitArgs(args []string, dash int) (positional, encoder []string) {
	if dash < 0 || dash > len(args) {
		return args, nil
	}
	return args[:dash], args[dash:]
}
