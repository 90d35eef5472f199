package main

import (
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"harmonize/internal/config"
	"harmonize/internal/logging"
	"harmonize/internal/metrics"
	"harmonize/internal/procrun"
	"harmonize/internal/progress"
	"harmonize/internal/workflow"
)

type runOptions struct {
	codec            string
	jobs             int
	quiet            bool
	exclude          []string
	deleteExtraneous bool
	logLevel         string
	metricsFile      string
}

func runMirror(cmd *cobra.Command, ctx *commandContext, opts runOptions, source, target string, encoderArgs []string) error {
	loaded, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg := *loaded
	if err := applyRunOptions(cmd, &cfg, opts); err != nil {
		return err
	}

	level := cfg.Logging.Level
	if opts.quiet {
		level = "warn"
	}
	runID := uuid.NewString()
	logger, closer, err := logging.New(logging.Options{
		Level:    level,
		Format:   cfg.Logging.Format,
		Writer:   cmd.ErrOrStderr(),
		FilePath: cfg.Logging.File,
		RunID:    runID,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer closer.Close()

	signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger.Debug("harmonize run starting",
		logging.String(logging.FieldRunID, runID),
		logging.String("version", version),
		logging.String("config", ctx.configPath),
		logging.String("codec", cfg.Transcode.Codec),
		logging.Int("jobs", cfg.Transcode.Jobs),
	)

	env := workflow.Env{
		Config:   &cfg,
		Logger:   logger,
		Reporter: progress.New(logger),
		Runner:   procrun.NewExec(logger),
		Metrics:  metrics.New(),
	}
	_, err = workflow.Run(signalCtx, env, workflow.Request{
		Source:    source,
		Target:    target,
		ExtraArgs: encoderArgs,
	})
	if err != nil && signalCtx.Err() != nil && !errors.Is(err, signalCtx.Err()) {
		// Children receive the same signal and fail on their own.
		logger.Debug("run interrupted", logging.Error(err))
		return signalCtx.Err()
	}
	return err
}

// applyRunOptions layers explicitly set flags over the loaded config and
// re-validates the result.
func applyRunOptions(cmd *cobra.Command, cfg *config.Config, opts runOptions) error {
	flags := cmd.Flags()
	if flags.Changed("codec") {
		cfg.Transcode.Codec = strings.ToLower(strings.TrimSpace(opts.codec))
	}
	if flags.Changed("jobs") {
		cfg.Transcode.Jobs = opts.jobs
	}
	if flags.Changed("exclude") {
		cfg.Classify.Exclude = append(append([]string(nil), cfg.Classify.Exclude...), opts.exclude...)
	}
	if flags.Changed("delete") {
		cfg.Sync.DeleteExtraneous = opts.deleteExtraneous
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(opts.logLevel))
	}
	if flags.Changed("metrics-file") {
		path, err := config.ExpandPath(opts.metricsFile)
		if err != nil {
			return fmt.Errorf("resolve metrics file: %w", err)
		}
		cfg.Metrics.Textfile = path
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}
