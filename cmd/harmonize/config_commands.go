package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"harmonize/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
		Args:  cobra.NoArgs,
	}
	configCmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a commented sample configuration file",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := writeSampleConfig(targetPath, overwrite)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", written)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination (default ~/.config/harmonize/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

// writeSampleConfig resolves path (empty means the default location) and
// writes the embedded sample there.
func writeSampleConfig(path string, overwrite bool) (string, error) {
	target := strings.TrimSpace(path)
	var err error
	if target == "" {
		target, err = config.DefaultConfigPath()
	} else {
		target, err = config.ExpandPath(target)
	}
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}

	if !overwrite {
		_, statErr := os.Stat(target)
		switch {
		case statErr == nil:
			return "", fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
		case !errors.Is(statErr, fs.ErrNotExist):
			return "", fmt.Errorf("check config path: %w", statErr)
		}
	}
	if err := config.CreateSample(target); err != nil {
		return "", err
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			if ctx.configExists {
				fmt.Fprintf(out, "Config path: %s\n", ctx.configPath)
			} else {
				fmt.Fprintf(out, "Config path: %s (not found, defaults used)\n", ctx.configPath)
			}
			fmt.Fprintf(out, "Codec: %s, jobs: %s, cover edge: %dpx\n", cfg.Transcode.Codec, jobsLabel(cfg.Transcode.Jobs), cfg.Cover.MaxEdge)
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func jobsLabel(jobs int) string {
	if jobs <= 0 {
		return "auto"
	}
	return fmt.Sprint(jobs)
}
