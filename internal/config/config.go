package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Transcode controls the audio encoder and the worker pool.
type Transcode struct {
	Codec string `toml:"codec"`
	// Jobs is the worker count. Zero means one worker per CPU.
	Jobs     int      `toml:"jobs"`
	MP3Args  []string `toml:"mp3_args"`
	OpusArgs []string `toml:"opus_args"`
	// Verify re-reads every transcoded file with ffprobe.
	Verify bool `toml:"verify"`
}

// Classify holds the extension sets used to route files to pipelines.
type Classify struct {
	AudioExtensions []string `toml:"audio_extensions"`
	CoverExtensions []string `toml:"cover_extensions"`
	Exclude         []string `toml:"exclude"`
}

// Cover configures the cover image pipeline.
type Cover struct {
	MaxEdge int    `toml:"max_edge"`
	Probe   string `toml:"probe"`
}

// Tools names the external executables. Bare names are resolved on PATH.
type Tools struct {
	FFmpeg     string `toml:"ffmpeg"`
	FFprobe    string `toml:"ffprobe"`
	VipsHeader string `toml:"vipsheader"`
	Vips       string `toml:"vips"`
	JPEGOptim  string `toml:"jpegoptim"`
}

// Paths contains directories harmonize writes outside the target tree.
type Paths struct {
	LockDir string `toml:"lock_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File optionally receives JSON records for every run.
	File string `toml:"file"`
}

// Metrics configures the Prometheus textfile export.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Sync controls how the target tree is reconciled with the source.
type Sync struct {
	DeleteExtraneous bool `toml:"delete_extraneous"`
}

// Config encapsulates all configuration values for harmonize.
type Config struct {
	Transcode Transcode `toml:"transcode"`
	Classify  Classify  `toml:"classify"`
	Cover     Cover     `toml:"cover"`
	Tools     Tools     `toml:"tools"`
	Paths     Paths     `toml:"paths"`
	Logging   Logging   `toml:"logging"`
	Metrics   Metrics   `toml:"metrics"`
	Sync      Sync      `toml:"sync"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/harmonize/config.toml")
}

// Load locates, parses, and validates a configuration file. When no path is
// given and no file is found, defaults are used and exists is false.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// resolveConfigPath picks the file to load. An explicit path must exist;
// otherwise the user config is preferred over ./harmonize.toml.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file %s not found", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("harmonize.toml")
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{defaultPath, projectPath} {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		}
	}
	return defaultPath, false, nil
}

// ExtraArgs returns the configured encoder arguments for codec.
func (c *Config) ExtraArgs(codec string) []string {
	switch codec {
	case "opus":
		return append([]string(nil), c.Transcode.OpusArgs...)
	default:
		return append([]string(nil), c.Transcode.MP3Args...)
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
