package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscode(); err != nil {
		return err
	}
	if err := c.validateClassify(); err != nil {
		return err
	}
	if err := c.validateCover(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscode() error {
	switch c.Transcode.Codec {
	case "mp3", "opus":
	default:
		return fmt.Errorf("transcode.codec: unsupported value %q (want mp3 or opus)", c.Transcode.Codec)
	}
	if c.Transcode.Jobs < 0 {
		return errors.New("transcode.jobs must be zero (one per CPU) or positive")
	}
	return nil
}

func (c *Config) validateClassify() error {
	if len(c.Classify.AudioExtensions) == 0 {
		return errors.New("classify.audio_extensions must not be empty")
	}
	audio := make(map[string]struct{}, len(c.Classify.AudioExtensions))
	for _, ext := range c.Classify.AudioExtensions {
		audio[strings.ToLower(ext)] = struct{}{}
	}
	for _, ext := range c.Classify.CoverExtensions {
		if _, ok := audio[strings.ToLower(ext)]; ok {
			return fmt.Errorf("classify: extension %q is listed as both audio and cover", ext)
		}
	}
	for _, pattern := range c.Classify.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("classify.exclude: invalid pattern %q", pattern)
		}
	}
	return nil
}

func (c *Config) validateCover() error {
	if c.Cover.MaxEdge <= 0 {
		return errors.New("cover.max_edge must be positive")
	}
	switch c.Cover.Probe {
	case ProbeHeader, ProbeBuiltin:
	default:
		return fmt.Errorf("cover.probe: unsupported value %q (want %s or %s)", c.Cover.Probe, ProbeHeader, ProbeBuiltin)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "plain", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

// ValidatePaths ensures the target directory is not inside (or equal to)
// the source directory, which would make a run scan its own output. Both
// arguments are made absolute and symlink-resolved where they exist.
func ValidatePaths(source, target string) error {
	sourceAbs, err := ResolvePath(source)
	if err != nil {
		return fmt.Errorf("resolve source %q: %w", source, err)
	}
	targetAbs, err := ResolvePath(target)
	if err != nil {
		return fmt.Errorf("resolve target %q: %w", target, err)
	}
	if within(targetAbs, sourceAbs) {
		return fmt.Errorf("target directory %q must not be inside source directory %q", target, source)
	}
	return nil
}

// ValidatePrunePaths ensures the source directory is not inside (or equal
// to) the target directory. Pruning the target would otherwise remove the
// source it mirrors.
func ValidatePrunePaths(source, target string) error {
	sourceAbs, err := ResolvePath(source)
	if err != nil {
		return fmt.Errorf("resolve source %q: %w", source, err)
	}
	targetAbs, err := ResolvePath(target)
	if err != nil {
		return fmt.Errorf("resolve target %q: %w", target, err)
	}
	if within(sourceAbs, targetAbs) {
		return fmt.Errorf("source directory %q must not be inside target directory %q when deleting extraneous files", source, target)
	}
	return nil
}

// within reports whether path equals dir or lies below it.
func within(path, dir string) bool {
	sep := string(filepath.Separator)
	return path == dir || strings.HasPrefix(path+sep, dir+sep)
}

// ResolvePath returns an absolute path with symlinks resolved for the
// longest existing prefix; the target often does not exist yet.
func ResolvePath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	var rest []string
	current := abs
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return filepath.Join(append([]string{resolved}, rest...)...), nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return abs, nil
		}
		rest = append([]string{filepath.Base(current)}, rest...)
		current = parent
	}
}
