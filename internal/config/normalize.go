package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeTranscode()
	c.normalizeClassify()
	c.normalizeCover()
	c.normalizeTools()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeTranscode() {
	c.Transcode.Codec = strings.ToLower(strings.TrimSpace(c.Transcode.Codec))
	if c.Transcode.Codec == "" {
		c.Transcode.Codec = defaultCodec
	}
}

func (c *Config) normalizeClassify() {
	c.Classify.AudioExtensions = normalizeExtensions(c.Classify.AudioExtensions)
	c.Classify.CoverExtensions = normalizeExtensions(c.Classify.CoverExtensions)
	patterns := c.Classify.Exclude[:0]
	for _, pattern := range c.Classify.Exclude {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			patterns = append(patterns, pattern)
		}
	}
	c.Classify.Exclude = patterns
}

// normalizeExtensions trims entries and adds a missing leading dot so both
// "flac" and ".flac" are accepted.
func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}

func (c *Config) normalizeCover() {
	if c.Cover.MaxEdge == 0 {
		c.Cover.MaxEdge = defaultMaxEdge
	}
	c.Cover.Probe = strings.ToLower(strings.TrimSpace(c.Cover.Probe))
	if c.Cover.Probe == "" {
		c.Cover.Probe = defaultProbe
	}
}

func (c *Config) normalizeTools() {
	c.Tools.FFmpeg = toolOrDefault(c.Tools.FFmpeg, defaultFFmpeg)
	c.Tools.FFprobe = toolOrDefault(c.Tools.FFprobe, defaultFFprobe)
	c.Tools.VipsHeader = toolOrDefault(c.Tools.VipsHeader, defaultVipsHeader)
	c.Tools.Vips = toolOrDefault(c.Tools.Vips, defaultVips)
	c.Tools.JPEGOptim = toolOrDefault(c.Tools.JPEGOptim, defaultJPEGOptim)
}

func toolOrDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LockDir) == "" {
		c.Paths.LockDir = defaultLockDir
	}
	if c.Paths.LockDir, err = expandPath(c.Paths.LockDir); err != nil {
		return fmt.Errorf("paths.lock_dir: %w", err)
	}
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	if c.Metrics.Textfile, err = expandPath(strings.TrimSpace(c.Metrics.Textfile)); err != nil {
		return fmt.Errorf("metrics.textfile: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
