package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"harmonize/internal/config"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if want := filepath.Join(tempHome, ".config", "harmonize", "config.toml"); resolved != want {
		t.Fatalf("resolved = %q, want %q", resolved, want)
	}
	if cfg.Transcode.Codec != "mp3" {
		t.Fatalf("default codec = %q", cfg.Transcode.Codec)
	}
	if cfg.Cover.MaxEdge != 1000 || cfg.Cover.Probe != config.ProbeHeader {
		t.Fatalf("unexpected cover defaults: %+v", cfg.Cover)
	}
	if want := filepath.Join(tempHome, ".cache", "harmonize", "locks"); cfg.Paths.LockDir != want {
		t.Fatalf("lock dir = %q, want %q", cfg.Paths.LockDir, want)
	}
	if cfg.Logging.Format != "plain" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.Logging.File != "" || cfg.Metrics.Textfile != "" {
		t.Fatal("expected log file and metrics textfile disabled by default")
	}
}

func TestLoadCustomFile(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(t.TempDir(), "harmonize.toml")
	payload := `
[transcode]
codec = "OPUS"
jobs = 3
opus_args = ["-vbr", "on"]

[classify]
audio_extensions = ["flac", ".wav"]
exclude = ["**/*.log"]

[cover]
max_edge = 600
probe = "builtin"

[logging]
file = "~/logs/harmonize.log"
`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected %q to be loaded, got %q (exists=%v)", path, resolved, exists)
	}
	if cfg.Transcode.Codec != "opus" || cfg.Transcode.Jobs != 3 {
		t.Fatalf("unexpected transcode section: %+v", cfg.Transcode)
	}
	if got := cfg.ExtraArgs("opus"); strings.Join(got, " ") != "-vbr on" {
		t.Fatalf("ExtraArgs(opus) = %v", got)
	}
	if got := cfg.ExtraArgs("mp3"); len(got) != 0 {
		t.Fatalf("ExtraArgs(mp3) = %v", got)
	}
	if strings.Join(cfg.Classify.AudioExtensions, ",") != ".flac,.wav" {
		t.Fatalf("audio extensions = %v", cfg.Classify.AudioExtensions)
	}
	if strings.Join(cfg.Classify.CoverExtensions, ",") != ".jpg,.jpeg,.png" {
		t.Fatalf("cover extensions should keep defaults, got %v", cfg.Classify.CoverExtensions)
	}
	if cfg.Cover.MaxEdge != 600 || cfg.Cover.Probe != config.ProbeBuiltin {
		t.Fatalf("unexpected cover section: %+v", cfg.Cover)
	}
	if want := filepath.Join(tempHome, "logs", "harmonize.log"); cfg.Logging.File != want {
		t.Fatalf("log file = %q, want %q", cfg.Logging.File, want)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "harmonize.toml")
	if err := os.WriteFile(path, []byte("[transcode]\nbitrate = 320\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"defaults", func(*config.Config) {}, ""},
		{"codec", func(c *config.Config) { c.Transcode.Codec = "aac" }, "transcode.codec"},
		{"jobs", func(c *config.Config) { c.Transcode.Jobs = -1 }, "transcode.jobs"},
		{"empty audio", func(c *config.Config) { c.Classify.AudioExtensions = nil }, "audio_extensions"},
		{"overlap", func(c *config.Config) { c.Classify.CoverExtensions = []string{".FLAC"} }, "both audio and cover"},
		{"pattern", func(c *config.Config) { c.Classify.Exclude = []string{"[abc"} }, "classify.exclude"},
		{"max edge", func(c *config.Config) { c.Cover.MaxEdge = -5 }, "cover.max_edge"},
		{"probe", func(c *config.Config) { c.Cover.Probe = "exiftool" }, "cover.probe"},
		{"format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"level", func(c *config.Config) { c.Logging.Level = "trace" }, "logging.level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				if err != nil {
					t.Fatalf("Validate returned error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestValidatePaths(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		target  string
		wantErr bool
	}{
		{"separate directories", "/media/in", "/media/out", false},
		{"target equals source", "/media/lib", "/media/lib", true},
		{"target inside source", "/media/lib", "/media/lib/mirror", true},
		{"target is parent of source", "/media/lib/sub", "/media/lib", false},
		{"similar prefix not nested", "/media/library", "/media/library2", false},
		{"unclean path", "/media/lib", "/media/other/../lib/x", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.ValidatePaths(tt.source, tt.target)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePaths(%q, %q) error = %v, wantErr %v", tt.source, tt.target, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePrunePaths(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		target  string
		wantErr bool
	}{
		{"separate directories", "/media/in", "/media/out", false},
		{"source equals target", "/media/lib", "/media/lib", true},
		{"source inside target", "/media/lib/incoming", "/media/lib", true},
		{"target inside source", "/media/lib", "/media/lib/mirror", false},
		{"similar prefix not nested", "/media/library2", "/media/library", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.ValidatePrunePaths(tt.source, tt.target)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePrunePaths(%q, %q) error = %v, wantErr %v", tt.source, tt.target, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePathsResolvesSymlinks(t *testing.T) {
	base := t.TempDir()
	source := filepath.Join(base, "music")
	if err := os.Mkdir(source, 0o755); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(base, "alias")
	if err := os.Symlink(source, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	if err := config.ValidatePaths(source, filepath.Join(link, "mirror")); err == nil {
		t.Fatal("expected target reached through a symlink to be rejected")
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("sample is not valid TOML: %v", err)
	}
	if decoded.Transcode.Codec != "mp3" || decoded.Cover.MaxEdge != 1000 {
		t.Fatalf("sample does not match defaults: %+v", decoded)
	}

	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample does not load: %v", err)
	}
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")
	_, _, _, err := config.Load(missing)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestLoadProjectFileFallback(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, "harmonize.toml"), []byte("[transcode]\ncodec = \"opus\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || filepath.Base(resolved) != "harmonize.toml" {
		t.Fatalf("expected project file, got %q (exists=%v)", resolved, exists)
	}
	if cfg.Transcode.Codec != "opus" {
		t.Fatalf("codec = %q, want opus", cfg.Transcode.Codec)
	}
}
