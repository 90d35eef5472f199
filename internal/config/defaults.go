package config

const (
	defaultCodec      = "mp3"
	defaultMaxEdge    = 1000
	defaultProbe      = ProbeHeader
	defaultLockDir    = "~/.cache/harmonize/locks"
	defaultLogFormat  = "plain"
	defaultLogLevel   = "info"
	defaultFFmpeg     = "ffmpeg"
	defaultFFprobe    = "ffprobe"
	defaultVipsHeader = "vipsheader"
	defaultVips       = "vips"
	defaultJPEGOptim  = "jpegoptim"
)

// Probe strategies for reading cover image dimensions.
const (
	ProbeHeader  = "vipsheader"
	ProbeBuiltin = "builtin"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Transcode: Transcode{
			Codec: defaultCodec,
		},
		Classify: Classify{
			AudioExtensions: []string{".flac", ".mp3"},
			CoverExtensions: []string{".jpg", ".jpeg", ".png"},
		},
		Cover: Cover{
			MaxEdge: defaultMaxEdge,
			Probe:   defaultProbe,
		},
		Tools: Tools{
			FFmpeg:     defaultFFmpeg,
			FFprobe:    defaultFFprobe,
			VipsHeader: defaultVipsHeader,
			Vips:       defaultVips,
			JPEGOptim:  defaultJPEGOptim,
		},
		Paths: Paths{
			LockDir: defaultLockDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
