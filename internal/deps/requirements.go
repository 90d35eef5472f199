package deps

import "harmonize/internal/config"

// Need selects which pipelines a run will exercise.
type Need struct {
	Audio bool
	Cover bool
}

// All is the Need of a run that touches every pipeline.
var All = Need{Audio: true, Cover: true}

// Requirements lists the tools the configured pipelines invoke for need.
func Requirements(cfg *config.Config, need Need) []Requirement {
	var reqs []Requirement
	if need.Audio {
		reqs = append(reqs,
			Requirement{
				Name:        "FFmpeg",
				Command:     cfg.Tools.FFmpeg,
				Description: "Transcodes audio to " + cfg.Transcode.Codec,
			},
			Requirement{
				Name:        "FFprobe",
				Command:     cfg.Tools.FFprobe,
				Description: "Verifies transcoded audio",
				Optional:    !cfg.Transcode.Verify,
			},
		)
	}
	if need.Cover {
		if cfg.Cover.Probe == config.ProbeHeader {
			reqs = append(reqs, Requirement{
				Name:        "vipsheader",
				Command:     cfg.Tools.VipsHeader,
				Description: "Reads cover image dimensions",
			})
		}
		reqs = append(reqs,
			Requirement{
				Name:        "vips",
				Command:     cfg.Tools.Vips,
				Description: "Thumbnails cover images",
			},
			Requirement{
				Name:        "jpegoptim",
				Command:     cfg.Tools.JPEGOptim,
				Description: "Optimizes thumbnails as progressive JPEG",
			},
		)
	}
	return reqs
}
