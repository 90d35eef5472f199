package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"harmonize/internal/classify"
	"harmonize/internal/config"
	"harmonize/internal/deps"
	"harmonize/internal/logging"
	"harmonize/internal/media/audio"
	"harmonize/internal/media/cover"
	"harmonize/internal/metrics"
	"harmonize/internal/preflight"
	"harmonize/internal/procrun"
	"harmonize/internal/progress"
	"harmonize/internal/runlock"
	"harmonize/internal/scan"
)

// Request names the trees of one run.
type Request struct {
	Source string
	Target string
	// ExtraArgs are appended to the encoder arguments from the config.
	ExtraArgs []string
}

// Env carries the collaborators of a run.
type Env struct {
	Config   *config.Config
	Logger   *slog.Logger
	Reporter *progress.Reporter
	Runner   procrun.Runner
	// Metrics may be nil.
	Metrics *metrics.Run
	// Pipelines overrides the pipelines built from Config when non-nil.
	Pipelines *Pipelines
	// SkipToolCheck disables the external tool lookup.
	SkipToolCheck bool
}

// Run mirrors req.Source into req.Target. The returned Summary is valid
// whenever scanning succeeded, even if the run failed.
func Run(ctx context.Context, env Env, req Request) (Summary, error) {
	if env.Config == nil {
		return Summary{}, errors.New("workflow: nil config")
	}
	cfg := env.Config
	logger := logging.NewComponentLogger(env.Logger, "workflow")
	started := time.Now()

	summary, err := run(ctx, env, req, logger)

	env.Metrics.Finish(time.Since(started), err == nil && summary.Complete())
	if writeErr := env.Metrics.WriteTextfile(cfg.Metrics.Textfile); writeErr != nil {
		logger.Warn("metrics export failed", logging.Error(writeErr))
	}
	if err != nil {
		logger.Debug("run failed",
			logging.String("error_kind", FailureKind(err)),
			logging.Duration("elapsed", time.Since(started)),
			logging.Error(err),
		)
		return summary, err
	}

	env.Reporter.Complete()
	logger.Debug("run complete", logging.Int("tasks", len(summary.Outcomes)), logging.Duration("elapsed", time.Since(started)))
	return summary, nil
}

func run(ctx context.Context, env Env, req Request, logger *slog.Logger) (Summary, error) {
	cfg := env.Config

	if err := config.ValidatePaths(req.Source, req.Target); err != nil {
		return Summary{}, err
	}
	if cfg.Sync.DeleteExtraneous {
		if err := config.ValidatePrunePaths(req.Source, req.Target); err != nil {
			return Summary{}, err
		}
	}
	checks := []preflight.Result{preflight.CheckCreatableDirectory("Target directory", req.Target)}
	if cfg.Paths.LockDir != "" {
		checks = append(checks, preflight.CheckCreatableDirectory("Lock directory", cfg.Paths.LockDir))
	}
	if err := preflight.Failed(checks); err != nil {
		return Summary{}, err
	}

	if cfg.Paths.LockDir != "" {
		lock, err := runlock.Acquire(cfg.Paths.LockDir, req.Target)
		if err != nil {
			return Summary{}, err
		}
		defer func() {
			if err := lock.Release(); err != nil {
				logger.Warn("release run lock failed", logging.String("lock", lock.Path()), logging.Error(err))
			}
		}()
	}

	env.Reporter.Scanning(req.Source)
	snapshot, err := scan.Scan(req.Source, scan.Options{Exclude: cfg.Classify.Exclude})
	if err != nil {
		return Summary{}, err
	}
	env.Reporter.Scanned(snapshot.Count())
	env.Metrics.Scanned(snapshot.Count())

	codec, err := classify.ParseCodec(cfg.Transcode.Codec)
	if err != nil {
		return Summary{}, err
	}
	classifier := classify.New(codec, cfg.Classify.AudioExtensions, cfg.Classify.CoverExtensions)
	tasks, err := Plan(snapshot, classifier, req.Target)
	if err != nil {
		return Summary{Scanned: snapshot.Count()}, err
	}

	if !env.SkipToolCheck {
		needAudio, needCover := Needs(tasks)
		statuses := deps.CheckBinaries(deps.Requirements(cfg, deps.Need{Audio: needAudio, Cover: needCover}))
		if err := deps.Missing(statuses); err != nil {
			return Summary{Scanned: snapshot.Count()}, err
		}
	}

	pipelines := env.Pipelines
	if pipelines == nil {
		built, err := NewPipelines(cfg, env.Runner, req.ExtraArgs)
		if err != nil {
			return Summary{Scanned: snapshot.Count()}, err
		}
		pipelines = &built
	}

	dispatcher := &Dispatcher{
		Workers:   cfg.Transcode.Jobs,
		Pipelines: *pipelines,
		Reporter:  env.Reporter,
		Logger:    env.Logger,
		Metrics:   env.Metrics,
	}
	summary, err := dispatcher.Run(ctx, tasks)
	if err != nil {
		return summary, err
	}

	if cfg.Sync.DeleteExtraneous {
		if _, err := Prune(req.Source, req.Target, tasks, env.Reporter, env.Metrics); err != nil {
			return summary, err
		}
	}
	return summary, nil
}

// NewPipelines builds the audio and cover pipelines described by cfg.
func NewPipelines(cfg *config.Config, runner procrun.Runner, extraArgs []string) (Pipelines, error) {
	if runner == nil {
		return Pipelines{}, errors.New("workflow: nil process runner")
	}
	codec, err := classify.ParseCodec(cfg.Transcode.Codec)
	if err != nil {
		return Pipelines{}, err
	}

	transcoder := &audio.Transcoder{
		Runner:    runner,
		FFmpeg:    cfg.Tools.FFmpeg,
		Codec:     codec,
		ExtraArgs: append(cfg.ExtraArgs(string(codec)), extraArgs...),
	}
	if cfg.Transcode.Verify {
		transcoder.Verifier = &audio.Verifier{Runner: runner, FFprobe: cfg.Tools.FFprobe}
	}

	var prober cover.DimensionProber
	switch cfg.Cover.Probe {
	case config.ProbeBuiltin:
		prober = cover.DecodeProber{}
	case config.ProbeHeader, "":
		prober = &cover.HeaderProber{Runner: runner, Binary: cfg.Tools.VipsHeader}
	default:
		return Pipelines{}, fmt.Errorf("cover.probe: unsupported value %q", cfg.Cover.Probe)
	}

	return Pipelines{
		Audio: transcoder,
		Cover: &cover.Pipeline{
			Prober:  prober,
			Runner:  runner,
			Tools:   cover.Tools{Vips: cfg.Tools.Vips, JPEGOptim: cfg.Tools.JPEGOptim},
			MaxEdge: cfg.Cover.MaxEdge,
		},
	}, nil
}
