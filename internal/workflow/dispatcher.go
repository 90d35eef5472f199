package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"harmonize/internal/classify"
	"harmonize/internal/fileutil"
	"harmonize/internal/logging"
	"harmonize/internal/metrics"
	"harmonize/internal/progress"
)

// Transcoder converts source into target. Target is a temporary path that
// is renamed into place once Transcode returns nil.
type Transcoder interface {
	Transcode(ctx context.Context, source, target string) error
}

// Pipelines holds the transcoders for the non-copy kinds.
type Pipelines struct {
	Audio Transcoder
	Cover Transcoder
}

// Outcome is the result of one task.
type Outcome struct {
	Task Task
	// Started is false when the run stopped before the task was picked up.
	Started bool
	Err     error
	Elapsed time.Duration
}

// Succeeded reports whether the task ran to completion without error.
func (o Outcome) Succeeded() bool {
	return o.Started && o.Err == nil
}

// Summary describes a finished dispatch.
type Summary struct {
	Scanned  int
	Outcomes []Outcome
}

// Complete reports whether every scanned entry was processed successfully.
func (s Summary) Complete() bool {
	if len(s.Outcomes) != s.Scanned {
		return false
	}
	for _, outcome := range s.Outcomes {
		if !outcome.Succeeded() {
			return false
		}
	}
	return true
}

// Counts tallies succeeded, failed and skipped tasks.
func (s Summary) Counts() (succeeded, failed, skipped int) {
	for _, outcome := range s.Outcomes {
		switch {
		case !outcome.Started:
			skipped++
		case outcome.Err != nil:
			failed++
		default:
			succeeded++
		}
	}
	return succeeded, failed, skipped
}

// Dispatcher runs tasks on a bounded worker pool.
type Dispatcher struct {
	// Workers bounds concurrent tasks. Zero means runtime.NumCPU().
	Workers   int
	Pipelines Pipelines
	Reporter  *progress.Reporter
	Logger    *slog.Logger
	Metrics   *metrics.Run
}

// Run processes every task and waits for all started tasks to finish. The
// first failure (or context cancellation) is returned; after it, workers
// start no new tasks.
func (d *Dispatcher) Run(ctx context.Context, tasks []Task) (Summary, error) {
	logger := logging.NewComponentLogger(d.Logger, "dispatcher")
	summary := Summary{Scanned: len(tasks), Outcomes: make([]Outcome, len(tasks))}
	for i, task := range tasks {
		summary.Outcomes[i].Task = task
	}
	if len(tasks) == 0 {
		return summary, nil
	}

	queue := make(chan int, len(tasks))
	for i := range tasks {
		queue <- i
	}
	close(queue)

	var (
		stopped  atomic.Bool
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		stopped.Store(true)
	}

	workers := d.workerCount(len(tasks))
	logger.Debug("dispatching tasks", logging.Int("tasks", len(tasks)), logging.Int("workers", workers))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range queue {
				if stopped.Load() {
					continue
				}
				if err := ctx.Err(); err != nil {
					fail(err)
					continue
				}
				outcome := d.runTask(ctx, logger, tasks[i])
				summary.Outcomes[i] = outcome
				if outcome.Err != nil {
					fail(outcome.Err)
				}
			}
		}()
	}
	wg.Wait()

	for _, outcome := range summary.Outcomes {
		if !outcome.Started {
			d.Metrics.TaskFinished(outcome.Task.Kind.String(), metrics.ResultSkipped, "", 0)
		}
	}
	if firstErr != nil {
		succeeded, failed, skipped := summary.Counts()
		logger.Debug("dispatch stopped",
			logging.Int("succeeded", succeeded),
			logging.Int("failed", failed),
			logging.Int("skipped", skipped),
			logging.String("error_kind", FailureKind(firstErr)),
			logging.Error(firstErr),
		)
	}
	return summary, firstErr
}

func (d *Dispatcher) workerCount(tasks int) int {
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return max(1, min(workers, tasks))
}

func (d *Dispatcher) runTask(ctx context.Context, logger *slog.Logger, task Task) Outcome {
	d.Reporter.Item(task.Kind, task.Entry.SourcePath)

	start := time.Now()
	err := d.process(ctx, task)
	outcome := Outcome{Task: task, Started: true, Err: err, Elapsed: time.Since(start)}

	result := metrics.ResultOK
	if err != nil {
		result = metrics.ResultFailed
	}
	d.Metrics.TaskFinished(task.Kind.String(), result, FailureKind(err), outcome.Elapsed)
	logger.Debug("task finished",
		logging.String(logging.FieldKind, task.Kind.String()),
		logging.String(logging.FieldSource, task.Entry.SourcePath),
		logging.String(logging.FieldTarget, task.TargetPath),
		logging.Duration("elapsed", outcome.Elapsed),
		logging.String("result", result),
	)
	return outcome
}

func (d *Dispatcher) process(ctx context.Context, task Task) error {
	switch task.Kind {
	case classify.Audio:
		return transcodeTask(ctx, d.Pipelines.Audio, task)
	case classify.CoverImage:
		return transcodeTask(ctx, d.Pipelines.Cover, task)
	case classify.Opaque:
		return copyTask(task)
	default:
		return fmt.Errorf("no pipeline for kind %d", int(task.Kind))
	}
}

func transcodeTask(ctx context.Context, pipeline Transcoder, task Task) error {
	if pipeline == nil {
		return fmt.Errorf("no %s pipeline configured", task.Kind)
	}
	var pipelineErr error
	err := fileutil.WriteAtomic(task.TargetPath, task.Entry.Info, func(tmp string) error {
		pipelineErr = pipeline.Transcode(ctx, task.Entry.SourcePath, tmp)
		return pipelineErr
	})
	if err != nil && pipelineErr == nil {
		return fmt.Errorf("write %s: %w", task.TargetPath, err)
	}
	return err
}

func copyTask(task Task) error {
	err := fileutil.WriteAtomic(task.TargetPath, task.Entry.Info, func(tmp string) error {
		return fileutil.CopyFile(task.Entry.SourcePath, tmp)
	})
	if err != nil {
		return &CopyError{Source: task.Entry.SourcePath, Target: task.TargetPath, Err: err}
	}
	return nil
}
