// Package metrics records per-run Prometheus metrics and exports them in the
// node_exporter textfile format. Every Run owns its own registry; nothing is
// registered globally.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Task results used as the "result" label.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// Run collects metrics for one harmonize run. A nil *Run discards updates.
type Run struct {
	registry *prometheus.Registry

	scanned       prometheus.Gauge
	tasks         *prometheus.CounterVec
	taskDuration  *prometheus.HistogramVec
	failures      *prometheus.CounterVec
	pruned        prometheus.Counter
	runDuration   prometheus.Gauge
	lastRun       prometheus.Gauge
	lastRunStatus prometheus.Gauge
}

// New creates a Run with a fresh registry.
func New() *Run {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Run{
		registry: reg,
		scanned: factory.NewGauge(prometheus.GaugeOpts{
			Name: "harmonize_scanned_items",
			Help: "Number of source entries found by the last scan",
		}),
		tasks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harmonize_tasks_total",
				Help: "Tasks processed by kind and result",
			},
			[]string{"kind", "result"},
		),
		taskDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "harmonize_task_duration_seconds",
				Help:    "Wall time of one task, including external tools",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"kind"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harmonize_failures_total",
				Help: "Failed tasks by error kind",
			},
			[]string{"error_kind"},
		),
		pruned: factory.NewCounter(prometheus.CounterOpts{
			Name: "harmonize_pruned_paths_total",
			Help: "Target paths removed because they have no source counterpart",
		}),
		runDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "harmonize_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "harmonize_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		lastRunStatus: factory.NewGauge(prometheus.GaugeOpts{
			Name: "harmonize_last_run_success",
			Help: "1 if the last run completed every task, 0 otherwise",
		}),
	}
}

func (r *Run) Scanned(count int) {
	if r == nil {
		return
	}
	r.scanned.Set(float64(count))
}

// TaskFinished records one task. errorKind is only used when result is
// ResultFailed.
func (r *Run) TaskFinished(kind, result, errorKind string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.tasks.WithLabelValues(kind, result).Inc()
	if result == ResultSkipped {
		return
	}
	r.taskDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if result == ResultFailed {
		r.failures.WithLabelValues(errorKind).Inc()
	}
}

func (r *Run) Pruned() {
	if r == nil {
		return
	}
	r.pruned.Inc()
}

// Finish stamps the run duration, completion time and status.
func (r *Run) Finish(elapsed time.Duration, success bool) {
	if r == nil {
		return
	}
	r.runDuration.Set(elapsed.Seconds())
	r.lastRun.SetToCurrentTime()
	if success {
		r.lastRunStatus.Set(1)
	} else {
		r.lastRunStatus.Set(0)
	}
}

// Gatherer exposes the registry, mainly for tests.
func (r *Run) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile atomically writes the metrics to path for node_exporter's
// textfile collector.
func (r *Run) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
