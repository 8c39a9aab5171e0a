package autonomy

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/traviworld/editorial/internal/config"
	"github.com/traviworld/editorial/internal/logger"
	"github.com/traviworld/editorial/internal/metrics"
)

const jobTimeout = 10 * time.Minute

// Worker runs the autonomy jobs on their cron schedules. Every run gets its
// own timeout, trace span and metrics observation.
type Worker struct {
	jobs    *Jobs
	cron    *cron.Cron
	metrics *metrics.Metrics
	logger  logger.Logger
	tracer  trace.Tracer

	started bool
	mu      sync.Mutex
}

// NewWorker wires the jobs onto their configured schedules. Schedules are
// standard five-field cron expressions.
func NewWorker(jobs *Jobs, cfg config.WorkerConfig, m *metrics.Metrics, log logger.Logger) (*Worker, error) {
	w := &Worker{
		jobs:    jobs,
		cron:    cron.New(),
		metrics: m,
		logger:  log,
		tracer:  otel.Tracer("autonomy-worker"),
	}

	schedules := []struct {
		job  string
		spec string
		run  func(context.Context) error
	}{
		{"trending", cfg.TrendingSchedule, w.runTrending},
		{"window_sweep", cfg.SweepSchedule, w.runWindowSweep},
		{"seo_audit", cfg.AuditSchedule, w.runSEOAudit},
		{"reindex", cfg.ReindexSchedule, w.runReindex},
	}

	for _, s := range schedules {
		job, run := s.job, s.run
		if _, err := w.cron.AddFunc(s.spec, func() {
			w.runJob(job, run)
		}); err != nil {
			return nil, fmt.Errorf("invalid %s schedule %q: %w", s.job, s.spec, err)
		}
	}

	return w, nil
}

// Start begins running the schedules.
func (w *Worker) Start() {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()

	w.cron.Start()
	w.logger.Info("autonomy worker started",
		logger.Int("jobs", len(w.cron.Entries())),
	)
}

// Stop stops the schedules and waits for in-flight jobs to finish.
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	w.started = false
	w.mu.Unlock()

	<-w.cron.Stop().Done()
	w.logger.Info("autonomy worker stopped")
}

// IsRunning reports whether the worker is currently scheduled.
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}

func (w *Worker) runJob(job string, run func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	ctx, span := w.tracer.Start(ctx, "autonomy."+job,
		trace.WithAttributes(attribute.String("job", job)))
	defer span.End()

	start := time.Now()
	err := run(ctx)
	w.metrics.ObserveJob(job, err, time.Since(start))

	if err != nil {
		w.logger.Error("job failed",
			logger.String("job", job),
			logger.Error(err),
		)
	}
}

func (w *Worker) runTrending(ctx context.Context) error {
	placed, err := w.jobs.RunTrending(ctx)
	if err != nil {
		return err
	}
	w.logger.Debug("trending run complete", logger.Int("placed", placed))
	return nil
}

func (w *Worker) runWindowSweep(ctx context.Context) error {
	_, err := w.jobs.RunWindowSweep(ctx)
	return err
}

func (w *Worker) runSEOAudit(ctx context.Context) error {
	audited, err := w.jobs.RunSEOAudit(ctx)
	if err != nil {
		return err
	}
	w.logger.Info("seo audit pass complete", logger.Int("pages_audited", audited))
	return nil
}

func (w *Worker) runReindex(ctx context.Context) error {
	indexed, err := w.jobs.RunReindex(ctx)
	if err != nil {
		return err
	}
	w.logger.Info("search reindex complete", logger.Int("documents", indexed))
	return nil
}
