// Package pipeline loads order sources and runs report jobs: ingestion,
// report building and export, each stage tracked in the job store.
package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"go-ecommerce-dashboard/internal/analytics"
	"go-ecommerce-dashboard/internal/model"
	"go-ecommerce-dashboard/internal/store"
	"go-ecommerce-dashboard/pkg/utils"
)

// Settings are the process-wide defaults for report jobs.
type Settings struct {
	OutputDir       string
	Timeout         time.Duration
	TopN            int
	Parallel        bool
	Transformations []string
	Validation      model.ValidationRules
	Retry           RetryConfig
}

var (
	settingsMu sync.RWMutex
	settings   = Settings{
		OutputDir: "outputs",
		Timeout:   5 * time.Minute,
		TopN:      analytics.DefaultTopN,
		Retry:     DefaultRetryConfig,
	}
)

// Configure replaces the job defaults.
func Configure(s Settings) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	settings = s
}

func currentSettings() Settings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// Outputs returns the manager for the configured export directory.
func Outputs() *utils.OutputManager {
	return utils.NewOutputManager(currentSettings().OutputDir)
}

// ValidateSpec checks a job spec before it is stored.
func ValidateSpec(spec model.ReportJobSpec) error {
	if len(spec.Sources) == 0 {
		return eris.New("pipeline: at least one source is required")
	}
	for i, src := range spec.Sources {
		if src.URL == "" {
			return eris.Errorf("pipeline: source %d has no url", i)
		}
	}
	if spec.TopN < 0 {
		return eris.Errorf("pipeline: topN must not be negative, got %d", spec.TopN)
	}
	if err := ValidateTransformations(spec.Transformations); err != nil {
		return err
	}
	return ValidateExport(spec.Export)
}

// OptionsFor merges a job spec over the configured defaults.
func OptionsFor(spec model.ReportJobSpec) Options {
	cfg := currentSettings()
	opts := Options{
		Transformations: cfg.Transformations,
		Validation:      cfg.Validation,
		Retry:           cfg.Retry,
	}
	if spec.Transformations != nil {
		opts.Transformations = spec.Transformations
	}
	if spec.Validation != nil {
		opts.Validation = *spec.Validation
		if opts.Validation.TimestampLayout == "" {
			opts.Validation.TimestampLayout = cfg.Validation.TimestampLayout
		}
	}
	return opts
}

// Run executes a report job to completion and records its final status:
// completed, failed, or cancelled when ctx was cancelled.
func Run(ctx context.Context, jobID string, spec model.ReportJobSpec) (err error) {
	cfg := currentSettings()
	start := time.Now()
	tracker := NewTracker(jobID)
	zap.L().Info("starting report job", zap.String("job_id", jobID), zap.Int("sources", len(spec.Sources)))

	ctx, cancel := context.WithTimeout(ctx, utils.ParseDuration(spec.JobTimeout, cfg.Timeout))
	defer cancel()

	defer func() {
		status := model.StatusCompleted
		if err != nil {
			status = model.StatusFailed
			if errors.Is(ctx.Err(), context.Canceled) {
				status = model.StatusCancelled
			}
		}
		setStatus(jobID, status)
		jobsTotal.WithLabelValues(status).Inc()
		tracker.Log("job", "info", "Job finished", map[string]interface{}{
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
		zap.L().Info("report job finished",
			zap.String("job_id", jobID),
			zap.String("status", status),
			zap.Duration("elapsed", time.Since(start)),
		)
	}()

	if err := ValidateSpec(spec); err != nil {
		tracker.RecordError("job", err)
		return err
	}

	// Ingestion
	setStatus(jobID, model.StatusIngesting)
	tracker.StartStage(StageIngestion)
	records, err := LoadSources(ctx, spec.Sources, OptionsFor(spec))
	tracker.EndStage(StageIngestion, len(records), err)
	if err != nil {
		return err
	}

	// Reporting
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "pipeline: job cancelled")
	}
	setStatus(jobID, model.StatusReporting)
	tracker.StartStage(StageReporting)
	report, err := buildReport(records, spec, cfg)
	filtered := 0
	if report != nil {
		filtered = report.FilteredRecords
	}
	tracker.EndStage(StageReporting, filtered, err)
	if err != nil {
		return err
	}
	if err := store.SaveReport(jobID, report); err != nil {
		tracker.RecordError(StageReporting, err)
		return err
	}

	// Export
	if err := ctx.Err(); err != nil {
		return eris.Wrap(err, "pipeline: job cancelled")
	}
	setStatus(jobID, model.StatusExporting)
	tracker.StartStage(StageExport)
	exporter := &Exporter{JobID: jobID, Output: utils.NewOutputManager(cfg.OutputDir)}
	results, err := exporter.Export(ctx, report, spec.Export)
	exported := 0
	for _, r := range results {
		exported += r.RecordCount
	}
	tracker.EndStage(StageExport, exported, err)
	return err
}

func buildReport(records []model.Record, spec model.ReportJobSpec, cfg Settings) (*model.Report, error) {
	rs := analytics.NewRecordStore(records)
	r, err := analytics.ResolveRange(rs, spec.Start, spec.End)
	if err != nil {
		return nil, err
	}

	topN := spec.TopN
	if topN == 0 {
		topN = cfg.TopN
	}
	b := analytics.Builder{TopN: topN, Parallel: spec.Parallel || cfg.Parallel}
	return b.Build(rs, r)
}

func setStatus(jobID, status string) {
	if err := store.UpdateJobStatus(jobID, status); err != nil {
		zap.L().Warn("failed to update job status", zap.String("job_id", jobID), zap.String("status", status), zap.Error(err))
	}
}

var (
	runningMu sync.Mutex
	running   = make(map[string]context.CancelFunc)
	runningWG sync.WaitGroup
)

// Start runs a new job in the background.
func Start(jobID string, spec model.ReportJobSpec) {
	launch(jobID, func(ctx context.Context) error { return Run(ctx, jobID, spec) })
}

// Restart re-runs a finished job in the background.
func Restart(jobID string, spec model.ReportJobSpec) {
	launch(jobID, func(ctx context.Context) error { return RetryJob(ctx, jobID, spec) })
}

func launch(jobID string, run func(ctx context.Context) error) {
	ctx, cancel := context.WithCancel(context.Background())

	runningMu.Lock()
	running[jobID] = cancel
	runningMu.Unlock()

	runningWG.Add(1)
	go func() {
		defer runningWG.Done()
		defer func() {
			runningMu.Lock()
			delete(running, jobID)
			runningMu.Unlock()
			cancel()
		}()

		if err := run(ctx); err != nil {
			zap.L().Error("report job failed", zap.String("job_id", jobID), zap.Error(err))
		}
	}()
}

// Cancel stops a running job. It reports whether the job was running.
func Cancel(jobID string) bool {
	runningMu.Lock()
	cancel, ok := running[jobID]
	runningMu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// IsRunning reports whether jobID is executing in this process.
func IsRunning(jobID string) bool {
	runningMu.Lock()
	defer runningMu.Unlock()
	_, ok := running[jobID]
	return ok
}

// Wait blocks until every background job has returned.
func Wait() {
	runningWG.Wait()
}
