package pipeline

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"go-ecommerce-dashboard/internal/model"
	"go-ecommerce-dashboard/internal/store"
)

// Stage names.
const (
	StageIngestion = "ingestion"
	StageReporting = "reporting"
	StageExport    = "export"

	// StageCount is the number of stages a completed job passes through.
	StageCount = 3
)

// Tracker records stage progress, errors and log lines of one job. Store
// failures are logged and never fail the job.
type Tracker struct {
	jobID  string
	mu     sync.Mutex
	stages map[string]*model.StageMetrics
}

// NewTracker creates a tracker for jobID.
func NewTracker(jobID string) *Tracker {
	return &Tracker{
		jobID:  jobID,
		stages: make(map[string]*model.StageMetrics),
	}
}

// StartStage marks stage as running.
func (t *Tracker) StartStage(stage string) {
	t.mu.Lock()
	m := &model.StageMetrics{Stage: stage, Status: "running", StartTime: time.Now()}
	t.stages[stage] = m
	snapshot := *m
	t.mu.Unlock()

	t.persist(snapshot)
	t.Log(stage, "info", "Starting "+stage+" stage", nil)
}

// EndStage closes stage with the number of records it handled. A non-nil
// err marks the stage failed and is saved as a job error.
func (t *Tracker) EndStage(stage string, records int, err error) {
	now := time.Now()

	t.mu.Lock()
	m, ok := t.stages[stage]
	if !ok {
		m = &model.StageMetrics{Stage: stage, StartTime: now}
		t.stages[stage] = m
	}
	m.EndTime = &now
	m.Duration = now.Sub(m.StartTime)
	m.RecordsProcessed = records
	m.Status = "completed"
	if err != nil {
		m.Status = "failed"
		m.ErrorCount++
	}
	snapshot := *m
	t.mu.Unlock()

	stageDuration.WithLabelValues(stage).Observe(snapshot.Duration.Seconds())
	t.persist(snapshot)

	details := map[string]interface{}{
		"records":     records,
		"duration_ms": snapshot.Duration.Milliseconds(),
	}
	if err != nil {
		t.RecordError(stage, err)
		t.Log(stage, "error", stage+" stage failed: "+err.Error(), details)
		return
	}
	t.Log(stage, "info", stage+" stage completed", details)
}

// RecordError saves err against the job.
func (t *Tracker) RecordError(stage string, err error) {
	zap.L().Error("job stage error", zap.String("job_id", t.jobID), zap.String("stage", stage), zap.Error(err))
	detail := model.ErrorDetail{Stage: stage, Message: err.Error()}
	var rowErr *RowError
	if errors.As(err, &rowErr) {
		detail.SourceURL = rowErr.URL
		detail.Row = rowErr.Line
	}
	if serr := store.SaveErrorDetail(t.jobID, detail); serr != nil {
		zap.L().Warn("failed to save job error", zap.String("job_id", t.jobID), zap.Error(serr))
	}
}

// Log appends a job log line.
func (t *Tracker) Log(stage, level, message string, details map[string]interface{}) {
	if err := store.SavePipelineLog(t.jobID, stage, level, message, details); err != nil {
		zap.L().Warn("failed to save pipeline log", zap.String("job_id", t.jobID), zap.Error(err))
	}
}

// Stages returns a copy of every tracked stage.
func (t *Tracker) Stages() []model.StageMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]model.StageMetrics, 0, len(t.stages))
	for _, name := range []string{StageIngestion, StageReporting, StageExport} {
		if m, ok := t.stages[name]; ok {
			out = append(out, *m)
		}
	}
	return out
}

func (t *Tracker) persist(m model.StageMetrics) {
	if err := store.SaveStageProgress(t.jobID, m); err != nil {
		zap.L().Warn("failed to save stage progress", zap.String("job_id", t.jobID), zap.String("stage", m.Stage), zap.Error(err))
	}
}
