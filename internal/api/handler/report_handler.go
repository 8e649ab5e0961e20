package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-ecommerce-dashboard/internal/model"
	"go-ecommerce-dashboard/internal/pipeline"
	"go-ecommerce-dashboard/internal/store"
	"go-ecommerce-dashboard/pkg/router"
)

// Path segment positions under /api/v1/.
const (
	segJobID    = 3
	segFileName = 4
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("failed to encode response", zap.Error(err))
	}
}

// loadJob resolves the job named in the path, writing 404/500 itself.
func loadJob(w http.ResponseWriter, r *http.Request) (*model.Job, bool) {
	jobID := router.Segment(r, segJobID)
	if jobID == "" {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return nil, false
	}
	job, err := store.GetJob(jobID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Job not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, "Failed to load job", http.StatusInternalServerError)
		return nil, false
	}
	return job, true
}

// CreateReport creates a new report job
// @Summary Create a report job
// @Description Validate the job spec, persist it and start ingestion, reporting and export in the background
// @Tags reports
// @Accept json
// @Produce json
// @Param report body model.ReportJobSpec true "Report job"
// @Success 202 {object} map[string]interface{} "Job accepted"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports [post]
func CreateReport(w http.ResponseWriter, r *http.Request) {
	var spec model.ReportJobSpec
	if err := json.NewDecoder(r.Body).Decode(&spec); err != nil {
		http.Error(w, "Invalid JSON payload", http.StatusBadRequest)
		return
	}
	if err := pipeline.ValidateSpec(spec); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	jobID := uuid.New().String()
	if err := store.SaveJob(jobID, spec); err != nil {
		zap.L().Error("failed to save job", zap.String("job_id", jobID), zap.Error(err))
		http.Error(w, "Failed to save job", http.StatusInternalServerError)
		return
	}

	pipeline.Start(jobID, spec)

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message":   "Report job created",
		"jobID":     jobID,
		"status":    model.StatusPending,
		"createdAt": time.Now().UTC(),
	})
}

// ListReports retrieves all report jobs
// @Summary List report jobs
// @Tags reports
// @Produce json
// @Success 200 {array} model.Job
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports [get]
func ListReports(w http.ResponseWriter, r *http.Request) {
	jobs, err := store.ListJobs()
	if err != nil {
		http.Error(w, "Failed to fetch jobs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

// GetReport retrieves a specific report job
// @Summary Get report job
// @Tags reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} model.Job
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Router /reports/{id} [get]
func GetReport(w http.ResponseWriter, r *http.Request) {
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// GetReportResult returns the computed report of a finished job
// @Summary Get report result
// @Tags reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} model.Report
// @Failure 404 {object} map[string]interface{} "Job or report not found"
// @Router /reports/{id}/result [get]
func GetReportResult(w http.ResponseWriter, r *http.Request) {
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	report, err := store.GetReport(job.ID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, fmt.Sprintf("Report not available, job is %s", job.Status), http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Failed to retrieve report", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetReportErrors retrieves errors for a report job
// @Summary Get job errors
// @Tags reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job errors"
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Router /reports/{id}/errors [get]
func GetReportErrors(w http.ResponseWriter, r *http.Request) {
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	errs, err := store.GetJobErrors(job.ID)
	if err != nil {
		http.Error(w, "Failed to retrieve errors", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id": job.ID,
		"errors": errs,
		"count":  len(errs),
	})
}

// GetReportLogs retrieves the log lines of a report job
// @Summary Get job logs
// @Tags reports
// @Produce json
// @Param id path string true "Job ID"
// @Param limit query int false "Maximum number of lines" default(100)
// @Success 200 {object} map[string]interface{} "Job logs"
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Router /reports/{id}/logs [get]
func GetReportLogs(w http.ResponseWriter, r *http.Request) {
	job, ok := loadJob(w, r)
	if !ok {
		return
	}

	limit := 100
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	logs, err := store.GetPipelineLogs(job.ID, limit)
	if err != nil {
		http.Error(w, "Failed to retrieve logs", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id": job.ID,
		"logs":   logs,
		"count":  len(logs),
		"limit":  limit,
	})
}

// GetReportProgress reports per-stage progress
// @Summary Get job progress
// @Tags reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Stage progress"
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Router /reports/{id}/progress [get]
func GetReportProgress(w http.ResponseWriter, r *http.Request) {
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	stages, err := store.GetStageProgress(job.ID)
	if err != nil {
		http.Error(w, "Failed to retrieve progress", http.StatusInternalServerError)
		return
	}

	completed := 0
	for _, s := range stages {
		if s.Status == "completed" {
			completed++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id":           job.ID,
		"status":           job.Status,
		"running":          pipeline.IsRunning(job.ID),
		"stages":           stages,
		"completed_stages": completed,
		"total_stages":     pipeline.StageCount,
	})
}

// GetReportFiles lists the exported files of a job
// @Summary List job files
// @Tags files
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Output files"
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Router /reports/{id}/files [get]
func GetReportFiles(w http.ResponseWriter, r *http.Request) {
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	files, err := store.GetOutputFiles(job.ID)
	if err != nil {
		http.Error(w, "Failed to retrieve files", http.StatusInternalServerError)
		return
	}

	om := pipeline.Outputs()
	out := make([]map[string]interface{}, 0, len(files))
	for _, f := range files {
		out = append(out, map[string]interface{}{
			"id":           f.ID,
			"file_name":    f.FileName,
			"file_type":    f.FileType,
			"file_size":    f.FileSize,
			"created_at":   f.CreatedAt,
			"download_url": om.GetDownloadURL(job.ID, f.FileName),
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"job_id": job.ID,
		"files":  out,
		"count":  len(out),
	})
}

// RetryReport re-runs a finished job with its stored spec
// @Summary Retry report job
// @Tags reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 202 {object} map[string]interface{} "Retry started"
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Failure 409 {object} map[string]interface{} "Job is still running"
// @Router /reports/{id}/retry [post]
func RetryReport(w http.ResponseWriter, r *http.Request) {
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	if pipeline.IsRunning(job.ID) || !model.Terminal(job.Status) {
		http.Error(w, fmt.Sprintf("Job is %s and cannot be retried", job.Status), http.StatusConflict)
		return
	}

	pipeline.Restart(job.ID, job.Spec)

	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message":         "Retry started",
		"job_id":          job.ID,
		"previous_status": job.Status,
	})
}

// CancelReport cancels a running report job
// @Summary Cancel report job
// @Tags reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job cancelled"
// @Failure 400 {object} map[string]interface{} "Job already finished"
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Router /reports/{id}/cancel [patch]
func CancelReport(w http.ResponseWriter, r *http.Request) {
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	if model.Terminal(job.Status) {
		http.Error(w, fmt.Sprintf("Job is already %s and cannot be cancelled", job.Status), http.StatusBadRequest)
		return
	}

	// A job left non-terminal by a previous process has no cancel func.
	if !pipeline.Cancel(job.ID) {
		if err := store.UpdateJobStatus(job.ID, model.StatusCancelled); err != nil {
			http.Error(w, "Failed to cancel job", http.StatusInternalServerError)
			return
		}
	}
	if err := store.SavePipelineLog(job.ID, "job", "info", "Job cancelled by user", map[string]interface{}{
		"previous_status": job.Status,
	}); err != nil {
		zap.L().Warn("failed to save log", zap.String("job_id", job.ID), zap.Error(err))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Job cancelled",
		"job_id":  job.ID,
		"status":  model.StatusCancelled,
	})
}

// DeleteReport deletes a job and its artifacts
// @Summary Delete report job
// @Tags reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job deleted"
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Failure 409 {object} map[string]interface{} "Job is still running"
// @Router /reports/{id} [delete]
func DeleteReport(w http.ResponseWriter, r *http.Request) {
	job, ok := loadJob(w, r)
	if !ok {
		return
	}
	if pipeline.IsRunning(job.ID) {
		http.Error(w, "Job is running, cancel it first", http.StatusConflict)
		return
	}

	files, err := store.GetOutputFiles(job.ID)
	if err != nil {
		zap.L().Warn("failed to list files for deletion", zap.String("job_id", job.ID), zap.Error(err))
	}
	if err := pipeline.Outputs().RemoveJobDir(job.ID); err != nil {
		zap.L().Warn("failed to delete job directory", zap.String("job_id", job.ID), zap.Error(err))
	}

	// Related rows cascade through foreign keys.
	if err := store.DeleteJob(job.ID); err != nil {
		http.Error(w, "Failed to delete job", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":       "Job and all artifacts deleted",
		"job_id":        job.ID,
		"files_deleted": len(files),
	})
}

// DownloadFile serves a file for download
// @Summary Download file
// @Description Download an exported file of a report job
// @Tags files
// @Produce application/octet-stream
// @Param jobID path string true "Job ID"
// @Param filename path string true "File name"
// @Success 200 {file} file "File download"
// @Failure 404 {object} map[string]interface{} "File not found"
// @Router /download/{jobID}/{filename} [get]
func DownloadFile(w http.ResponseWriter, r *http.Request) {
	jobID := router.Segment(r, segJobID)
	fileName := router.Segment(r, segFileName)

	path, err := pipeline.Outputs().ResolveFile(jobID, fileName)
	if err != nil {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.Header().Set("Content-Type", "application/octet-stream")
	http.ServeFile(w, r, path)
}
