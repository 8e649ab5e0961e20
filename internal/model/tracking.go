package model

import (
	"time"
)

// StageMetrics represents metrics for a specific pipeline stage
type StageMetrics struct {
	Stage            string        `json:"stage"`
	Status           string        `json:"status"` // running, completed, failed
	StartTime        time.Time     `json:"start_time"`
	EndTime          *time.Time    `json:"end_time,omitempty"`
	Duration         time.Duration `json:"duration"`
	RecordsProcessed int           `json:"records_processed"`
	ErrorCount       int           `json:"error_count"`
}

// ErrorDetail represents a detailed error with context
type ErrorDetail struct {
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
	SourceURL string    `json:"source_url,omitempty"`
	Row       int       `json:"row,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Job is a persisted report job.
type Job struct {
	ID        string        `json:"id"`
	Spec      ReportJobSpec `json:"spec"`
	Status    string        `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// PipelineLog is one structured log line attached to a job.
type PipelineLog struct {
	Stage     string                 `json:"stage"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	CreatedAt time.Time              `json:"created_at"`
}

// OutputFile is an exported artifact of a job.
type OutputFile struct {
	ID        int64     `json:"id"`
	JobID     string    `json:"job_id"`
	FileName  string    `json:"file_name"`
	FilePath  string    `json:"file_path"`
	FileType  string    `json:"file_type"`
	FileSize  int64     `json:"file_size"`
	CreatedAt time.Time `json:"created_at"`
}
