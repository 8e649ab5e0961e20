package store

import (
	"database/sql"
	"encoding/json"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rotisserie/eris"

	"go-ecommerce-dashboard/internal/model"
)

var db *sql.DB

// ErrNotFound is returned when a job does not exist.
var ErrNotFound = eris.New("store: not found")

const schema = `
CREATE TABLE IF NOT EXISTS jobs (
	id TEXT PRIMARY KEY,
	spec TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS job_errors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
	stage TEXT NOT NULL DEFAULT '',
	error_message TEXT NOT NULL,
	source_url TEXT NOT NULL DEFAULT '',
	row_num INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS stage_progress (
	job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
	stage TEXT NOT NULL,
	status TEXT NOT NULL,
	start_time DATETIME,
	end_time DATETIME,
	records_processed INTEGER NOT NULL DEFAULT 0,
	error_count INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (job_id, stage)
);

CREATE TABLE IF NOT EXISTS pipeline_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
	stage TEXT NOT NULL,
	level TEXT NOT NULL,
	message TEXT NOT NULL,
	details TEXT,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
	job_id TEXT PRIMARY KEY REFERENCES jobs(id) ON DELETE CASCADE,
	report TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS group_summaries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
	table_name TEXT NOT NULL,
	section TEXT NOT NULL,
	rank INTEGER NOT NULL,
	group_key TEXT NOT NULL,
	num_orders INTEGER NOT NULL,
	revenue TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS output_files (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id TEXT NOT NULL REFERENCES jobs(id) ON DELETE CASCADE,
	file_name TEXT NOT NULL,
	file_path TEXT NOT NULL,
	file_type TEXT NOT NULL,
	file_size INTEGER NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_job_errors_job_id ON job_errors(job_id);
CREATE INDEX IF NOT EXISTS idx_pipeline_logs_job_id ON pipeline_logs(job_id);
CREATE INDEX IF NOT EXISTS idx_group_summaries_job_id ON group_summaries(job_id);
CREATE INDEX IF NOT EXISTS idx_output_files_job_id ON output_files(job_id);
`

// InitDB opens the database at dbPath and creates tables if needed.
func InitDB(dbPath string) error {
	conn, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return eris.Wrap(err, "store: open")
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return eris.Wrap(err, "store: migrate")
	}
	db = conn
	return nil
}

// Close closes the database.
func Close() error {
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// SaveJob stores a new report job
func SaveJob(jobID string, spec model.ReportJobSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return eris.Wrap(err, "store: marshal spec")
	}

	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO jobs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		jobID, string(specJSON), model.StatusPending, now, now)
	return eris.Wrapf(err, "store: insert job %s", jobID)
}

// GetJob fetches full job spec and status
func GetJob(jobID string) (*model.Job, error) {
	var specJSON string
	job := model.Job{ID: jobID}

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM jobs WHERE id = ?`, jobID).
		Scan(&specJSON, &job.Status, &job.CreatedAt, &job.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: get job %s", jobID)
	}

	if err := json.Unmarshal([]byte(specJSON), &job.Spec); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal spec")
	}
	return &job, nil
}

// ListJobs returns all jobs, newest first
func ListJobs() ([]model.Job, error) {
	rows, err := db.Query(`SELECT id, spec, status, created_at, updated_at FROM jobs ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, eris.Wrap(err, "store: list jobs")
	}
	defer rows.Close()

	jobs := []model.Job{}
	for rows.Next() {
		var job model.Job
		var specJSON string
		if err := rows.Scan(&job.ID, &specJSON, &job.Status, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan job")
		}
		if err := json.Unmarshal([]byte(specJSON), &job.Spec); err != nil {
			return nil, eris.Wrap(err, "store: unmarshal spec")
		}
		jobs = append(jobs, job)
	}
	return jobs, eris.Wrap(rows.Err(), "store: iterate jobs")
}

// UpdateJobStatus updates job status
func UpdateJobStatus(jobID string, status string) error {
	res, err := db.Exec(`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`, status, time.Now().UTC(), jobID)
	if err != nil {
		return eris.Wrapf(err, "store: update job status %s", jobID)
	}
	return checkRowsAffected(res)
}

// DeleteJob removes a job and, through foreign keys, everything attached to it.
func DeleteJob(jobID string) error {
	res, err := db.Exec(`DELETE FROM jobs WHERE id = ?`, jobID)
	if err != nil {
		return eris.Wrapf(err, "store: delete job %s", jobID)
	}
	return checkRowsAffected(res)
}

// SaveJobError records an error for a job
func SaveJobError(jobID string, err error) error {
	if err == nil {
		return nil
	}
	return SaveErrorDetail(jobID, model.ErrorDetail{Message: err.Error()})
}

// SaveErrorDetail records an error with its stage and row context.
func SaveErrorDetail(jobID string, d model.ErrorDetail) error {
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now().UTC()
	}
	_, err := db.Exec(`INSERT INTO job_errors (job_id, stage, error_message, source_url, row_num, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		jobID, d.Stage, d.Message, d.SourceURL, d.Row, d.Timestamp)
	return eris.Wrap(err, "store: insert job error")
}

// GetJobErrors returns a job's errors in insertion order.
func GetJobErrors(jobID string) ([]model.ErrorDetail, error) {
	rows, err := db.Query(`SELECT stage, error_message, source_url, row_num, created_at FROM job_errors WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, eris.Wrap(err, "store: get job errors")
	}
	defer rows.Close()

	errs := []model.ErrorDetail{}
	for rows.Next() {
		var e model.ErrorDetail
		if err := rows.Scan(&e.Stage, &e.Message, &e.SourceURL, &e.Row, &e.Timestamp); err != nil {
			return nil, eris.Wrap(err, "store: scan job error")
		}
		errs = append(errs, e)
	}
	return errs, eris.Wrap(rows.Err(), "store: iterate job errors")
}

func checkRowsAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "store: rows affected")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
