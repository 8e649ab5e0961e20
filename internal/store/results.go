package store

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"go-ecommerce-dashboard/internal/model"
)

// SaveStageProgress upserts the progress row of one pipeline stage.
func SaveStageProgress(jobID string, m model.StageMetrics) error {
	var end interface{}
	if m.EndTime != nil {
		end = m.EndTime.UTC()
	}
	_, err := db.Exec(`
		INSERT INTO stage_progress (job_id, stage, status, start_time, end_time, records_processed, error_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (job_id, stage) DO UPDATE SET
			status = excluded.status,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			records_processed = excluded.records_processed,
			error_count = excluded.error_count`,
		jobID, m.Stage, m.Status, m.StartTime.UTC(), end, m.RecordsProcessed, m.ErrorCount)
	return eris.Wrapf(err, "store: save stage progress %s/%s", jobID, m.Stage)
}

// GetStageProgress returns every stage row of a job in start order.
func GetStageProgress(jobID string) ([]model.StageMetrics, error) {
	rows, err := db.Query(`
		SELECT stage, status, start_time, end_time, records_processed, error_count
		FROM stage_progress WHERE job_id = ? ORDER BY start_time, stage`, jobID)
	if err != nil {
		return nil, eris.Wrap(err, "store: get stage progress")
	}
	defer rows.Close()

	stages := []model.StageMetrics{}
	for rows.Next() {
		var m model.StageMetrics
		var start, end sql.NullTime
		if err := rows.Scan(&m.Stage, &m.Status, &start, &end, &m.RecordsProcessed, &m.ErrorCount); err != nil {
			return nil, eris.Wrap(err, "store: scan stage progress")
		}
		m.StartTime = start.Time
		if end.Valid {
			t := end.Time
			m.EndTime = &t
			m.Duration = t.Sub(m.StartTime)
		}
		stages = append(stages, m)
	}
	return stages, eris.Wrap(rows.Err(), "store: iterate stage progress")
}

// SavePipelineLog appends a log line to a job.
func SavePipelineLog(jobID, stage, level, message string, details map[string]interface{}) error {
	var detailsJSON []byte
	if len(details) > 0 {
		var err error
		if detailsJSON, err = json.Marshal(details); err != nil {
			return eris.Wrap(err, "store: marshal log details")
		}
	}
	_, err := db.Exec(`INSERT INTO pipeline_logs (job_id, stage, level, message, details, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		jobID, stage, level, message, string(detailsJSON), time.Now().UTC())
	return eris.Wrap(err, "store: insert pipeline log")
}

// GetPipelineLogs returns up to limit log lines of a job, oldest first.
func GetPipelineLogs(jobID string, limit int) ([]model.PipelineLog, error) {
	rows, err := db.Query(`
		SELECT stage, level, message, details, created_at
		FROM pipeline_logs WHERE job_id = ? ORDER BY id LIMIT ?`, jobID, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: get pipeline logs")
	}
	defer rows.Close()

	logs := []model.PipelineLog{}
	for rows.Next() {
		var l model.PipelineLog
		var details sql.NullString
		if err := rows.Scan(&l.Stage, &l.Level, &l.Message, &details, &l.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan pipeline log")
		}
		if details.Valid && details.String != "" {
			if err := json.Unmarshal([]byte(details.String), &l.Details); err != nil {
				return nil, eris.Wrap(err, "store: unmarshal log details")
			}
		}
		logs = append(logs, l)
	}
	return logs, eris.Wrap(rows.Err(), "store: iterate pipeline logs")
}

// SaveReport stores the finished report of a job, replacing any earlier one.
func SaveReport(jobID string, report *model.Report) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return eris.Wrap(err, "store: marshal report")
	}
	_, err = db.Exec(`
		INSERT INTO reports (job_id, report, created_at) VALUES (?, ?, ?)
		ON CONFLICT (job_id) DO UPDATE SET report = excluded.report, created_at = excluded.created_at`,
		jobID, string(reportJSON), time.Now().UTC())
	return eris.Wrapf(err, "store: save report %s", jobID)
}

// GetReport loads the report of a job.
func GetReport(jobID string) (*model.Report, error) {
	var reportJSON string
	err := db.QueryRow(`SELECT report FROM reports WHERE job_id = ?`, jobID).Scan(&reportJSON)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "store: get report %s", jobID)
	}

	var report model.Report
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, eris.Wrap(err, "store: unmarshal report")
	}
	return &report, nil
}

// SummaryRow is one ranked group as stored in group_summaries.
type SummaryRow struct {
	Table   string
	Section string // top or bottom
	Rank    int
	Summary model.GroupSummary
}

// SaveGroupSummaries replaces the summary rows of a job in one transaction.
func SaveGroupSummaries(jobID string, rows []SummaryRow) error {
	tx, err := db.Begin()
	if err != nil {
		return eris.Wrap(err, "store: begin")
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM group_summaries WHERE job_id = ?`, jobID); err != nil {
		return eris.Wrap(err, "store: clear summaries")
	}
	stmt, err := tx.Prepare(`
		INSERT INTO group_summaries (job_id, table_name, section, rank, group_key, num_orders, revenue)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return eris.Wrap(err, "store: prepare summary insert")
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(jobID, r.Table, r.Section, r.Rank, r.Summary.Key, r.Summary.NumOrders, r.Summary.Revenue.String()); err != nil {
			return eris.Wrap(err, "store: insert summary")
		}
	}
	return eris.Wrap(tx.Commit(), "store: commit summaries")
}

// CountGroupSummaries returns the number of stored summary rows of a job.
func CountGroupSummaries(jobID string) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM group_summaries WHERE job_id = ?`, jobID).Scan(&n)
	return n, eris.Wrap(err, "store: count summaries")
}

// SaveOutputFile records an exported file.
func SaveOutputFile(f model.OutputFile) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO output_files (job_id, file_name, file_path, file_type, file_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		f.JobID, f.FileName, f.FilePath, f.FileType, f.FileSize, time.Now().UTC())
	if err != nil {
		return 0, eris.Wrap(err, "store: insert output file")
	}
	id, err := res.LastInsertId()
	return id, eris.Wrap(err, "store: output file id")
}

// GetOutputFiles lists the files exported by a job.
func GetOutputFiles(jobID string) ([]model.OutputFile, error) {
	rows, err := db.Query(`
		SELECT id, job_id, file_name, file_path, file_type, file_size, created_at
		FROM output_files WHERE job_id = ? ORDER BY id`, jobID)
	if err != nil {
		return nil, eris.Wrap(err, "store: get output files")
	}
	defer rows.Close()

	files := []model.OutputFile{}
	for rows.Next() {
		var f model.OutputFile
		if err := rows.Scan(&f.ID, &f.JobID, &f.FileName, &f.FilePath, &f.FileType, &f.FileSize, &f.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "store: scan output file")
		}
		files = append(files, f)
	}
	return files, eris.Wrap(rows.Err(), "store: iterate output files")
}
