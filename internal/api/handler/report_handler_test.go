package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-ecommerce-dashboard/internal/model"
	"go-ecommerce-dashboard/internal/pipeline"
	"go-ecommerce-dashboard/internal/store"
)

// createJob posts a job and waits for it to finish.
func createJob(t *testing.T, h http.Handler, body string) string {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/v1/reports", body)
	require.Equal(t, http.StatusAccepted, rec.Code, rec.Body.String())

	var resp struct {
		JobID  string `json:"jobID"`
		Status string `json:"status"`
	}
	decode(t, rec, &resp)
	require.NotEmpty(t, resp.JobID)
	assert.Equal(t, model.StatusPending, resp.Status)

	pipeline.Wait()
	return resp.JobID
}

func jobBody(path string) string {
	return fmt.Sprintf(`{"sources":[{"type":"csv","url":%q}],"start":"2018-01-01","end":"2018-01-31","export":{"format":"csv","db":true}}`, path)
}

func TestReportLifecycle(t *testing.T) {
	setup(t)
	r := newRouter()
	jobID := createJob(t, r, jobBody(writeOrders(t)))
	base := "/api/v1/reports/" + jobID

	rec := do(t, r, http.MethodGet, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var job model.Job
	decode(t, rec, &job)
	assert.Equal(t, model.StatusCompleted, job.Status)
	assert.Equal(t, "2018-01-01", job.Spec.Start)

	rec = do(t, r, http.MethodGet, "/api/v1/reports", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var jobs []model.Job
	decode(t, rec, &jobs)
	assert.Len(t, jobs, 1)

	rec = do(t, r, http.MethodGet, base+"/result", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var report model.Report
	decode(t, rec, &report)
	assert.Equal(t, 2, report.FilteredRecords)
	assert.Equal(t, model.DeliverySplit{OnTime: 1, Late: 1}, report.Delivery)

	rec = do(t, r, http.MethodGet, base+"/errors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var errs map[string]interface{}
	decode(t, rec, &errs)
	assert.EqualValues(t, 0, errs["count"])

	rec = do(t, r, http.MethodGet, base+"/logs?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var logs map[string]interface{}
	decode(t, rec, &logs)
	assert.EqualValues(t, 2, logs["count"])
	assert.EqualValues(t, 2, logs["limit"])

	rec = do(t, r, http.MethodGet, base+"/progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var progress map[string]interface{}
	decode(t, rec, &progress)
	assert.EqualValues(t, pipeline.StageCount, progress["completed_stages"])
	assert.Equal(t, false, progress["running"])

	rec = do(t, r, http.MethodGet, base+"/files", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var files struct {
		Files []struct {
			FileName    string `json:"file_name"`
			DownloadURL string `json:"download_url"`
		} `json:"files"`
	}
	decode(t, rec, &files)
	require.Len(t, files.Files, 1)
	assert.Equal(t, "report.csv", files.Files[0].FileName)

	rec = do(t, r, http.MethodGet, files.Files[0].DownloadURL, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "report.csv")
	assert.Contains(t, rec.Body.String(), "table,rank,key,num_orders,revenue")

	rec = do(t, r, http.MethodPatch, base+"/cancel", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, r, http.MethodDelete, base, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, r, http.MethodGet, base, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = do(t, r, http.MethodGet, files.Files[0].DownloadURL, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReport_BadRequests(t *testing.T) {
	setup(t)
	r := newRouter()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"sources":`},
		{"no sources", `{"sources":[]}`},
		{"bad transformation", `{"sources":[{"url":"a.csv"}],"transformations":["calculateBMI"]}`},
		{"bad export", `{"sources":[{"url":"a.csv"}],"export":{"format":"pdf"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/api/v1/reports", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	jobs, err := store.ListJobs()
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestFailedJobErrorsAndRetry(t *testing.T) {
	setup(t)
	r := newRouter()
	jobID := createJob(t, r, `{"sources":[{"url":"/does/not/exist.csv"}]}`)
	base := "/api/v1/reports/" + jobID

	job, err := store.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, job.Status)

	rec := do(t, r, http.MethodGet, base+"/result", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, r, http.MethodGet, base+"/errors", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var errs struct {
		Errors []model.ErrorDetail `json:"errors"`
	}
	decode(t, rec, &errs)
	require.NotEmpty(t, errs.Errors)
	assert.Equal(t, "ingestion", errs.Errors[0].Stage)

	rec = do(t, r, http.MethodPost, base+"/retry", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	pipeline.Wait()

	job, err = store.GetJob(jobID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusFailed, job.Status)
}

func TestRetryReport_Conflict(t *testing.T) {
	setup(t)
	require.NoError(t, store.SaveJob("job-1", model.ReportJobSpec{Sources: []model.Source{{URL: "a.csv"}}}))
	require.NoError(t, store.UpdateJobStatus("job-1", model.StatusIngesting))

	rec := do(t, newRouter(), http.MethodPost, "/api/v1/reports/job-1/retry", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCancelReport_Orphaned(t *testing.T) {
	setup(t)
	require.NoError(t, store.SaveJob("job-1", model.ReportJobSpec{Sources: []model.Source{{URL: "a.csv"}}}))
	require.NoError(t, store.UpdateJobStatus("job-1", model.StatusReporting))

	rec := do(t, newRouter(), http.MethodPatch, "/api/v1/reports/job-1/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)

	job, err := store.GetJob("job-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, job.Status)
}

func TestUnknownJob(t *testing.T) {
	setup(t)
	r := newRouter()

	for _, path := range []string{
		"/api/v1/reports/missing",
		"/api/v1/reports/missing/result",
		"/api/v1/reports/missing/errors",
		"/api/v1/reports/missing/logs",
		"/api/v1/reports/missing/progress",
		"/api/v1/reports/missing/files",
	} {
		rec := do(t, r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodDelete, "/api/v1/reports/missing", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodPost, "/api/v1/reports/missing/retry", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, r, http.MethodGet, "/api/v1/download/missing/report.csv", "").Code)
}
