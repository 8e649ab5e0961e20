package handler

import (
	"errors"
	"net/http"
	"sync"

	"go.uber.org/zap"

	"go-ecommerce-dashboard/internal/analytics"
	"go-ecommerce-dashboard/internal/model"
	"go-ecommerce-dashboard/pkg/router"
)

// segTable is the table name position in /api/v1/dashboard/tables/{name}.
const segTable = 4

var (
	datasetMu sync.RWMutex
	dataset   *analytics.RecordStore
	builder   analytics.Builder
)

// UseDataset installs the records the dashboard endpoints serve. It is
// called once at startup; the set is read-only afterwards.
func UseDataset(records []model.Record, b analytics.Builder) {
	datasetMu.Lock()
	defer datasetMu.Unlock()
	dataset = analytics.NewRecordStore(records)
	builder = b
}

func currentDataset() (*analytics.RecordStore, analytics.Builder) {
	datasetMu.RLock()
	defer datasetMu.RUnlock()
	return dataset, builder
}

// errorStatus maps report errors to HTTP status codes.
func errorStatus(err error) int {
	var boundErr *analytics.BoundError
	var statusErr *model.UnknownStatusError
	var integrityErr *model.DataIntegrityError
	switch {
	case errors.As(err, &boundErr):
		return http.StatusBadRequest
	case errors.As(err, &statusErr), errors.As(err, &integrityErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func buildDashboard(w http.ResponseWriter, r *http.Request) (*model.Report, bool) {
	rs, b := currentDataset()
	if rs == nil {
		http.Error(w, "No dataset loaded", http.StatusServiceUnavailable)
		return nil, false
	}

	q := r.URL.Query()
	dr, err := analytics.ResolveRange(rs, q.Get("start"), q.Get("end"))
	if err != nil {
		http.Error(w, err.Error(), errorStatus(err))
		return nil, false
	}
	report, err := b.Build(rs, dr)
	if err != nil {
		status := errorStatus(err)
		if status == http.StatusInternalServerError {
			zap.L().Error("failed to build report", zap.Error(err))
		}
		http.Error(w, err.Error(), status)
		return nil, false
	}
	return report, true
}

// Health reports liveness
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	rs, _ := currentDataset()
	records := 0
	if rs != nil {
		records = rs.Len()
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"records": records,
	})
}

// GetDashboardRange returns the default date range of the loaded dataset
// @Summary Dataset date range
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]interface{} "Bounds and record count"
// @Failure 503 {object} map[string]interface{} "No dataset loaded"
// @Router /dashboard/range [get]
func GetDashboardRange(w http.ResponseWriter, r *http.Request) {
	rs, _ := currentDataset()
	if rs == nil {
		http.Error(w, "No dataset loaded", http.StatusServiceUnavailable)
		return
	}

	resp := map[string]interface{}{"records": rs.Len()}
	if bounds, ok := rs.Bounds(); ok {
		resp["start"] = bounds.Start
		resp["end"] = bounds.End
	}
	writeJSON(w, http.StatusOK, resp)
}

// GetDashboard builds the full report for a date range
// @Summary Dashboard report
// @Description Filters the dataset to [start, end] and computes every dashboard table. Omitted bounds default to the dataset range.
// @Tags dashboard
// @Produce json
// @Param start query string false "Start date (YYYY-MM-DD or RFC3339)"
// @Param end query string false "End date (YYYY-MM-DD or RFC3339)"
// @Success 200 {object} model.Report
// @Failure 400 {object} map[string]interface{} "Invalid date"
// @Failure 422 {object} map[string]interface{} "Dataset cannot be reported"
// @Router /dashboard [get]
func GetDashboard(w http.ResponseWriter, r *http.Request) {
	report, ok := buildDashboard(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetDashboardTable returns one table of the report
// @Summary Dashboard table
// @Tags dashboard
// @Produce json
// @Param name path string true "products_by_volume, products_by_revenue, cities_top10, states_top10 or delivery"
// @Param start query string false "Start date"
// @Param end query string false "End date"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{} "Invalid date"
// @Failure 404 {object} map[string]interface{} "Unknown table"
// @Failure 422 {object} map[string]interface{} "Dataset cannot be reported"
// @Router /dashboard/tables/{name} [get]
func GetDashboardTable(w http.ResponseWriter, r *http.Request) {
	name := router.Segment(r, segTable)
	if _, ok := (&model.Report{}).Table(name); !ok {
		http.Error(w, "Unknown table "+name, http.StatusNotFound)
		return
	}

	report, ok := buildDashboard(w, r)
	if !ok {
		return
	}
	table, _ := report.Table(name)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"table": name,
		"range": report.Range,
		"data":  table,
	})
}
