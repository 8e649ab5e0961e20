package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"go-ecommerce-dashboard/internal/analytics"
	"go-ecommerce-dashboard/internal/model"
	"go-ecommerce-dashboard/internal/pipeline"
	"go-ecommerce-dashboard/internal/store"
	"go-ecommerce-dashboard/pkg/router"
)

const ordersCSV = "order_id,product_name,payment_value,customer_city,customer_state,order_purchase_timestamp,arrival_status\n" +
	"o1,bed,10.50,sao paulo,SP,2018-01-01 10:00:00,On Time\n" +
	"o2,toys,20,rio de janeiro,RJ,2018-01-02 11:00:00,Late\n" +
	"o3,toys,7,curitiba,PR,2018-02-01 09:00:00,On Time\n"

func setup(t *testing.T) {
	t.Helper()
	require.NoError(t, store.InitDB(":memory:"))
	pipeline.Configure(pipeline.Settings{
		OutputDir: t.TempDir(),
		Timeout:   time.Minute,
		TopN:      analytics.DefaultTopN,
		Retry:     pipeline.RetryConfig{MaxAttempts: 1},
	})
	t.Cleanup(func() {
		pipeline.Wait()
		store.Close()
		pipeline.Configure(pipeline.Settings{
			OutputDir: "outputs",
			Timeout:   5 * time.Minute,
			TopN:      analytics.DefaultTopN,
			Retry:     pipeline.DefaultRetryConfig,
		})
	})
}

func writeOrders(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "orders.csv")
	require.NoError(t, os.WriteFile(path, []byte(ordersCSV), 0644))
	return path
}

func newRouter() *router.Router {
	r := router.New()
	r.GET("/health", Health)
	r.GET("/api/v1/dashboard", GetDashboard)
	r.GET("/api/v1/dashboard/range", GetDashboardRange)
	r.GET("/api/v1/dashboard/tables/*", GetDashboardTable)
	r.POST("/api/v1/reports", CreateReport)
	r.GET("/api/v1/reports", ListReports)
	r.GET("/api/v1/reports/*/result", GetReportResult)
	r.GET("/api/v1/reports/*/errors", GetReportErrors)
	r.GET("/api/v1/reports/*/logs", GetReportLogs)
	r.GET("/api/v1/reports/*/progress", GetReportProgress)
	r.GET("/api/v1/reports/*/files", GetReportFiles)
	r.POST("/api/v1/reports/*/retry", RetryReport)
	r.PATCH("/api/v1/reports/*/cancel", CancelReport)
	r.GET("/api/v1/reports/*", GetReport)
	r.DELETE("/api/v1/reports/*", DeleteReport)
	r.GET("/api/v1/download/*/*", DownloadFile)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, rd))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func record(order, product, pay, city, state, when string, st model.ArrivalStatus) model.Record {
	at, err := time.Parse("2006-01-02", when)
	if err != nil {
		panic(err)
	}
	return model.Record{
		OrderID:       order,
		ProductName:   product,
		PaymentValue:  decimal.RequireFromString(pay),
		CustomerCity:  city,
		CustomerState: state,
		PurchasedAt:   at,
		ArrivalStatus: st,
	}
}

func useRecords(t *testing.T, records ...model.Record) {
	t.Helper()
	UseDataset(records, analytics.Builder{})
	t.Cleanup(func() {
		datasetMu.Lock()
		dataset = nil
		datasetMu.Unlock()
	})
}
