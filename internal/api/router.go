package api

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "go-ecommerce-dashboard/docs"
	"go-ecommerce-dashboard/internal/api/handler"
	"go-ecommerce-dashboard/pkg/router"
)

func RegisterRoutes(r *router.Router) {
	r.GET("/health", handler.Health)

	r.GET("/api/v1/dashboard", handler.GetDashboard)
	r.GET("/api/v1/dashboard/range", handler.GetDashboardRange)
	r.GET("/api/v1/dashboard/tables/*", handler.GetDashboardTable)

	r.POST("/api/v1/reports", handler.CreateReport)
	r.GET("/api/v1/reports", handler.ListReports)
	// More specific routes first
	r.GET("/api/v1/reports/*/result", handler.GetReportResult)
	r.GET("/api/v1/reports/*/errors", handler.GetReportErrors)
	r.GET("/api/v1/reports/*/logs", handler.GetReportLogs)
	r.GET("/api/v1/reports/*/progress", handler.GetReportProgress)
	r.GET("/api/v1/reports/*/files", handler.GetReportFiles)
	r.POST("/api/v1/reports/*/retry", handler.RetryReport)
	r.PATCH("/api/v1/reports/*/cancel", handler.CancelReport)
	// Generic report routes last
	r.GET("/api/v1/reports/*", handler.GetReport)
	r.DELETE("/api/v1/reports/*", handler.DeleteReport)

	r.GET("/api/v1/download/*/*", handler.DownloadFile)

	r.Handle("/swagger/", httpSwagger.WrapHandler)
	r.Handle("/metrics", promhttp.Handler())
}
