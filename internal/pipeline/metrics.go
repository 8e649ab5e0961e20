package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_report_jobs_total",
		Help: "Report jobs finished, by final status",
	}, []string{"status"})

	stageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_pipeline_stage_duration_seconds",
		Help:    "Duration of report pipeline stages",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	recordsLoaded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_records_loaded_total",
		Help: "Order records loaded from sources, by source type",
	}, []string{"source_type"})

	recordsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_records_skipped_total",
		Help: "Source rows dropped by validation",
	})

	fetchRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "dashboard_fetch_retries_total",
		Help: "Retried remote source fetches",
	})
)
