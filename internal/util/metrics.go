package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RowsExtractedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_rows_extracted_total",
		Help: "Total number of valid rows extracted per entity",
	}, []string{"entity"})

	RowsQuarantinedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_rows_quarantined_total",
		Help: "Total number of rows rejected by schema validation per entity",
	}, []string{"entity"})

	TablesCuratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_tables_curated_total",
		Help: "Total number of curated tables written",
	})

	ExpectationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_expectation_failures_total",
		Help: "Total number of failed expectation suites",
	}, []string{"suite"})

	RunsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pipeline_runs_completed_total",
		Help: "Total number of pipeline runs that finished successfully",
	})

	RunsFailedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_runs_failed_total",
		Help: "Total number of pipeline runs that aborted",
	}, []string{"reason"})

	StageDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_stage_duration_seconds",
		Help:    "Duration of pipeline stages",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})
)
