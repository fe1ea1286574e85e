package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ApplicationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prointern_applications_created_total",
			Help: "Total number of applications submitted",
		},
	)

	ApplicationTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prointern_application_transitions_total",
			Help: "Application status transitions by source and target status",
		},
		[]string{"from", "to"},
	)

	InterviewsScheduled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prointern_interviews_total",
			Help: "Interview scheduling actions",
		},
		[]string{"action"},
	)

	PartialWriteFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prointern_partial_write_failures_total",
			Help: "Secondary writes that failed after the authoritative write committed",
		},
		[]string{"operation"},
	)

	ReconcileJobs = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prointern_reconcile_jobs_total",
			Help: "Reconcile jobs processed by kind and result",
		},
		[]string{"kind", "result"},
	)

	ReconcileJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "prointern_reconcile_job_duration_seconds",
			Help: "Duration of reconcile job processing in seconds",
		},
		[]string{"kind"},
	)

	ViewAssemblyMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prointern_view_assembly_misses_total",
			Help: "Referenced records missing while assembling application views",
		},
		[]string{"kind"},
	)
)
