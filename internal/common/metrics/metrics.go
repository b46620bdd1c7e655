// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)
)

// Matching pipeline degradations. The pipeline never fails a request; these
// counters are how silent substitutions stay visible.
var (
	CatalogFieldsZeroed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_fields_zeroed_total",
			Help: "Unparsable catalog cells silently normalized to zero",
		},
	)

	CatalogCostsReconciled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_costs_reconciled_total",
			Help: "Records whose setup cost was rebuilt from itemized costs",
		},
	)

	CandidatesFiltered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_candidates_filtered_total",
			Help: "Candidates dropped by hard constraints or missing metadata",
		},
	)

	FallbackServed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_fallback_served_total",
			Help: "Requests answered with the static fallback candidate list",
		},
	)

	RetrievalFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_retrieval_failures_total",
			Help: "Failed retrieval calls by tier (embed, vector, keyword)",
		},
		[]string{"tier"},
	)

	ProposalEnhancementFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "proposal_enhancement_fallbacks_total",
			Help: "Proposal narratives served canned after an LLM timeout or error",
		},
	)
)
