// Package metrics defines Prometheus metrics for followgraph.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ClientAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followgraph_client_attempts_total",
			Help: "Challenge service request attempts by operation and result",
		},
		[]string{"op", "result"},
	)

	RetryWaitSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "followgraph_client_retry_wait_seconds",
			Help:    "Backoff waited between attempts",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 3, 5, 10},
		},
		[]string{"op"},
	)

	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followgraph_runs_total",
			Help: "Workflow runs by problem and terminal status",
		},
		[]string{"problem", "status"},
	)

	SolveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "followgraph_solve_duration_seconds",
			Help:    "Time spent decoding the payload and running the graph algorithm",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"problem"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followgraph_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "followgraph_sandbox_request_duration_seconds",
			Help:    "Sandbox HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followgraph_sandbox_requests_total",
			Help: "Total sandbox HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followgraph_sandbox_submissions_total",
			Help: "Submissions graded by the sandbox",
		},
		[]string{"problem", "correct"},
	)

	ChallengesIssued = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "followgraph_sandbox_challenges_issued",
			Help: "Challenges issued by the sandbox since start",
		},
	)
)

func init() {
	prometheus.MustRegister(
		ClientAttemptsTotal, RetryWaitSeconds,
		RunsTotal, SolveDuration, ErrorsTotal,
		RequestDuration, RequestsTotal,
		SubmissionsTotal, ChallengesIssued,
	)
}
