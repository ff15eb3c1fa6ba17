package queue

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	jobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notedo_queue_jobs_processed_total",
		Help: "Jobs completed successfully, by job name.",
	}, []string{"job"})

	jobsRetried = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notedo_queue_jobs_retried_total",
		Help: "Retries scheduled after transient failures, by job name.",
	}, []string{"job"})

	jobsFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notedo_queue_jobs_failed_total",
		Help: "Jobs abandoned after a terminal failure or an exhausted retry budget, by job name.",
	}, []string{"job"})
)
