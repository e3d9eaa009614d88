package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devevent_http_requests_total",
		Help: "Total number of HTTP requests, labelled by method, route and status.",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "devevent_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds, labelled by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	EventsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devevent_events_created_total",
		Help: "Total number of events persisted by the ingestion path.",
	})

	IngestFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devevent_ingest_failures_total",
		Help: "Total number of rejected or failed event submissions, labelled by error kind.",
	}, []string{"kind"})

	ImageUploadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "devevent_image_upload_duration_seconds",
		Help:    "Image upload latency to the blob store in seconds.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	DegradedReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "devevent_degraded_reads_total",
		Help: "Reads that swallowed a store error and returned an empty result, labelled by operation.",
	}, []string{"operation"})

	BookingsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "devevent_bookings_confirmed_total",
		Help: "Total number of booking sign-ups confirmed.",
	})
)
