package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uilibs_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "uilibs_http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	CatalogResults = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "uilibs_catalog_filtered_entries",
		Help:    "Number of entries left after filtering a listing request",
		Buckets: []float64{0, 1, 6, 12, 24, 48, 96, 192},
	})

	EntrySourceFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uilibs_entry_source_failures_total",
		Help: "Listing requests served with an empty collection because the fetch failed",
	})

	ImageUploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uilibs_image_uploads_total",
		Help: "Images sent to object storage",
	}, []string{"result"})

	AdminLogins = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "uilibs_logins_total",
		Help: "Completed Discord logins by resulting role",
	}, []string{"role"})
)
