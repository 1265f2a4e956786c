package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ScrapesTotal        *prometheus.CounterVec
	ScrapeDuration      prometheus.Histogram
	CardsDetected       prometheus.Histogram
	AdsCapturedTotal    prometheus.Counter
	RelevanceChecks     *prometheus.CounterVec
	ScreenshotFailures  prometheus.Counter
)

var initOnce sync.Once

// Init registers the collectors on the default registry. Idempotent so
// test packages can call it without tripping duplicate registration.
func Init() {
	initOnce.Do(initAll)
}

func initAll() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ScrapesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrapes_total",
			Help: "Total number of scrape sessions by terminal status.",
		},
		[]string{"status"}, // completed, error
	)

	ScrapeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scrape_duration_seconds",
			Help:    "End-to-end duration of scrape sessions.",
			Buckets: []float64{15, 30, 60, 120, 240, 480, 900},
		},
	)

	CardsDetected = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cards_detected",
			Help:    "Unique ad cards detected per session, after dedup.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100},
		},
	)

	AdsCapturedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ads_captured_total",
			Help: "Total ads captured and persisted.",
		},
	)

	RelevanceChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relevance_checks_total",
			Help: "Relevance classifier outcomes.",
		},
		[]string{"outcome"}, // relevant, not_relevant, check_failed
	)

	ScreenshotFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "screenshot_failures_total",
			Help: "Per-card capture failures that were skipped over.",
		},
	)
}
