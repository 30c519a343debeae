package metrics

import (
    "net/http"
    "sync"
    "time"

    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
    requests = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "pdf2text",
            Name:      "requests_total",
            Help:      "Total API requests by route and outcome (ok or error kind)",
        },
        []string{"route", "outcome"},
    )

    extractLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "pdf2text",
            Name:      "extract_duration_seconds",
            Help:      "End-to-end extraction duration by route",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"route"},
    )

    fetchLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "pdf2text",
            Name:      "fetch_duration_seconds",
            Help:      "Duration of source document downloads by result",
            Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 30},
        },
        []string{"result"},
    )

    fetchBytes = prometheus.NewCounter(
        prometheus.CounterOpts{
            Namespace: "pdf2text",
            Name:      "fetch_bytes_total",
            Help:      "Total bytes downloaded from source documents",
        },
    )

    pagesExtracted = prometheus.NewCounter(
        prometheus.CounterOpts{
            Namespace: "pdf2text",
            Name:      "pages_extracted_total",
            Help:      "Total pages run through text extraction",
        },
    )

    registerOnce sync.Once
)

// Init registers collectors with the default registry. Safe to call more than once.
func Init() {
    registerOnce.Do(func() {
        prometheus.MustRegister(requests, extractLatency, fetchLatency, fetchBytes, pagesExtracted)
    })
}

// Handler returns the http.Handler for /metrics
func Handler() http.Handler { return promhttp.Handler() }

func ObserveRequest(route, outcome string, dur time.Duration) {
    requests.WithLabelValues(route, outcome).Inc()
    extractLatency.WithLabelValues(route).Observe(dur.Seconds())
}

func ObserveFetch(ok bool, size int, dur time.Duration) {
    fetchLatency.WithLabelValues(result(ok)).Observe(dur.Seconds())
    if ok { fetchBytes.Add(float64(size)) }
}

func AddPages(n int) {
    if n > 0 { pagesExtracted.Add(float64(n)) }
}

func result(ok bool) string { if ok { return "success" }; return "error" }
