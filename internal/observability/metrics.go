package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	decodeStages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meshdecode",
			Subsystem: "pipeline",
			Name:      "stage_total",
			Help:      "Pipeline stage outcomes.",
		},
		[]string{"stage", "outcome"},
	)
	decodeDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "meshdecode",
			Subsystem: "pipeline",
			Name:      "decode_duration_seconds",
			Help:      "Time spent decoding one envelope.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
	)
	ingestEnvelopes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meshdecode",
			Subsystem: "ingest",
			Name:      "envelopes_total",
			Help:      "Envelopes received by transport.",
		},
		[]string{"transport", "success"},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "meshdecode",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "meshdecode",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(decodeStages, decodeDuration, ingestEnvelopes, httpRequests, httpDuration)
	})
}

// RecordStage counts one pipeline stage outcome, e.g. ("envelope", "valid").
func RecordStage(stage, outcome string) {
	RegisterMetrics()
	decodeStages.WithLabelValues(stage, outcome).Inc()
}

func RecordDecode(duration time.Duration) {
	RegisterMetrics()
	decodeDuration.Observe(duration.Seconds())
}

func RecordIngest(transport string, success bool) {
	RegisterMetrics()
	ingestEnvelopes.WithLabelValues(transport, strconv.FormatBool(success)).Inc()
}

func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}
