package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	engineAdvances = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "decld",
			Subsystem: "engine",
			Name:      "advances_total",
			Help:      "Statement instances created.",
		},
		[]string{"process"},
	)
	engineRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "decld",
			Subsystem: "engine",
			Name:      "retries_total",
			Help:      "Retry timer fires after statement errors.",
		},
		[]string{"process"},
	)
	engineTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "decld",
			Subsystem: "engine",
			Name:      "transitions_total",
			Help:      "Statement state transitions by resulting state.",
		},
		[]string{"process", "state"},
	)
	engineVictories = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "decld",
			Subsystem: "engine",
			Name:      "victories_total",
			Help:      "Times a process reached the fully-up state.",
		},
		[]string{"process"},
	)
	engineProcesses = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "decld",
			Subsystem: "engine",
			Name:      "processes",
			Help:      "Processes currently owned by the controller.",
		},
	)
	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "decld",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "decld",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			engineAdvances, engineRetries, engineTransitions,
			engineVictories, engineProcesses,
			httpRequests, httpDuration,
		)
	})
}

func RecordAdvance(process string) {
	RegisterMetrics()
	engineAdvances.WithLabelValues(process).Inc()
}

func RecordRetry(process string) {
	RegisterMetrics()
	engineRetries.WithLabelValues(process).Inc()
}

func RecordTransition(process, state string) {
	RegisterMetrics()
	engineTransitions.WithLabelValues(process, state).Inc()
}

func RecordVictory(process string) {
	RegisterMetrics()
	engineVictories.WithLabelValues(process).Inc()
}

func SetProcessCount(n int) {
	RegisterMetrics()
	engineProcesses.Set(float64(n))
}

func RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(method, path, statusLabel).Observe(duration.Seconds())
}
