package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ScanLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "radon",
			Subsystem: "scan",
			Name:      "latency_seconds",
			Help:      "Latency of pipeline stages",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	ScanErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "radon",
			Subsystem: "scan",
			Name:      "errors_total",
			Help:      "Errors by pipeline stage",
		},
		[]string{"stage"},
	)

	SignalsEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "radon",
			Subsystem: "scan",
			Name:      "signals_total",
			Help:      "Confirmed signals by label",
		},
		[]string{"label"},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(ScanLatency, ScanErrors, SignalsEmitted)
	})
}
