package httpclient

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics instrumenta las llamadas salientes al API.
type Metrics struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "petcare",
			Subsystem: "api_client",
			Name:      "requests_total",
			Help:      "Requests sent to the pet-care API, by status code and method.",
		}, []string{"code", "method"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "petcare",
			Subsystem: "api_client",
			Name:      "request_duration_seconds",
			Help:      "Latency of requests sent to the pet-care API.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	if reg != nil {
		reg.MustRegister(m.Requests, m.Duration)
	}
	return m
}

func (m *Metrics) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	return promhttp.InstrumentRoundTripperCounter(m.Requests,
		promhttp.InstrumentRoundTripperDuration(m.Duration, next),
	)
}
