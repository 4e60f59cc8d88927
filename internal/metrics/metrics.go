package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Исходы запроса курса
const (
	OutcomeSuccess         = "success"
	OutcomeTransport       = "transport_failure"
	OutcomeProviderFailure = "provider_failure"
	OutcomeUnknownTarget   = "unknown_target"
)

// Metrics содержит метрики приложения
type Metrics struct {
	RateLookups        *prometheus.CounterVec
	RateLookupDuration prometheus.Histogram
	Conversions        *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
}

// New создаёт метрики и регистрирует их в переданном registerer.
// Для тестов удобно передавать prometheus.NewRegistry()
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RateLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "converter_rate_lookups_total",
			Help: "Number of rate lookups against the provider by outcome",
		}, []string{"outcome"}),
		RateLookupDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "converter_rate_lookup_duration_seconds",
			Help:    "Duration of rate lookups against the provider",
			Buckets: prometheus.DefBuckets,
		}),
		Conversions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "converter_conversions_total",
			Help: "Number of completed conversions by pair",
		}, []string{"from", "to"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "converter_http_requests_total",
			Help: "Number of HTTP API requests",
		}, []string{"method", "path", "status"}),
	}

	reg.MustRegister(m.RateLookups, m.RateLookupDuration, m.Conversions, m.HTTPRequests)

	return m
}

// ObserveLookup записывает исход и длительность запроса курса
func (m *Metrics) ObserveLookup(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.RateLookups.WithLabelValues(outcome).Inc()
	m.RateLookupDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveConversion(from, to string) {
	if m == nil {
		return
	}
	m.Conversions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) ObserveHTTPRequest(method, path string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}
