package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the game and HTTP collectors on one registry.
type Metrics struct {
	reg *prometheus.Registry

	Guesses       *prometheus.CounterVec
	Solves        *prometheus.HistogramVec
	Resets        *prometheus.CounterVec
	FilterToggles *prometheus.CounterVec
	ShareDecodes  *prometheus.CounterVec
	CatalogCards  prometheus.Gauge
	Requests      *prometheus.CounterVec
	Latency       *prometheus.HistogramVec
}

// NewMetrics registers every collector on a fresh registry, together with the
// Go runtime and process collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		Guesses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cardle_guesses_total",
			Help: "Guesses by mode and outcome",
		}, []string{"mode", "outcome"}),
		Solves: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cardle_solve_guesses",
			Help:    "Number of guesses needed to solve a day",
			Buckets: []float64{1, 2, 3, 4, 5, 6, 8, 10, 15, 20, 30},
		}, []string{"mode"}),
		Resets: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cardle_resets_total",
			Help: "Day resets by mode",
		}, []string{"mode"}),
		FilterToggles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cardle_filter_toggles_total",
			Help: "Filter toggles by field and result",
		}, []string{"field", "result"}),
		ShareDecodes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cardle_share_decodes_total",
			Help: "Share link decodes by result",
		}, []string{"result"}),
		CatalogCards: f.NewGauge(prometheus.GaugeOpts{
			Name: "cardle_catalog_cards",
			Help: "Number of cards in the loaded catalog",
		}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "cardle_http_requests_total",
			Help: "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cardle_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.Latency.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveGuess records a guess outcome; solved is true when it ended the day
// after n guesses.
func (m *Metrics) ObserveGuess(mode, outcome string, solved bool, n int) {
	if m == nil {
		return
	}
	m.Guesses.WithLabelValues(mode, outcome).Inc()
	if solved {
		m.Solves.WithLabelValues(mode).Observe(float64(n))
	}
}

func (m *Metrics) Reset(mode string) {
	if m == nil {
		return
	}
	m.Resets.WithLabelValues(mode).Inc()
}

func (m *Metrics) FilterToggle(field, result string) {
	if m == nil {
		return
	}
	m.FilterToggles.WithLabelValues(field, result).Inc()
}

func (m *Metrics) ShareDecode(result string) {
	if m == nil {
		return
	}
	m.ShareDecodes.WithLabelValues(result).Inc()
}
