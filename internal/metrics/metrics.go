// Package metrics define los collectors Prometheus del servicio. Vive en un
// paquete propio para que auth, cache y http lo usen sin ciclos de import.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los collectors registrados en un registry.
type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpInflight prometheus.Gauge

	logins      *prometheus.CounterVec
	tokenOps    *prometheus.CounterVec
	storeErrors *prometheus.CounterVec
}

// New registra los collectors en reg. Con reg nil usa un registry nuevo
// (junto con los collectors de Go y proceso).
func New(reg *prometheus.Registry) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		gatherer: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Número total de requests procesadas",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Latencia de los requests HTTP",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		httpInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests en vuelo",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Logins sociales por proveedor y resultado",
		}, []string{"provider", "result"}), // result: ok|invalid|unavailable|unsupported|error
		tokenOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_token_operations_total",
			Help: "Operaciones de token (exchange, reissue, logout) por resultado",
		}, []string{"op", "result"}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "session_store_errors_total",
			Help: "Fallas de infraestructura del session store",
		}, []string{"op"}),
	}

	for _, c := range []prometheus.Collector{
		m.httpRequests, m.httpDuration, m.httpInflight,
		m.logins, m.tokenOps, m.storeErrors,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Handler expone /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) Login(provider, result string) {
	m.logins.WithLabelValues(provider, result).Inc()
}

func (m *Metrics) TokenOp(op, result string) {
	m.tokenOps.WithLabelValues(op, result).Inc()
}

// SessionStoreError se conecta a cache.Config.OnUnavailable.
func (m *Metrics) SessionStoreError(op string, _ error) {
	m.storeErrors.WithLabelValues(op).Inc()
}

// RequestStarted incrementa el gauge de requests en vuelo; el func devuelto lo decrementa.
func (m *Metrics) RequestStarted() func() {
	m.httpInflight.Inc()
	return m.httpInflight.Dec
}

// ObserveRequest registra un request terminado. route es el patrón de chi,
// nunca el path crudo, para acotar la cardinalidad.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
