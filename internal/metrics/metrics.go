// Package metrics provides Prometheus metrics for gamelistd
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nainya/gamelist/pkg/gamedoc"
	"github.com/nainya/gamelist/pkg/gamelist"
)

// Metrics holds all Prometheus metrics for gamelistd
type Metrics struct {
	// gRPC request metrics
	GrpcRequestsTotal    *prometheus.CounterVec
	GrpcRequestDuration  *prometheus.HistogramVec
	GrpcRequestsInFlight prometheus.Gauge

	// Catalog metrics
	CatalogOperationsTotal   *prometheus.CounterVec
	CatalogOperationDuration *prometheus.HistogramVec
	CatalogGames             prometheus.Gauge
	CatalogInvalidFields     prometheus.Gauge
	MalformedDocumentsTotal  prometheus.Counter

	// Server metrics
	ServerUptimeSeconds prometheus.GaugeFunc
	ServerStartTime     time.Time
}

// NewMetrics creates all metrics and registers them on reg. A nil reg
// registers on the default registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	m := &Metrics{
		ServerStartTime: time.Now(),
	}

	m.GrpcRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamelist_grpc_requests_total",
			Help: "Total number of gRPC requests",
		},
		[]string{"method", "status"},
	)

	m.GrpcRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamelist_grpc_request_duration_seconds",
			Help:    "Duration of gRPC requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	m.GrpcRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamelist_grpc_requests_in_flight",
			Help: "Number of gRPC requests currently being processed",
		},
	)

	m.CatalogOperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamelist_catalog_operations_total",
			Help: "Total number of catalog opens and saves",
		},
		[]string{"operation", "status"},
	)

	m.CatalogOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gamelist_catalog_operation_duration_seconds",
			Help:    "Duration of catalog operations in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	m.CatalogGames = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamelist_catalog_games",
			Help: "Number of games in the most recently opened catalog",
		},
	)

	m.CatalogInvalidFields = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "gamelist_catalog_invalid_fields",
			Help: "Number of invalid fields in the most recently opened catalog",
		},
	)

	m.MalformedDocumentsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "gamelist_malformed_documents_total",
			Help: "Total number of documents rejected as malformed",
		},
	)

	m.ServerUptimeSeconds = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "gamelist_server_uptime_seconds",
			Help: "Server uptime in seconds",
		},
		func() float64 { return time.Since(m.ServerStartTime).Seconds() },
	)

	return m
}

// RecordGrpcRequest records a gRPC request with its status
func (m *Metrics) RecordGrpcRequest(method string, status string, duration time.Duration) {
	m.GrpcRequestsTotal.WithLabelValues(method, status).Inc()
	m.GrpcRequestDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// RecordCatalogOperation records a catalog operation
func (m *Metrics) RecordCatalogOperation(operation string, status string, duration time.Duration) {
	m.CatalogOperationsTotal.WithLabelValues(operation, status).Inc()
	m.CatalogOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// ObserveCatalog records one open or save. It lets Metrics serve as the
// library's operation observer.
func (m *Metrics) ObserveCatalog(op string, gl *gamelist.GameList, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
		if errors.Is(err, gamedoc.ErrMalformedDocument) {
			m.MalformedDocumentsTotal.Inc()
		}
	}
	m.RecordCatalogOperation(op, status, duration)

	if op == "open" && gl != nil {
		m.CatalogGames.Set(float64(gl.Len()))
		m.CatalogInvalidFields.Set(float64(gl.InvalidCount()))
	}
}
