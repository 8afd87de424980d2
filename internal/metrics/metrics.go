// Package metrics provides the centralized Prometheus metrics registry for
// the scoring service.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	SweepsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "f1insight",
		Name:      "sweeps_total",
		Help:      "Total number of bet evaluation sweeps run",
	})
	BetsEvaluatedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "f1insight",
		Name:      "bets_evaluated_total",
		Help:      "Total number of bets evaluated and settled",
	})
	BetsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "f1insight",
		Name:      "bets_skipped_total",
		Help:      "Total number of bets skipped because no reference race exists",
	})
	SettlementFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "f1insight",
		Name:      "settlement_failures_total",
		Help:      "Total number of bet settlements that failed and were deferred",
	})
	RacesIngestedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "f1insight",
		Name:      "races_ingested_total",
		Help:      "Total number of races upserted from the reference data API",
	})
)

// Gauge metrics
var (
	LastSweepEvaluated = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "f1insight",
		Name:      "last_sweep_evaluated",
		Help:      "Number of bets evaluated in the most recent sweep",
	})
)

// Histogram metrics
var (
	SweepDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "f1insight",
		Name:      "sweep_duration_seconds",
		Help:      "Duration of bet evaluation sweeps in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(SweepsTotal)
		registry.MustRegister(BetsEvaluatedTotal)
		registry.MustRegister(BetsSkippedTotal)
		registry.MustRegister(SettlementFailuresTotal)
		registry.MustRegister(RacesIngestedTotal)
		registry.MustRegister(LastSweepEvaluated)
		registry.MustRegister(SweepDuration)
	})

	return registry
}

// Server exposes the metrics registry over HTTP.
type Server struct {
	server *http.Server
	logger *logrus.Logger
}

// NewServer creates a metrics exposition server.
func NewServer(port int, path string, logger *logrus.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(InitRegistry(), promhttp.HandlerOpts{}))

	return &Server{
		server: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start serves metrics in the background until the context is cancelled.
func (s *Server) Start(ctx context.Context) {
	go func() {
		s.logger.WithField("addr", s.server.Addr).Info("Metrics server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()
}
