// Package metrics provides the Prometheus metrics registry for sharpboard.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sharpboard"

// Refresh results
const (
	ResultOK          = "ok"
	ResultUnreachable = "unreachable"
	ResultFetchFailed = "fetch_failed"
	ResultSkipped     = "skipped"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RefreshesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refreshes_total",
		Help:      "Total number of board refresh cycles by result",
	}, []string{"result"})
	RowsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rows_skipped_total",
		Help:      "Total number of board payload elements that were not objects",
	})
	LineMovesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "line_moves_total",
		Help:      "Total number of observed odds moves by direction",
	}, []string{"direction"})
	BackendErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backend_errors_total",
		Help:      "Total number of failed backend requests by endpoint and kind",
	}, []string{"endpoint", "kind"})
)

// Gauge metrics
var (
	BackendUp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backend_up",
		Help:      "Whether the last health check succeeded (1) or not (0)",
	})
	BoardMarkets = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "board_markets",
		Help:      "Number of markets on the board, total and after filters",
	}, []string{"view"})
	SteamMarkets = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "steam_markets",
		Help:      "Number of markets currently flagged with steam",
	})
	LastRefresh = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "last_refresh_timestamp_seconds",
		Help:      "Unix time of the last completed refresh",
	})
)

// Histogram metrics
var (
	RefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "refresh_duration_seconds",
		Help:      "Duration of board refresh cycles in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	BackendRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "backend_request_duration_seconds",
		Help:      "Latency of backend requests in seconds",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RefreshesTotal)
		registry.MustRegister(RowsSkippedTotal)
		registry.MustRegister(LineMovesTotal)
		registry.MustRegister(BackendErrorsTotal)

		registry.MustRegister(BackendUp)
		registry.MustRegister(BoardMarkets)
		registry.MustRegister(SteamMarkets)
		registry.MustRegister(LastRefresh)

		registry.MustRegister(RefreshDuration)
		registry.MustRegister(BackendRequestDuration)

		registry.MustRegister(TicketsTotal)
		registry.MustRegister(SlipLegs)
		registry.MustRegister(SlipRiskScore)
		registry.MustRegister(Bankroll)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRefresh records a refresh cycle outcome.
func RecordRefresh(result string, duration time.Duration) {
	RefreshesTotal.WithLabelValues(result).Inc()
	if result == ResultSkipped {
		return
	}
	RefreshDuration.Observe(duration.Seconds())
	LastRefresh.Set(float64(time.Now().Unix()))
}

// UpdateBoard updates the board size gauges.
func UpdateBoard(total, shown, steam int) {
	BoardMarkets.WithLabelValues("all").Set(float64(total))
	BoardMarkets.WithLabelValues("filtered").Set(float64(shown))
	SteamMarkets.Set(float64(steam))
}

// RecordSkippedRows records payload elements dropped during normalization.
func RecordSkippedRows(n int) {
	if n > 0 {
		RowsSkippedTotal.Add(float64(n))
	}
}

// RecordLineMove records one odds move.
func RecordLineMove(direction string) {
	LineMovesTotal.WithLabelValues(direction).Inc()
}

// SetBackendUp records the latest health check result.
func SetBackendUp(up bool) {
	if up {
		BackendUp.Set(1)
		return
	}
	BackendUp.Set(0)
}

// RecordBackendRequest records a backend call's latency and, on failure, its kind.
func RecordBackendRequest(endpoint string, duration time.Duration, errKind string) {
	BackendRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if errKind != "" {
		BackendErrorsTotal.WithLabelValues(endpoint, errKind).Inc()
	}
}
