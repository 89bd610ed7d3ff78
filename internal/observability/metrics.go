// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Monitor metrics
	SignaturesSeen      prometheus.Counter
	TransactionsFetched prometheus.Counter
	TransactionErrors   prometheus.Counter

	// Classification metrics
	TradesClassified *prometheus.CounterVec
	TradesFiltered   *prometheus.CounterVec

	// Alert metrics
	AlertsSent       *prometheus.CounterVec
	AlertsFailed     *prometheus.CounterVec
	AlertsSuppressed prometheus.Counter
	RateLimitWaits   prometheus.Counter

	// Price metrics
	PriceFetchErrors prometheus.Counter

	// Latency metrics
	RPCCallLatency *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "trade_sentry"
	}

	return &Metrics{
		SignaturesSeen: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "signatures_seen_total",
			Help:      "Total number of transaction signatures discovered",
		}),
		TransactionsFetched: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "transactions_fetched_total",
			Help:      "Total number of transactions fetched from RPC",
		}),
		TransactionErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "monitor",
			Name:      "transaction_errors_total",
			Help:      "Total number of transaction fetch or decode errors",
		}),
		TradesClassified: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classify",
			Name:      "trades_total",
			Help:      "Total number of trades classified by type",
		}, []string{"type"}),
		TradesFiltered: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "classify",
			Name:      "trades_filtered_total",
			Help:      "Total number of classified trades dropped by filters",
		}, []string{"reason"}),
		AlertsSent: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "sent_total",
			Help:      "Total number of alerts delivered by channel",
		}, []string{"channel"}),
		AlertsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "failed_total",
			Help:      "Total number of alert deliveries failed by channel",
		}, []string{"channel"}),
		AlertsSuppressed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "suppressed_total",
			Help:      "Total number of alerts suppressed by the cooldown window",
		}),
		RateLimitWaits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "rate_limit_waits_total",
			Help:      "Total number of sends delayed by the rate limiter",
		}),
		PriceFetchErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "price",
			Name:      "fetch_errors_total",
			Help:      "Total number of price snapshot fetch failures",
		}),
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSignatureSeen increments the signatures seen counter.
func RecordSignatureSeen() {
	DefaultMetrics.SignaturesSeen.Inc()
}

// RecordTransactionFetched increments the transactions fetched counter.
func RecordTransactionFetched() {
	DefaultMetrics.TransactionsFetched.Inc()
}

// RecordTransactionError increments the transaction error counter.
func RecordTransactionError() {
	DefaultMetrics.TransactionErrors.Inc()
}

// RecordTradeClassified increments the classified trades counter.
func RecordTradeClassified(tradeType string) {
	DefaultMetrics.TradesClassified.WithLabelValues(tradeType).Inc()
}

// RecordTradeFiltered increments the filtered trades counter.
func RecordTradeFiltered(reason string) {
	DefaultMetrics.TradesFiltered.WithLabelValues(reason).Inc()
}

// RecordAlertSent increments the sent alerts counter for a channel.
func RecordAlertSent(channel string) {
	DefaultMetrics.AlertsSent.WithLabelValues(channel).Inc()
}

// RecordAlertFailed increments the failed alerts counter for a channel.
func RecordAlertFailed(channel string) {
	DefaultMetrics.AlertsFailed.WithLabelValues(channel).Inc()
}

// RecordAlertSuppressed increments the cooldown suppression counter.
func RecordAlertSuppressed() {
	DefaultMetrics.AlertsSuppressed.Inc()
}

// RecordRateLimitWait increments the rate limit wait counter.
func RecordRateLimitWait() {
	DefaultMetrics.RateLimitWaits.Inc()
}

// RecordPriceFetchError increments the price fetch error counter.
func RecordPriceFetchError() {
	DefaultMetrics.PriceFetchErrors.Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}
