package infra

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the portal's Prometheus collectors. A nil *Metrics is valid
// and records nothing, so components can be built without a registry.
type Metrics struct {
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec
	refreshes        *prometheus.CounterVec
	cachedRecords    *prometheus.GaugeVec
	lastRefresh      prometheus.Gauge
	mutations        *prometheus.CounterVec
}

// NewMetrics registers all collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		upstreamRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockportal",
			Name:      "upstream_requests_total",
			Help:      "Calls made to the inventory API by method, resource and outcome.",
		}, []string{"method", "resource", "outcome"}),
		upstreamLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "stockportal",
			Name:      "upstream_request_duration_seconds",
			Help:      "Inventory API call latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "resource"}),
		refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockportal",
			Name:      "cache_refreshes_total",
			Help:      "Collection cache refresh attempts by collection and outcome.",
		}, []string{"collection", "outcome"}),
		cachedRecords: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "stockportal",
			Name:      "cache_records",
			Help:      "Records currently held in the collection cache.",
		}, []string{"collection"}),
		lastRefresh: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "stockportal",
			Name:      "cache_last_refresh_timestamp_seconds",
			Help:      "Unix time of the last refresh that replaced at least one collection.",
		}),
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockportal",
			Name:      "mutations_total",
			Help:      "CRUD operations run through the orchestrator by operation and outcome.",
		}, []string{"operation", "outcome"}),
	}
}

func (m *Metrics) ObserveUpstream(method, resource, outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(method, resource, outcome).Inc()
	m.upstreamLatency.WithLabelValues(method, resource).Observe(took.Seconds())
}

func (m *Metrics) ObserveRefresh(collection string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.refreshes.WithLabelValues(collection, outcome).Inc()
}

// ObserveCache records what the cache holds after a refresh.
func (m *Metrics) ObserveCache(items, suppliers int, refreshedAt time.Time) {
	if m == nil {
		return
	}
	m.cachedRecords.WithLabelValues("items").Set(float64(items))
	m.cachedRecords.WithLabelValues("suppliers").Set(float64(suppliers))
	if !refreshedAt.IsZero() {
		m.lastRefresh.Set(float64(refreshedAt.Unix()))
	}
}

func (m *Metrics) ObserveMutation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.mutations.WithLabelValues(operation, outcome).Inc()
}
