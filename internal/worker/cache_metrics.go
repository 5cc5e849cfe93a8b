package worker

import (
	"stockportal/internal/infra"
	"stockportal/internal/store"
)

// Subscriber is satisfied by *store.Collections.
type Subscriber interface {
	Subscribe(fn func(store.Snapshot)) (cancel func())
}

// TrackCacheMetrics keeps the cache gauges in step with every published
// snapshot, including refreshes triggered by mutations.
func TrackCacheMetrics(cache Subscriber, m *infra.Metrics) (cancel func()) {
	return cache.Subscribe(func(s store.Snapshot) {
		m.ObserveCache(len(s.Items), len(s.Suppliers), s.RefreshedAt)
	})
}
