// Package store holds the process-wide snapshot of the inventory API's item
// and supplier collections. Only RefreshAll writes it; readers get copies.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stockportal/internal/infra"
	"stockportal/internal/model"
	"stockportal/internal/repository"

	"github.com/rs/zerolog/log"
)

// Snapshot is a consistent copy of both collections.
type Snapshot struct {
	Items           []model.Item
	Suppliers       []model.Supplier
	ItemsLoaded     bool
	SuppliersLoaded bool
	RefreshedAt     time.Time
}

// Loaded reports whether both collections have been fetched at least once.
func (s Snapshot) Loaded() bool { return s.ItemsLoaded && s.SuppliersLoaded }

// Collections is the cache. The zero value is not usable; call New.
type Collections struct {
	items     repository.ItemRepository
	suppliers repository.SupplierRepository
	metrics   *infra.Metrics

	mu   sync.RWMutex
	snap Snapshot

	subMu  sync.Mutex
	subs   map[int]func(Snapshot)
	nextID int
}

func New(items repository.ItemRepository, suppliers repository.SupplierRepository, metrics *infra.Metrics) *Collections {
	return &Collections{
		items:     items,
		suppliers: suppliers,
		metrics:   metrics,
		snap:      Snapshot{Items: []model.Item{}, Suppliers: []model.Supplier{}},
		subs:      make(map[int]func(Snapshot)),
	}
}

func (c *Collections) Items() []model.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Item(nil), c.snap.Items...)
}

func (c *Collections) Suppliers() []model.Supplier {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]model.Supplier(nil), c.snap.Suppliers...)
}

func (c *Collections) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyLocked()
}

// must be called under at least a read lock
func (c *Collections) copyLocked() Snapshot {
	s := c.snap
	s.Items = append([]model.Item(nil), c.snap.Items...)
	s.Suppliers = append([]model.Supplier(nil), c.snap.Suppliers...)
	return s
}

// RefreshAll fetches both collections concurrently. Each collection that loads
// replaces its slot; a failing one keeps the previous snapshot and its error is
// returned joined with the other's.
func (c *Collections) RefreshAll(ctx context.Context) error {
	var (
		wg                     sync.WaitGroup
		items                  []model.Item
		suppliers              []model.Supplier
		itemsErr, suppliersErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		items, itemsErr = c.items.List(ctx)
	}()
	go func() {
		defer wg.Done()
		suppliers, suppliersErr = c.suppliers.List(ctx)
	}()
	wg.Wait()

	c.metrics.ObserveRefresh("items", itemsErr)
	c.metrics.ObserveRefresh("suppliers", suppliersErr)

	c.mu.Lock()
	if itemsErr == nil {
		c.snap.Items = items
		c.snap.ItemsLoaded = true
	}
	if suppliersErr == nil {
		c.snap.Suppliers = suppliers
		c.snap.SuppliersLoaded = true
	}
	if itemsErr == nil || suppliersErr == nil {
		c.snap.RefreshedAt = time.Now()
	}
	snap := c.copyLocked()
	c.mu.Unlock()

	var errs []error
	if itemsErr != nil {
		log.Warn().Err(itemsErr).Msg("store: items refresh failed, keeping previous snapshot")
		errs = append(errs, fmt.Errorf("refresh items: %w", itemsErr))
	}
	if suppliersErr != nil {
		log.Warn().Err(suppliersErr).Msg("store: suppliers refresh failed, keeping previous snapshot")
		errs = append(errs, fmt.Errorf("refresh suppliers: %w", suppliersErr))
	}
	log.Debug().
		Int("items", len(snap.Items)).
		Int("suppliers", len(snap.Suppliers)).
		Time("refreshed_at", snap.RefreshedAt).
		Msg("store: refresh finished")

	c.publish(snap)
	return errors.Join(errs...)
}

// Subscribe registers fn to run after every refresh with the resulting
// snapshot. The returned func removes the subscription.
func (c *Collections) Subscribe(fn func(Snapshot)) (cancel func()) {
	c.subMu.Lock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	c.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subMu.Lock()
			delete(c.subs, id)
			c.subMu.Unlock()
		})
	}
}

func (c *Collections) publish(snap Snapshot) {
	c.subMu.Lock()
	fns := make([]func(Snapshot), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
