package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"stockportal/internal/model"
)

// ── In-memory Repository Stubs ───────────────────────────────────────────────
// Both stubs behave like the inventory API: ids are assigned on create and
// deleting a supplier leaves items untouched.

var errNetwork = errors.New("dial tcp: connection refused")

type memItemRepo struct {
	mu     sync.Mutex
	items  map[int64]model.Item
	nextID int64
	fail   error
}

func newMemItemRepo(items ...model.Item) *memItemRepo {
	r := &memItemRepo{items: make(map[int64]model.Item), nextID: 1}
	for _, it := range items {
		r.items[it.ID] = it
		if it.ID >= r.nextID {
			r.nextID = it.ID + 1
		}
	}
	return r
}

func (r *memItemRepo) List(context.Context) ([]model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memItemRepo) Create(_ context.Context, it model.Item) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	it.ID = r.nextID
	r.nextID++
	r.items[it.ID] = it
	return &it, nil
}

func (r *memItemRepo) Update(_ context.Context, id int64, it model.Item) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	it.ID = id
	r.items[id] = it
	return &it, nil
}

func (r *memItemRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	delete(r.items, id)
	return nil
}

type memSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[int64]model.Supplier
	nextID    int64
	fail      error
	listFail  error
}

func newMemSupplierRepo(suppliers ...model.Supplier) *memSupplierRepo {
	r := &memSupplierRepo{suppliers: make(map[int64]model.Supplier), nextID: 1}
	for _, s := range suppliers {
		r.suppliers[s.ID] = s
		if s.ID >= r.nextID {
			r.nextID = s.ID + 1
		}
	}
	return r
}

func (r *memSupplierRepo) List(context.Context) ([]model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listFail != nil {
		return nil, r.listFail
	}
	out := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memSupplierRepo) Create(_ context.Context, s model.Supplier) (*model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	s.ID = r.nextID
	r.nextID++
	r.suppliers[s.ID] = s
	return &s, nil
}

func (r *memSupplierRepo) Update(_ context.Context, id int64, s model.Supplier) (*model.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return nil, r.fail
	}
	s.ID = id
	r.suppliers[id] = s
	return &s, nil
}

func (r *memSupplierRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	delete(r.suppliers, id)
	return nil
}
