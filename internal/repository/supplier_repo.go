package repository

import (
	"context"
	"fmt"
	"net/http"

	"stockportal/internal/model"
)

// SupplierRepository maps to the inventory API's /suppliers resource.
type SupplierRepository interface {
	List(ctx context.Context) ([]model.Supplier, error)
	Create(ctx context.Context, s model.Supplier) (*model.Supplier, error)
	Update(ctx context.Context, id int64, s model.Supplier) (*model.Supplier, error)
	Delete(ctx context.Context, id int64) error
}

type supplierRepo struct{ api RemoteStore }

func NewSupplierRepository(api RemoteStore) SupplierRepository { return &supplierRepo{api: api} }

func (r *supplierRepo) List(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	if err := r.api.Do(ctx, http.MethodGet, "/suppliers", nil, &suppliers); err != nil {
		return nil, fmt.Errorf("list suppliers: %w", err)
	}
	if suppliers == nil {
		suppliers = []model.Supplier{}
	}
	return suppliers, nil
}

func (r *supplierRepo) Create(ctx context.Context, s model.Supplier) (*model.Supplier, error) {
	s.ID = 0
	var created model.Supplier
	if err := r.api.Do(ctx, http.MethodPost, "/suppliers", s, &created); err != nil {
		return nil, fmt.Errorf("create supplier: %w", err)
	}
	return &created, nil
}

func (r *supplierRepo) Update(ctx context.Context, id int64, s model.Supplier) (*model.Supplier, error) {
	s.ID = 0
	var updated model.Supplier
	if err := r.api.Do(ctx, http.MethodPut, fmt.Sprintf("/suppliers/%d", id), s, &updated); err != nil {
		return nil, fmt.Errorf("update supplier %d: %w", id, err)
	}
	if updated.ID == 0 {
		updated.ID = id
	}
	return &updated, nil
}

func (r *supplierRepo) Delete(ctx context.Context, id int64) error {
	if err := r.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/suppliers/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete supplier %d: %w", id, err)
	}
	return nil
}
