package repository

import (
	"context"
	"fmt"
	"net/http"

	"stockportal/internal/model"
)

// ItemRepository maps to the inventory API's /transactions resource.
type ItemRepository interface {
	List(ctx context.Context) ([]model.Item, error)
	Create(ctx context.Context, item model.Item) (*model.Item, error)
	Update(ctx context.Context, id int64, item model.Item) (*model.Item, error)
	Delete(ctx context.Context, id int64) error
}

type itemRepo struct{ api RemoteStore }

func NewItemRepository(api RemoteStore) ItemRepository { return &itemRepo{api: api} }

func (r *itemRepo) List(ctx context.Context) ([]model.Item, error) {
	var items []model.Item
	if err := r.api.Do(ctx, http.MethodGet, "/transactions", nil, &items); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []model.Item{}
	}
	return items, nil
}

func (r *itemRepo) Create(ctx context.Context, item model.Item) (*model.Item, error) {
	item.ID = 0
	var created model.Item
	if err := r.api.Do(ctx, http.MethodPost, "/transactions", item, &created); err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}
	return &created, nil
}

func (r *itemRepo) Update(ctx context.Context, id int64, item model.Item) (*model.Item, error) {
	item.ID = 0
	var updated model.Item
	if err := r.api.Do(ctx, http.MethodPut, fmt.Sprintf("/transactions/%d", id), item, &updated); err != nil {
		return nil, fmt.Errorf("update item %d: %w", id, err)
	}
	if updated.ID == 0 {
		updated.ID = id
	}
	return &updated, nil
}

func (r *itemRepo) Delete(ctx context.Context, id int64) error {
	if err := r.api.Do(ctx, http.MethodDelete, fmt.Sprintf("/transactions/%d", id), nil, nil); err != nil {
		return fmt.Errorf("delete item %d: %w", id, err)
	}
	return nil
}
