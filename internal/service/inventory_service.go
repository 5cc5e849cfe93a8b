package service

import (
	"context"

	"stockportal/internal/dto"
	"stockportal/internal/infra"
	"stockportal/internal/model"
	"stockportal/internal/notify"
	"stockportal/internal/repository"
	"stockportal/internal/store"
	"stockportal/internal/view"

	"github.com/rs/zerolog/log"
)

const (
	MsgItemAdded        = "Item successfully added!"
	MsgItemUpdated      = "Item successfully updated!"
	MsgItemDeleted      = "Item successfully deleted!"
	MsgItemAddFailed    = "Failed to add item. Please try again."
	MsgItemUpdateFailed = "Failed to update item. Please try again."
	MsgItemDeleteFailed = "Failed to delete item. Please try again."

	MsgSupplierAdded        = "Supplier successfully added!"
	MsgSupplierUpdated      = "Supplier successfully updated!"
	MsgSupplierDeleted      = "Supplier successfully deleted!"
	MsgSupplierAddFailed    = "Failed to add supplier. Please try again."
	MsgSupplierUpdateFailed = "Failed to update supplier. Please try again."
	MsgSupplierDeleteFailed = "Failed to delete supplier. Please try again."

	MsgRefreshFailed = "Failed to fetch items. Please try again."
)

// RedirectHome is where the item pages send the user after create and delete.
const RedirectHome = "/"

// Notifier receives the outcome of every mutation. *notify.Feed satisfies it.
type Notifier interface {
	Notify(sev notify.Severity, msg string) notify.Notification
}

// Cache is the part of the collection cache the services need.
type Cache interface {
	Snapshot() store.Snapshot
	RefreshAll(ctx context.Context) error
}

// Outcome is what a mutation reports back to the caller. A refresh failure
// after a successful mutation is carried in RefreshErr; the mutation itself
// still succeeded.
type Outcome struct {
	Notification notify.Notification `json:"notification"`
	Redirect     string              `json:"redirect,omitempty"`
	Item         *view.ItemRow       `json:"item,omitempty"`
	Supplier     *model.Supplier     `json:"supplier,omitempty"`
	RefreshErr   error               `json:"-"`
}

// InventoryService runs create/update/delete against the inventory API. A
// success triggers a full cache refresh and a success notification; a failure
// leaves the cache untouched and emits an error notification. Failed calls
// return both the outcome and the error.
type InventoryService interface {
	CreateItem(ctx context.Context, req dto.ItemRequest) (*Outcome, error)
	UpdateItem(ctx context.Context, id int64, req dto.ItemRequest) (*Outcome, error)
	DeleteItem(ctx context.Context, id int64) (*Outcome, error)
	CreateSupplier(ctx context.Context, req dto.SupplierRequest) (*Outcome, error)
	UpdateSupplier(ctx context.Context, id int64, req dto.SupplierRequest) (*Outcome, error)
	DeleteSupplier(ctx context.Context, id int64) (*Outcome, error)
}

type inventoryService struct {
	items     repository.ItemRepository
	suppliers repository.SupplierRepository
	cache     Cache
	notifier  Notifier
	metrics   *infra.Metrics
}

func NewInventoryService(
	items repository.ItemRepository,
	suppliers repository.SupplierRepository,
	cache Cache,
	notifier Notifier,
	metrics *infra.Metrics,
) InventoryService {
	return &inventoryService{items: items, suppliers: suppliers, cache: cache, notifier: notifier, metrics: metrics}
}

// ── Items ────────────────────────────────────────────────────────────────────

func (s *inventoryService) CreateItem(ctx context.Context, req dto.ItemRequest) (*Outcome, error) {
	it, err := req.ToModel()
	if err == nil {
		var created *model.Item
		created, err = s.items.Create(ctx, it)
		if err == nil {
			it = *created
		}
	}
	if err != nil {
		return s.fail("create_item", MsgItemAddFailed, err)
	}

	out := s.succeed(ctx, "create_item", MsgItemAdded)
	row := view.NewItemRow(it)
	out.Item = &row
	out.Redirect = RedirectHome
	return out, nil
}

func (s *inventoryService) UpdateItem(ctx context.Context, id int64, req dto.ItemRequest) (*Outcome, error) {
	it, err := req.ToModel()
	if err == nil {
		var updated *model.Item
		updated, err = s.items.Update(ctx, id, it)
		if err == nil {
			it = *updated
		}
	}
	if err != nil {
		return s.fail("update_item", MsgItemUpdateFailed, err)
	}

	out := s.succeed(ctx, "update_item", MsgItemUpdated)
	row := view.NewItemRow(it)
	out.Item = &row
	return out, nil
}

func (s *inventoryService) DeleteItem(ctx context.Context, id int64) (*Outcome, error) {
	if err := s.items.Delete(ctx, id); err != nil {
		return s.fail("delete_item", MsgItemDeleteFailed, err)
	}
	out := s.succeed(ctx, "delete_item", MsgItemDeleted)
	out.Redirect = RedirectHome
	return out, nil
}

// ── Suppliers ────────────────────────────────────────────────────────────────

func (s *inventoryService) CreateSupplier(ctx context.Context, req dto.SupplierRequest) (*Outcome, error) {
	created, err := s.suppliers.Create(ctx, req.ToModel())
	if err != nil {
		return s.fail("create_supplier", MsgSupplierAddFailed, err)
	}
	out := s.succeed(ctx, "create_supplier", MsgSupplierAdded)
	out.Supplier = created
	return out, nil
}

func (s *inventoryService) UpdateSupplier(ctx context.Context, id int64, req dto.SupplierRequest) (*Outcome, error) {
	updated, err := s.suppliers.Update(ctx, id, req.ToModel())
	if err != nil {
		return s.fail("update_supplier", MsgSupplierUpdateFailed, err)
	}
	out := s.succeed(ctx, "update_supplier", MsgSupplierUpdated)
	out.Supplier = updated
	return out, nil
}

// DeleteSupplier does not touch items that reference the supplier; their
// supplier_id is left dangling.
func (s *inventoryService) DeleteSupplier(ctx context.Context, id int64) (*Outcome, error) {
	if err := s.suppliers.Delete(ctx, id); err != nil {
		return s.fail("delete_supplier", MsgSupplierDeleteFailed, err)
	}
	return s.succeed(ctx, "delete_supplier", MsgSupplierDeleted), nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

func (s *inventoryService) succeed(ctx context.Context, op, msg string) *Outcome {
	s.metrics.ObserveMutation(op, nil)

	out := &Outcome{}
	if err := s.cache.RefreshAll(ctx); err != nil {
		log.Error().Err(err).Str("operation", op).Msg("refresh after mutation failed")
		s.notifier.Notify(notify.Error, MsgRefreshFailed)
		out.RefreshErr = err
	}
	out.Notification = s.notifier.Notify(notify.Success, msg)
	return out
}

func (s *inventoryService) fail(op, msg string, err error) (*Outcome, error) {
	s.metrics.ObserveMutation(op, err)
	log.Error().Err(err).Str("operation", op).Msg("mutation failed")
	return &Outcome{Notification: s.notifier.Notify(notify.Error, msg)}, err
}
