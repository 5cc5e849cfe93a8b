package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"stockportal/internal/infra"
	"stockportal/internal/model"
	"stockportal/internal/notify"
	"stockportal/internal/view"

	"github.com/rs/zerolog/log"
)

var ErrItemNotFound = errors.New("item not found")

// CategoryList backs the category selects: the fixed set for forms and the
// categories actually present for the table filter.
type CategoryList struct {
	All     []string `json:"all"`
	Present []string `json:"present"`
}

// CatalogService answers reads from the cached snapshot. Nothing here calls
// the inventory API except Refresh.
type CatalogService interface {
	ListItems(q view.ItemsQuery) view.ItemsView
	GetItem(id int64) (*view.ItemDetail, error)
	ListSuppliers(q view.SuppliersQuery) view.SuppliersView
	Summary() view.Summary
	Categories() CategoryList
	StockReport(q view.ItemsQuery) infra.StockReport
	Refresh(ctx context.Context) error
	LastRefreshed() (time.Time, bool)
}

type catalogService struct {
	cache    Cache
	notifier Notifier
	now      func() time.Time
}

func NewCatalogService(cache Cache, notifier Notifier) CatalogService {
	return &catalogService{cache: cache, notifier: notifier, now: time.Now}
}

func (s *catalogService) ListItems(q view.ItemsQuery) view.ItemsView {
	snap := s.cache.Snapshot()
	return view.ComputeItems(snap.Items, q, snap.ItemsLoaded)
}

func (s *catalogService) GetItem(id int64) (*view.ItemDetail, error) {
	snap := s.cache.Snapshot()
	it, ok := view.FindItem(snap.Items, id)
	if !ok {
		return nil, ErrItemNotFound
	}
	d := view.DescribeItem(it, snap.Suppliers)
	return &d, nil
}

func (s *catalogService) ListSuppliers(q view.SuppliersQuery) view.SuppliersView {
	snap := s.cache.Snapshot()
	return view.ComputeSuppliers(snap.Suppliers, snap.Items, q, snap.SuppliersLoaded)
}

func (s *catalogService) Summary() view.Summary {
	return view.Summarize(s.cache.Snapshot().Items)
}

func (s *catalogService) Categories() CategoryList {
	return CategoryList{
		All:     append([]string(nil), model.Categories...),
		Present: view.Categories(s.cache.Snapshot().Items),
	}
}

// StockReport renders every row matching q, ignoring paging.
func (s *catalogService) StockReport(q view.ItemsQuery) infra.StockReport {
	snap := s.cache.Snapshot()
	matched := view.FilterAndSortItems(snap.Items, q)

	names := make(map[int64]string, len(snap.Suppliers))
	for _, sup := range snap.Suppliers {
		names[sup.ID] = sup.Name
	}

	rows := make([]infra.ReportRow, len(matched))
	for i, it := range matched {
		supplier := ""
		if it.SupplierID != nil {
			supplier = names[*it.SupplierID]
		}
		rows[i] = infra.ReportRow{
			ID:          it.ID,
			ProductName: it.ProductName,
			Category:    it.Category,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Status:      string(it.StockStatus()),
			Date:        it.Date.String(),
			VAT:         it.VAT,
			Supplier:    supplier,
		}
	}

	sum := view.Summarize(matched)
	return infra.StockReport{
		Title:       "Stock Report",
		GeneratedAt: s.now(),
		Filters:     describeQuery(q),
		Rows:        rows,
		Totals: infra.ReportTotals{
			Total:       sum.Total,
			Available:   sum.Available,
			LowStock:    sum.LowStock,
			Unavailable: sum.Unavailable,
		},
	}
}

// Refresh reloads both collections on demand. Failures are reported to the
// feed like any other failed fetch.
func (s *catalogService) Refresh(ctx context.Context) error {
	if err := s.cache.RefreshAll(ctx); err != nil {
		log.Error().Err(err).Msg("manual refresh failed")
		s.notifier.Notify(notify.Error, MsgRefreshFailed)
		return err
	}
	return nil
}

func (s *catalogService) LastRefreshed() (time.Time, bool) {
	snap := s.cache.Snapshot()
	return snap.RefreshedAt, snap.Loaded()
}

func describeQuery(q view.ItemsQuery) []string {
	var out []string
	if q.Search != "" {
		out = append(out, "Search: "+q.Search)
	}
	if q.Category != "" {
		out = append(out, "Category: "+q.Category)
	}
	if flags := q.Status.Flags(); len(flags) > 0 {
		names := make([]string, len(flags))
		for i, f := range flags {
			names[i] = string(f)
		}
		out = append(out, "Status: "+strings.Join(names, " / "))
	}
	sort := q.Sort
	if sort == "" {
		sort = view.SortDesc
	}
	out = append(out, "Date: "+string(sort))
	return out
}
