// seed loads demo suppliers and items into the inventory API.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"os"
	"time"

	"stockportal/internal/config"
	"stockportal/internal/infra"
	"stockportal/internal/model"
	"stockportal/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type demoItem struct {
	name     string
	category string
	quantity int
	price    string
	vat      bool
	supplier int // index into demoSuppliers, -1 for none
}

var demoSuppliers = []model.Supplier{
	{Name: "Silph Co.", ContactPerson: "Mr. Fuji", ContactNumber: "+81-555-0100"},
	{Name: "Devon Corporation", ContactPerson: "Mr. Stone", ContactNumber: "+81-555-0199"},
	{Name: "Celadon Dept. Store", ContactPerson: "Erika", ContactNumber: "5550142"},
}

var demoItems = []demoItem{
	{"Poké Ball", "Poké Balls", 120, "2.00", true, 0},
	{"Great Ball", "Poké Balls", 8, "6.00", true, 0},
	{"Master Ball", "Poké Balls", 0, "999.99", false, 0},
	{"Potion", "Healing Items", 45, "3.00", true, 2},
	{"Hyper Potion", "Healing Items", 4, "12.00", true, 2},
	{"Antidote", "Status Items", 15, "1.00", false, 2},
	{"X Attack", "Battle Items", 9, "5.00", true, 1},
	{"TM24 Thunderbolt", "TMs & HMs", 1, "30.00", true, 1},
	{"Oran Berry", "Berries", 60, "0.50", false, -1},
	{"Fire Stone", "Evolution Items", 3, "21.00", true, 1},
	{"Bicycle", "Key Items", 0, "1000000.00", false, -1},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	client := infra.NewInventoryAPIClient(infra.InventoryAPIConfig{
		BaseURL:  cfg.InventoryAPIURL,
		Username: cfg.InventoryAPIUsername,
		Password: cfg.InventoryAPIPassword,
		Timeout:  cfg.UpstreamTimeout(),
	}, nil, nil)
	suppliers := repository.NewSupplierRepository(client)
	items := repository.NewItemRepository(client)

	ctx := context.Background()

	ids := make([]int64, len(demoSuppliers))
	for i, s := range demoSuppliers {
		created, err := suppliers.Create(ctx, s)
		if err != nil {
			log.Fatal().Err(err).Str("supplier", s.Name).Msg("seed supplier failed")
		}
		ids[i] = created.ID
	}

	now := time.Now()
	today := model.NewDate(now.Year(), now.Month(), now.Day())
	for _, d := range demoItems {
		it := model.Item{
			ProductName: d.name,
			Category:    d.category,
			Quantity:    d.quantity,
			Price:       decimal.RequireFromString(d.price),
			Date:        today,
			VAT:         d.vat,
		}
		if d.supplier >= 0 {
			id := ids[d.supplier]
			it.SupplierID = &id
		}
		if _, err := items.Create(ctx, it); err != nil {
			log.Fatal().Err(err).Str("item", d.name).Msg("seed item failed")
		}
	}

	log.Info().Int("suppliers", len(demoSuppliers)).Int("items", len(demoItems)).Msg("demo data loaded")
}
