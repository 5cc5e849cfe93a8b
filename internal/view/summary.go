package view

import "stockportal/internal/model"

// Summary backs the dashboard widget.
type Summary struct {
	Total       int `json:"total"`
	Available   int `json:"available"`
	LowStock    int `json:"low_stock"`
	Unavailable int `json:"unavailable"`
}

func Summarize(items []model.Item) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		switch it.StockStatus() {
		case model.StockAvailable:
			s.Available++
		case model.StockLow:
			s.LowStock++
		default:
			s.Unavailable++
		}
	}
	return s
}
