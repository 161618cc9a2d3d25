package service

import (
	"math"

	"go-vendsync/internal/model"
)

// LowStockThreshold marks a slot as running low when its quantity drops
// under this value.
const LowStockThreshold = 3

// Stats are the derived catalog metrics served with the product list.
// AvgPrice is in major currency units, rounded to cents.
type Stats struct {
	TotalProducts int     `json:"totalProducts"`
	AvgPrice      float64 `json:"avgPrice"`
	LowStock      int64   `json:"lowStock"`
}

// ComputeStats derives the metrics from stored products plus the low-stock
// count. An empty catalog yields AvgPrice 0, no division by zero.
func ComputeStats(products []model.Product, lowStock int64) Stats {
	stats := Stats{
		TotalProducts: len(products),
		LowStock:      lowStock,
	}
	if len(products) == 0 {
		return stats
	}

	var sum int64
	for _, p := range products {
		sum += p.Cost
	}
	avg := float64(sum) / float64(len(products)) / 100.0
	stats.AvgPrice = math.Round(avg*100) / 100

	return stats
}
