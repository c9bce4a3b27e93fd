package portfolio

import "etfTracker/internal/domain"

// AveragePrice computes the quantity-weighted mean purchase price over a
// group of lots for one instrument. Returns 0 for an empty group or when
// total quantity is zero.
func AveragePrice(lots []*domain.Holding) float64 {
	var totalCost float64
	var totalQty int64
	for _, lot := range lots {
		totalCost += lot.BuyPrice * float64(lot.Quantity)
		totalQty += lot.Quantity
	}
	if totalQty == 0 {
		return 0
	}
	return totalCost / float64(totalQty)
}

// TotalQuantity sums the units across a group of lots.
func TotalQuantity(lots []*domain.Holding) int64 {
	var total int64
	for _, lot := range lots {
		total += lot.Quantity
	}
	return total
}

// InvestedValue sums the capital locked across a group of lots.
func InvestedValue(lots []*domain.Holding) float64 {
	var total float64
	for _, lot := range lots {
		total += lot.InvestedValue()
	}
	return total
}

// CurrentValue sums the market value of a group of lots at the given price.
func CurrentValue(lots []*domain.Holding, cmp float64) float64 {
	var total float64
	for _, lot := range lots {
		total += lot.CurrentValue(cmp)
	}
	return total
}

// NotionalPL is the unrealized profit/loss of a lot group at the given price.
func NotionalPL(lots []*domain.Holding, cmp float64) float64 {
	return CurrentValue(lots, cmp) - InvestedValue(lots)
}

// NotionalPLPercent is the unrealized return of a single price move.
// Returns 0 when the buy price is 0.
func NotionalPLPercent(buyPrice, cmp float64) float64 {
	if buyPrice == 0 {
		return 0
	}
	return (cmp - buyPrice) / buyPrice * 100
}
