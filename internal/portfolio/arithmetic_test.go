package portfolio

import (
	"testing"
	"time"

	"etfTracker/internal/domain"
)

func lot(price float64, qty int64, daysAgo int) *domain.Holding {
	return &domain.Holding{
		BuyDate:  time.Now().AddDate(0, 0, -daysAgo),
		BuyPrice: price,
		Quantity: qty,
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	return diff < 0.0001 && diff > -0.0001
}

func TestAveragePrice(t *testing.T) {
	tests := []struct {
		name     string
		lots     []*domain.Holding
		expected float64
	}{
		{
			name:     "empty group",
			lots:     nil,
			expected: 0,
		},
		{
			name:     "single lot equals its price",
			lots:     []*domain.Holding{lot(123.45, 7, 1)},
			expected: 123.45,
		},
		{
			name:     "quantity weighted",
			lots:     []*domain.Holding{lot(100, 10, 3), lot(110, 30, 2)},
			expected: 107.5, // (100*10 + 110*30) / 40
		},
		{
			name:     "zero total quantity",
			lots:     []*domain.Holding{lot(100, 0, 1)},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AveragePrice(tt.lots)
			if !almostEqual(got, tt.expected) {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

func TestAveragePrice_Bounds(t *testing.T) {
	lots := []*domain.Holding{lot(90, 5, 5), lot(100, 2, 4), lot(120, 11, 3)}
	avg := AveragePrice(lots)
	if avg < 90 || avg > 120 {
		t.Errorf("Average %f outside [min, max] price bounds", avg)
	}
}

func TestNotionalValues(t *testing.T) {
	lots := []*domain.Holding{lot(100, 10, 2), lot(200, 5, 1)}

	if got := InvestedValue(lots); !almostEqual(got, 2000) {
		t.Errorf("Expected invested 2000, got %f", got)
	}
	if got := CurrentValue(lots, 150); !almostEqual(got, 2250) {
		t.Errorf("Expected current 2250, got %f", got)
	}
	if got := NotionalPL(lots, 150); !almostEqual(got, 250) {
		t.Errorf("Expected notional P/L 250, got %f", got)
	}
}

func TestNotionalPLPercent(t *testing.T) {
	if got := NotionalPLPercent(100, 112); !almostEqual(got, 12) {
		t.Errorf("Expected 12%%, got %f", got)
	}
	if got := NotionalPLPercent(0, 112); got != 0 {
		t.Errorf("Expected 0 for zero buy price, got %f", got)
	}
}
