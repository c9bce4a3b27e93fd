package portfolio

import (
	"errors"
	"testing"

	"etfTracker/internal/domain"
	"etfTracker/internal/ports"
)

func TestTargetPrice(t *testing.T) {
	settings := domain.Settings{ProfitTargetPercent: 6, MinProfitAmount: 500}

	tests := []struct {
		name     string
		avg      float64
		qty      int64
		expected float64
	}{
		{
			// 6% of a large position clears the floor: 100*1.06 = 106,
			// floor gives (100*1000+500)/1000 = 100.5.
			name:     "percentage target dominates for large positions",
			avg:      100,
			qty:      1000,
			expected: 106,
		},
		{
			// Small position: floor (100*2+500)/2 = 350 beats 106.
			name:     "absolute floor dominates for small positions",
			avg:      100,
			qty:      2,
			expected: 350,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TargetPrice(tt.avg, tt.qty, settings)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !almostEqual(got, tt.expected) {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
			if got < tt.avg {
				t.Errorf("Target %f below average %f", got, tt.avg)
			}
		})
	}
}

func TestTargetPrice_ZeroQuantity(t *testing.T) {
	_, err := TargetPrice(100, 0, domain.Settings{ProfitTargetPercent: 6, MinProfitAmount: 500})
	if err == nil {
		t.Fatal("Expected error for zero quantity")
	}
	if !errors.Is(err, ports.ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest, got %v", err)
	}
}

func TestDynamicTargetPercent(t *testing.T) {
	tests := []struct {
		name     string
		base     float64
		usedPct  float64
		expected float64
	}{
		{name: "over 90 percent used", base: 6, usedPct: 91, expected: 3.12},
		{name: "exactly 90 falls to 80 branch", base: 6, usedPct: 90, expected: 4.02},
		{name: "over 80 percent used", base: 6, usedPct: 85, expected: 4.02},
		{name: "exactly 80 falls to 70 branch", base: 6, usedPct: 80, expected: 4.98},
		{name: "over 70 percent used", base: 6, usedPct: 75, expected: 4.98},
		{name: "half used stays on base", base: 6, usedPct: 50, expected: 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DynamicTargetPercent(tt.base, tt.usedPct)
			if !almostEqual(got, tt.expected) {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}
