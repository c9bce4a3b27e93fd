package portfolio

import (
	"fmt"

	"etfTracker/internal/domain"
	"etfTracker/internal/ports"
)

// TargetPrice computes the minimum acceptable sell price for a pooled
// position: the higher of the percentage target and the absolute
// minimum-profit floor. For small positions the absolute floor dominates,
// guaranteeing both a minimum percentage return and a minimum currency
// profit regardless of position size.
func TargetPrice(avg float64, qty int64, s domain.Settings) (float64, error) {
	if qty <= 0 {
		return 0, fmt.Errorf("quantity must be positive, got %d: %w", qty, ports.ErrInvalidRequest)
	}
	byPercent := avg * (1 + s.ProfitTargetPercent/100)
	byMinProfit := (avg*float64(qty) + s.MinProfitAmount) / float64(qty)
	if byMinProfit > byPercent {
		return byMinProfit, nil
	}
	return byPercent, nil
}

// DynamicTargetPercent throttles the base profit-target percentage as
// capital utilization grows: the less cash remains, the smaller the margin
// accepted to free capital faster. Thresholds and multipliers are fixed
// policy constants; comparisons are strict, so exactly 90% used does not
// trigger the >90 branch.
func DynamicTargetPercent(base, usedPercent float64) float64 {
	switch {
	case usedPercent > 90:
		return base * 0.52
	case usedPercent > 80:
		return base * 0.67
	case usedPercent > 70:
		return base * 0.83
	default:
		return base
	}
}
