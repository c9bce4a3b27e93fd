package portfolio

import (
	"sort"

	"etfTracker/internal/domain"
)

type yearMonth struct {
	year  int
	month int
}

// MonthlySummaries groups realized profit by sell month and fresh investment
// by buy month into per-month records, sorted ascending by (year, month).
func MonthlySummaries(trades []*domain.Trade, holdings []*domain.Holding) []domain.MonthlySummary {
	buckets := make(map[yearMonth]*domain.MonthlySummary)

	get := func(y int, m int) *domain.MonthlySummary {
		key := yearMonth{year: y, month: m}
		if s, ok := buckets[key]; ok {
			return s
		}
		s := &domain.MonthlySummary{Year: y, Month: m}
		buckets[key] = s
		return s
	}

	for _, t := range trades {
		s := get(t.SellDate.Year(), int(t.SellDate.Month()))
		s.Profit += t.Profit
	}
	for _, h := range holdings {
		s := get(h.BuyDate.Year(), int(h.BuyDate.Month()))
		s.Invested += h.InvestedValue()
	}

	out := make([]domain.MonthlySummary, 0, len(buckets))
	for _, s := range buckets {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Month < out[j].Month
	})
	return out
}
