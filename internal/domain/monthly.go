package domain

// MonthlySummary aggregates realized profit and fresh investment for one
// calendar month, keyed by the structured (Year, Month) pair rather than a
// formatted string so ordering is well-defined.
type MonthlySummary struct {
	Year     int
	Month    int // 1-12
	Profit   float64
	Invested float64
}
