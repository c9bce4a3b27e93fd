package handlers

import "fmt"

// Presentation conventions: currency as plain 2-decimal amounts, percentages
// with an explicit sign and 2 decimals.

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%+.2f", v)
}
