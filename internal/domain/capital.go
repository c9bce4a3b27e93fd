package domain

import "time"

// CapitalTransaction is a signed, append-only adjustment to the capital base.
type CapitalTransaction struct {
	ID        int64         // Unique identifier (from DB)
	Type      CapitalTxType // ADD or WITHDRAW
	Amount    float64       // Always positive; Type carries the sign
	Date      time.Time     // Date of the adjustment
	Note      string        // Optional free-form note
	CreatedAt time.Time     // Timestamp when the record was created
}

// CapitalSummary is a point-in-time snapshot of capital usage, recomputed
// from the full transaction/lot/trade history on every read.
type CapitalSummary struct {
	BaseCapital      float64 // Configured base capital
	NetCapital       float64 // Base + additions - withdrawals
	InvestedValue    float64 // Sum of invested value over all open lots
	RealizedProfit   float64 // Sum of profit over all realized trades
	AvailableCapital float64 // Net - invested + realized
	UsedPercent      float64 // Invested / net * 100 (0 if net <= 0)
}
