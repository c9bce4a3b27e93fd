package domain

import "time"

// Trade is an immutable historical record created when a lot (or portion of
// one) is liquidated. Profit, ProfitPercent and HoldingDays are computed at
// creation time and stored, never recomputed.
type Trade struct {
	ID            int64     // Unique identifier (from DB)
	InstrumentID  int64     // Instrument the lot belonged to
	BuyDate       time.Time // Purchase date of the consumed lot
	SellDate      time.Time // Date of sale (expected >= BuyDate, not enforced)
	BuyPrice      float64   // Purchase price per unit
	SellPrice     float64   // Sale price per unit
	Quantity      int64     // Units sold
	Profit        float64   // (SellPrice - BuyPrice) * Quantity
	ProfitPercent float64   // (SellPrice - BuyPrice) / BuyPrice * 100
	HoldingDays   int       // floor(SellDate - BuyDate in days)
	CreatedAt     time.Time // Timestamp when the record was created
}
