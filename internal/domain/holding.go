package domain

import "time"

// Holding represents one purchase lot: a fixed quantity bought at a fixed
// price on a given date. Lots are mutable (data-entry corrections) and are
// consumed, wholly or partially, by sells.
type Holding struct {
	ID           int64     // Unique identifier (from DB)
	InstrumentID int64     // Instrument this lot belongs to
	BuyDate      time.Time // Date of purchase
	BuyPrice     float64   // Purchase price per unit (> 0)
	Quantity     int64     // Units purchased (integer > 0)
	CreatedAt    time.Time // Timestamp when the record was created
}

// InvestedValue is the capital locked in this lot.
func (h *Holding) InvestedValue() float64 {
	return h.BuyPrice * float64(h.Quantity)
}

// CurrentValue is the lot's market value at the given price.
func (h *Holding) CurrentValue(cmp float64) float64 {
	return cmp * float64(h.Quantity)
}
