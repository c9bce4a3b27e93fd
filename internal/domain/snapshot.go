package domain

import "time"

// MarketSnapshot is the latest quote state for one instrument. At most one
// row exists per instrument; refresh replaces the row wholesale.
type MarketSnapshot struct {
	InstrumentID  int64     // Instrument this snapshot belongs to
	CMP           float64   // Current market price
	PrevClose     float64   // Previous day's close
	Change        float64   // CMP - PrevClose
	ChangePercent float64   // Change / PrevClose * 100
	High52        float64   // 52-week high
	Low52         float64   // 52-week low
	Volume        int64     // Daily traded volume
	DMA20         float64   // 20-day moving average of closes (0 if no history)
	DMADistance   float64   // Signed % distance of CMP from DMA20 (0 if DMA20 is 0)
	UpdatedAt     time.Time // Time of the last refresh
}
