package domain

import "time"

// Instrument identifies a tradable ETF in the tracked universe.
type Instrument struct {
	ID             int64     // Unique identifier (from DB)
	Symbol         string    // Unique display symbol (e.g., "NIFTYBEES")
	ProviderSymbol string    // Symbol alias used by the market-data provider
	Name           string    // Display name
	Category       string    // Grouping label (e.g., "Index", "Gold")
	CreatedAt      time.Time // Timestamp when the instrument was added
}
