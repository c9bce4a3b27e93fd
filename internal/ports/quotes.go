package ports

import "context"

// Quote is the per-instrument data returned by the market-data provider.
type Quote struct {
	Symbol        string  // Provider symbol the quote was fetched for
	Price         float64 // Current market price
	PrevClose     float64 // Previous day's close
	Volume        int64   // Daily traded volume
	High52        float64 // 52-week high
	Low52         float64 // 52-week low
	ChangePercent float64 // Day change percent as reported by the provider
}

// QuoteProvider defines the interface for fetching market data.
// This abstraction decouples the portfolio logic from any specific provider.
type QuoteProvider interface {
	// GetQuote retrieves the current quote for a provider symbol.
	// Returns ErrQuoteNotFound (wrapped) when the provider has no data.
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
	// GetDailyCloses retrieves up to limit historical daily closing prices
	// for a provider symbol, most recent last. Fewer than limit closes may
	// be returned when history is short; an empty slice is not an error.
	GetDailyCloses(ctx context.Context, symbol string, limit int) ([]float64, error)
}
