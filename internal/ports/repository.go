package ports

import (
	"context"

	"etfTracker/internal/domain"
)

// InstrumentRepository defines the interface for the tracked ETF universe.
type InstrumentRepository interface {
	// CreateInstrument saves a new instrument and returns its assigned ID.
	// Returns ErrDuplicateEntry if the symbol already exists.
	CreateInstrument(ctx context.Context, ins *domain.Instrument) (int64, error)
	// FindInstrumentByID retrieves an instrument by ID.
	// Returns nil, nil if not found.
	FindInstrumentByID(ctx context.Context, id int64) (*domain.Instrument, error)
	// FindInstrumentBySymbol retrieves an instrument by its unique symbol.
	// Returns nil, nil if not found.
	FindInstrumentBySymbol(ctx context.Context, symbol string) (*domain.Instrument, error)
	// FindAllInstruments retrieves all instruments ordered by symbol.
	FindAllInstruments(ctx context.Context) ([]*domain.Instrument, error)
	// DeleteInstrument removes an instrument. Deletion cascades to its
	// market snapshot.
	DeleteInstrument(ctx context.Context, id int64) error
}

// HoldingRepository defines the interface for storing and retrieving purchase lots.
type HoldingRepository interface {
	// CreateHolding saves a new lot and returns its assigned ID.
	CreateHolding(ctx context.Context, h *domain.Holding) (int64, error)
	// UpdateHolding replaces a lot's mutable fields by ID.
	UpdateHolding(ctx context.Context, h *domain.Holding) error
	// DeleteHolding removes a lot by ID.
	DeleteHolding(ctx context.Context, id int64) error
	// FindHoldingByID retrieves a lot by ID. Returns nil, nil if not found.
	FindHoldingByID(ctx context.Context, id int64) (*domain.Holding, error)
	// FindHoldingsByInstrument retrieves all lots for an instrument,
	// ordered by buy date ascending.
	FindHoldingsByInstrument(ctx context.Context, instrumentID int64) ([]*domain.Holding, error)
	// FindAllHoldings retrieves all open lots, ordered by buy date ascending.
	FindAllHoldings(ctx context.Context) ([]*domain.Holding, error)
}

// TradeRepository defines the interface for immutable realized-trade records.
type TradeRepository interface {
	// CreateTrade saves a new trade record and returns its assigned ID.
	CreateTrade(ctx context.Context, t *domain.Trade) (int64, error)
	// FindTradesByInstrument retrieves trades for an instrument, newest sell first.
	FindTradesByInstrument(ctx context.Context, instrumentID int64) ([]*domain.Trade, error)
	// FindAllTrades retrieves all trades, newest sell first.
	FindAllTrades(ctx context.Context) ([]*domain.Trade, error)
}

// CapitalRepository defines the interface for the append-only capital ledger.
type CapitalRepository interface {
	// CreateCapitalTransaction appends an adjustment and returns its assigned ID.
	CreateCapitalTransaction(ctx context.Context, tx *domain.CapitalTransaction) (int64, error)
	// FindAllCapitalTransactions retrieves all adjustments, oldest first.
	FindAllCapitalTransactions(ctx context.Context) ([]*domain.CapitalTransaction, error)
}

// SettingsRepository defines the interface for the key/value settings table.
type SettingsRepository interface {
	// GetSettings returns all settings rows as a key -> raw string value map.
	GetSettings(ctx context.Context) (map[string]string, error)
	// SetSetting upserts one settings row.
	SetSetting(ctx context.Context, key, value string) error
}

// ActivityRepository defines the interface for per-date buy/sell counters.
// IncrementActivity must be atomic at the storage layer (upsert-or-increment)
// to avoid lost updates under concurrent same-day writes.
type ActivityRepository interface {
	// IncrementActivity increments the counter for kind on the given date
	// ("YYYY-MM-DD"), creating the row on first use.
	IncrementActivity(ctx context.Context, date string, kind domain.ActionKind) error
	// FindActivity retrieves the counters for a date.
	// Returns a zero-count record (not nil) when no row exists.
	FindActivity(ctx context.Context, date string) (*domain.DailyActivity, error)
}

// SnapshotRepository defines the interface for per-instrument market snapshots.
type SnapshotRepository interface {
	// UpsertSnapshot replaces the snapshot row for the instrument wholesale.
	UpsertSnapshot(ctx context.Context, snap *domain.MarketSnapshot) error
	// FindSnapshot retrieves the snapshot for an instrument.
	// Returns nil, nil if no refresh has happened yet.
	FindSnapshot(ctx context.Context, instrumentID int64) (*domain.MarketSnapshot, error)
	// FindAllSnapshots retrieves all snapshots keyed by instrument ID.
	FindAllSnapshots(ctx context.Context) (map[int64]*domain.MarketSnapshot, error)
}
