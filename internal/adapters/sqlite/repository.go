package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"etfTracker/internal/domain"
	"etfTracker/internal/ports"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Repository implements every repository interface in ports using SQLite.
type Repository struct {
	db     *sql.DB
	logger ports.Logger
}

// Config holds configuration for the SQLite repository.
type Config struct {
	DBPath string
	Logger ports.Logger
}

// NewRepository creates a new SQLite repository instance.
func NewRepository(cfg Config) (*Repository, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for SQLite repository")
	}
	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath = "./data/etf_tracker.db" // Default path
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		err = fmt.Errorf("failed to create data directory '%s': %w", filepath.Dir(dbPath), err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		err = fmt.Errorf("failed to open database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		err = fmt.Errorf("failed to ping database at '%s': %w", dbPath, err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}

	// Single connection keeps the atomic counter upsert and cascade deletes
	// free of SQLITE_BUSY surprises.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	repo := &Repository{db: db, logger: cfg.Logger}

	if err := repo.initializeSchema(context.Background()); err != nil {
		db.Close()
		err = fmt.Errorf("failed to initialize database schema: %w", err)
		cfg.Logger.Error(context.Background(), err, "SQLite repository initialization failed")
		return nil, err
	}
	cfg.Logger.Info(context.Background(), "SQLite database ready", map[string]interface{}{"path": dbPath})

	return repo, nil
}

func (r *Repository) initializeSchema(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS instruments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL UNIQUE,
		provider_symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS holdings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		instrument_id INTEGER NOT NULL REFERENCES instruments(id),
		buy_date TIMESTAMP NOT NULL,
		buy_price REAL NOT NULL,
		quantity INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS trades (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		instrument_id INTEGER NOT NULL REFERENCES instruments(id),
		buy_date TIMESTAMP NOT NULL,
		sell_date TIMESTAMP NOT NULL,
		buy_price REAL NOT NULL,
		sell_price REAL NOT NULL,
		quantity INTEGER NOT NULL,
		profit REAL NOT NULL,
		profit_percent REAL NOT NULL,
		holding_days INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS capital_transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		type TEXT NOT NULL,
		amount REAL NOT NULL,
		tx_date TIMESTAMP NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS daily_activity (
		activity_date TEXT PRIMARY KEY,
		buy_count INTEGER NOT NULL DEFAULT 0,
		sell_count INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS market_snapshots (
		instrument_id INTEGER PRIMARY KEY REFERENCES instruments(id) ON DELETE CASCADE,
		cmp REAL NOT NULL,
		prev_close REAL NOT NULL,
		change REAL NOT NULL,
		change_percent REAL NOT NULL,
		high_52 REAL NOT NULL,
		low_52 REAL NOT NULL,
		volume INTEGER NOT NULL,
		dma_20 REAL NOT NULL,
		dma_distance REAL NOT NULL,
		updated_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holdings_instrument_buy_date ON holdings (instrument_id, buy_date);
	CREATE INDEX IF NOT EXISTS idx_trades_instrument_sell_date ON trades (instrument_id, sell_date);
	`
	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to execute schema initialization: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	if r.db != nil {
		r.logger.Info(context.Background(), "Closing SQLite database connection")
		return r.db.Close()
	}
	return nil
}

// --- InstrumentRepository Implementation ---

// CreateInstrument saves a new instrument and returns its assigned ID.
func (r *Repository) CreateInstrument(ctx context.Context, ins *domain.Instrument) (int64, error) {
	const query = `
	INSERT INTO instruments (symbol, provider_symbol, name, category, created_at)
	VALUES (?, ?, ?, ?, ?)`

	if ins.CreatedAt.IsZero() {
		ins.CreatedAt = time.Now().UTC()
	}
	result, err := r.db.ExecContext(ctx, query,
		ins.Symbol, ins.ProviderSymbol, ins.Name, ins.Category, ins.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return 0, fmt.Errorf("instrument symbol %s: %w", ins.Symbol, ports.ErrDuplicateEntry)
		}
		return 0, fmt.Errorf("failed to insert instrument %s: %w", ins.Symbol, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for instrument %s: %w", ins.Symbol, err)
	}
	ins.ID = id
	r.logger.Debug(ctx, "Instrument created", map[string]interface{}{"instrumentID": id, "symbol": ins.Symbol})
	return id, nil
}

// FindInstrumentByID retrieves an instrument by ID.
func (r *Repository) FindInstrumentByID(ctx context.Context, id int64) (*domain.Instrument, error) {
	const query = `
	SELECT id, symbol, provider_symbol, name, category, created_at
	FROM instruments WHERE id = ?`

	ins, err := scanInstrument(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not an error, just not found
		}
		return nil, fmt.Errorf("failed to query instrument by ID %d: %w", id, err)
	}
	return ins, nil
}

// FindInstrumentBySymbol retrieves an instrument by its unique symbol.
func (r *Repository) FindInstrumentBySymbol(ctx context.Context, symbol string) (*domain.Instrument, error) {
	const query = `
	SELECT id, symbol, provider_symbol, name, category, created_at
	FROM instruments WHERE symbol = ?`

	ins, err := scanInstrument(r.db.QueryRowContext(ctx, query, symbol))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query instrument by symbol %s: %w", symbol, err)
	}
	return ins, nil
}

// FindAllInstruments retrieves all instruments ordered by symbol.
func (r *Repository) FindAllInstruments(ctx context.Context) ([]*domain.Instrument, error) {
	const query = `
	SELECT id, symbol, provider_symbol, name, category, created_at
	FROM instruments ORDER BY symbol`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all instruments: %w", err)
	}
	defer rows.Close()

	instruments := make([]*domain.Instrument, 0)
	for rows.Next() {
		ins, err := scanInstrument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instrument: %w", err)
		}
		instruments = append(instruments, ins)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating instrument rows: %w", err)
	}
	return instruments, nil
}

// DeleteInstrument removes an instrument; the FK cascade drops its snapshot.
func (r *Repository) DeleteInstrument(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM instruments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete instrument ID %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for delete instrument ID %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("instrument ID %d: %w", id, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Instrument deleted", map[string]interface{}{"instrumentID": id})
	return nil
}

// --- HoldingRepository Implementation ---

// CreateHolding saves a new lot and returns its assigned ID.
func (r *Repository) CreateHolding(ctx context.Context, h *domain.Holding) (int64, error) {
	const query = `
	INSERT INTO holdings (instrument_id, buy_date, buy_price, quantity, created_at)
	VALUES (?, ?, ?, ?, ?)`

	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	result, err := r.db.ExecContext(ctx, query,
		h.InstrumentID, h.BuyDate, h.BuyPrice, h.Quantity, h.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert holding for instrument %d: %w", h.InstrumentID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for holding: %w", err)
	}
	h.ID = id
	r.logger.Debug(ctx, "Holding created", map[string]interface{}{"holdingID": id, "instrumentID": h.InstrumentID})
	return id, nil
}

// UpdateHolding replaces a lot's mutable fields by ID.
func (r *Repository) UpdateHolding(ctx context.Context, h *domain.Holding) error {
	const query = `
	UPDATE holdings SET buy_date = ?, buy_price = ?, quantity = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, h.BuyDate, h.BuyPrice, h.Quantity, h.ID)
	if err != nil {
		return fmt.Errorf("failed to update holding ID %d: %w", h.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for update holding ID %d: %w", h.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("holding ID %d not found for update: %w", h.ID, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Holding updated", map[string]interface{}{"holdingID": h.ID, "quantity": h.Quantity})
	return nil
}

// DeleteHolding removes a lot by ID.
func (r *Repository) DeleteHolding(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM holdings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding ID %d: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected for delete holding ID %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("holding ID %d: %w", id, ports.ErrNotFound)
	}
	r.logger.Debug(ctx, "Holding deleted", map[string]interface{}{"holdingID": id})
	return nil
}

// FindHoldingByID retrieves a lot by ID.
func (r *Repository) FindHoldingByID(ctx context.Context, id int64) (*domain.Holding, error) {
	const query = `
	SELECT id, instrument_id, buy_date, buy_price, quantity, created_at
	FROM holdings WHERE id = ?`

	h, err := scanHolding(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query holding by ID %d: %w", id, err)
	}
	return h, nil
}

// FindHoldingsByInstrument retrieves all lots for an instrument, oldest buy first.
func (r *Repository) FindHoldingsByInstrument(ctx context.Context, instrumentID int64) ([]*domain.Holding, error) {
	const query = `
	SELECT id, instrument_id, buy_date, buy_price, quantity, created_at
	FROM holdings WHERE instrument_id = ? ORDER BY buy_date ASC, id ASC`

	return r.queryHoldings(ctx, query, instrumentID)
}

// FindAllHoldings retrieves all open lots, oldest buy first.
func (r *Repository) FindAllHoldings(ctx context.Context) ([]*domain.Holding, error) {
	const query = `
	SELECT id, instrument_id, buy_date, buy_price, quantity, created_at
	FROM holdings ORDER BY buy_date ASC, id ASC`

	return r.queryHoldings(ctx, query)
}

func (r *Repository) queryHoldings(ctx context.Context, query string, args ...interface{}) ([]*domain.Holding, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	holdings := make([]*domain.Holding, 0)
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding rows: %w", err)
	}
	return holdings, nil
}

// --- TradeRepository Implementation ---

// CreateTrade saves a new realized trade record and returns its assigned ID.
func (r *Repository) CreateTrade(ctx context.Context, t *domain.Trade) (int64, error) {
	const query = `
	INSERT INTO trades (instrument_id, buy_date, sell_date, buy_price, sell_price,
	                    quantity, profit, profit_percent, holding_days, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	result, err := r.db.ExecContext(ctx, query,
		t.InstrumentID, t.BuyDate, t.SellDate, t.BuyPrice, t.SellPrice,
		t.Quantity, t.Profit, t.ProfitPercent, t.HoldingDays, t.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert trade for instrument %d: %w", t.InstrumentID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for trade: %w", err)
	}
	t.ID = id
	r.logger.Debug(ctx, "Trade created", map[string]interface{}{"tradeID": id, "instrumentID": t.InstrumentID, "profit": t.Profit})
	return id, nil
}

// FindTradesByInstrument retrieves trades for an instrument, newest sell first.
func (r *Repository) FindTradesByInstrument(ctx context.Context, instrumentID int64) ([]*domain.Trade, error) {
	const query = `
	SELECT id, instrument_id, buy_date, sell_date, buy_price, sell_price,
	       quantity, profit, profit_percent, holding_days, created_at
	FROM trades WHERE instrument_id = ? ORDER BY sell_date DESC, id DESC`

	return r.queryTrades(ctx, query, instrumentID)
}

// FindAllTrades retrieves all trades, newest sell first.
func (r *Repository) FindAllTrades(ctx context.Context) ([]*domain.Trade, error) {
	const query = `
	SELECT id, instrument_id, buy_date, sell_date, buy_price, sell_price,
	       quantity, profit, profit_percent, holding_days, created_at
	FROM trades ORDER BY sell_date DESC, id DESC`

	return r.queryTrades(ctx, query)
}

func (r *Repository) queryTrades(ctx context.Context, query string, args ...interface{}) ([]*domain.Trade, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades := make([]*domain.Trade, 0)
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade rows: %w", err)
	}
	return trades, nil
}

// --- CapitalRepository Implementation ---

// CreateCapitalTransaction appends an adjustment and returns its assigned ID.
func (r *Repository) CreateCapitalTransaction(ctx context.Context, tx *domain.CapitalTransaction) (int64, error) {
	const query = `
	INSERT INTO capital_transactions (type, amount, tx_date, note, created_at)
	VALUES (?, ?, ?, ?, ?)`

	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = time.Now().UTC()
	}
	result, err := r.db.ExecContext(ctx, query, tx.Type, tx.Amount, tx.Date, tx.Note, tx.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("failed to insert capital transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get last insert ID for capital transaction: %w", err)
	}
	tx.ID = id
	r.logger.Debug(ctx, "Capital transaction created", map[string]interface{}{"txID": id, "type": tx.Type, "amount": tx.Amount})
	return id, nil
}

// FindAllCapitalTransactions retrieves all adjustments, oldest first.
func (r *Repository) FindAllCapitalTransactions(ctx context.Context) ([]*domain.CapitalTransaction, error) {
	const query = `
	SELECT id, type, amount, tx_date, note, created_at
	FROM capital_transactions ORDER BY tx_date ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query capital transactions: %w", err)
	}
	defer rows.Close()

	txns := make([]*domain.CapitalTransaction, 0)
	for rows.Next() {
		tx := &domain.CapitalTransaction{}
		var txType string
		if err := rows.Scan(&tx.ID, &txType, &tx.Amount, &tx.Date, &tx.Note, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan capital transaction: %w", err)
		}
		tx.Type = domain.CapitalTxType(txType)
		txns = append(txns, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating capital transaction rows: %w", err)
	}
	return txns, nil
}

// --- SettingsRepository Implementation ---

// GetSettings returns all settings rows as a key -> raw string value map.
func (r *Repository) GetSettings(ctx context.Context) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan settings row: %w", err)
		}
		settings[key] = value
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating settings rows: %w", err)
	}
	return settings, nil
}

// SetSetting upserts one settings row.
func (r *Repository) SetSetting(ctx context.Context, key, value string) error {
	const query = `
	INSERT INTO settings (key, value) VALUES (?, ?)
	ON CONFLICT(key) DO UPDATE SET value = excluded.value`

	if _, err := r.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to upsert setting %s: %w", key, err)
	}
	r.logger.Debug(ctx, "Setting updated", map[string]interface{}{"key": key})
	return nil
}

// --- ActivityRepository Implementation ---

// IncrementActivity atomically increments the buy or sell counter for a date,
// creating the row on first use. The single-statement upsert is what makes
// concurrent same-day increments safe.
func (r *Repository) IncrementActivity(ctx context.Context, date string, kind domain.ActionKind) error {
	var query string
	switch kind {
	case domain.ActionBuy:
		query = `
		INSERT INTO daily_activity (activity_date, buy_count, sell_count) VALUES (?, 1, 0)
		ON CONFLICT(activity_date) DO UPDATE SET buy_count = buy_count + 1`
	case domain.ActionSell:
		query = `
		INSERT INTO daily_activity (activity_date, buy_count, sell_count) VALUES (?, 0, 1)
		ON CONFLICT(activity_date) DO UPDATE SET sell_count = sell_count + 1`
	default:
		return fmt.Errorf("unknown action kind %q: %w", kind, ports.ErrInvalidRequest)
	}

	if _, err := r.db.ExecContext(ctx, query, date); err != nil {
		return fmt.Errorf("failed to increment %s activity for %s: %w", kind, date, err)
	}
	r.logger.Debug(ctx, "Daily activity incremented", map[string]interface{}{"date": date, "kind": kind})
	return nil
}

// FindActivity retrieves the counters for a date. A missing row is returned
// as a zero-count record, not an error.
func (r *Repository) FindActivity(ctx context.Context, date string) (*domain.DailyActivity, error) {
	const query = `SELECT activity_date, buy_count, sell_count FROM daily_activity WHERE activity_date = ?`

	a := &domain.DailyActivity{}
	err := r.db.QueryRowContext(ctx, query, date).Scan(&a.Date, &a.BuyCount, &a.SellCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &domain.DailyActivity{Date: date}, nil
		}
		return nil, fmt.Errorf("failed to query daily activity for %s: %w", date, err)
	}
	return a, nil
}

// --- SnapshotRepository Implementation ---

// UpsertSnapshot replaces the snapshot row for the instrument wholesale.
func (r *Repository) UpsertSnapshot(ctx context.Context, snap *domain.MarketSnapshot) error {
	const query = `
	INSERT INTO market_snapshots (instrument_id, cmp, prev_close, change, change_percent,
	                              high_52, low_52, volume, dma_20, dma_distance, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(instrument_id) DO UPDATE SET
		cmp = excluded.cmp, prev_close = excluded.prev_close,
		change = excluded.change, change_percent = excluded.change_percent,
		high_52 = excluded.high_52, low_52 = excluded.low_52,
		volume = excluded.volume, dma_20 = excluded.dma_20,
		dma_distance = excluded.dma_distance, updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query,
		snap.InstrumentID, snap.CMP, snap.PrevClose, snap.Change, snap.ChangePercent,
		snap.High52, snap.Low52, snap.Volume, snap.DMA20, snap.DMADistance, snap.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert snapshot for instrument %d: %w", snap.InstrumentID, err)
	}
	r.logger.Debug(ctx, "Snapshot upserted", map[string]interface{}{"instrumentID": snap.InstrumentID, "cmp": snap.CMP})
	return nil
}

// FindSnapshot retrieves the snapshot for an instrument.
func (r *Repository) FindSnapshot(ctx context.Context, instrumentID int64) (*domain.MarketSnapshot, error) {
	const query = `
	SELECT instrument_id, cmp, prev_close, change, change_percent,
	       high_52, low_52, volume, dma_20, dma_distance, updated_at
	FROM market_snapshots WHERE instrument_id = ?`

	snap := &domain.MarketSnapshot{}
	err := r.db.QueryRowContext(ctx, query, instrumentID).Scan(
		&snap.InstrumentID, &snap.CMP, &snap.PrevClose, &snap.Change, &snap.ChangePercent,
		&snap.High52, &snap.Low52, &snap.Volume, &snap.DMA20, &snap.DMADistance, &snap.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query snapshot for instrument %d: %w", instrumentID, err)
	}
	return snap, nil
}

// FindAllSnapshots retrieves all snapshots keyed by instrument ID.
func (r *Repository) FindAllSnapshots(ctx context.Context) (map[int64]*domain.MarketSnapshot, error) {
	const query = `
	SELECT instrument_id, cmp, prev_close, change, change_percent,
	       high_52, low_52, volume, dma_20, dma_distance, updated_at
	FROM market_snapshots`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := make(map[int64]*domain.MarketSnapshot)
	for rows.Next() {
		snap := &domain.MarketSnapshot{}
		if err := rows.Scan(
			&snap.InstrumentID, &snap.CMP, &snap.PrevClose, &snap.Change, &snap.ChangePercent,
			&snap.High52, &snap.Low52, &snap.Volume, &snap.DMA20, &snap.DMADistance, &snap.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snaps[snap.InstrumentID] = snap
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot rows: %w", err)
	}
	return snaps, nil
}

// --- Helper Scan Functions ---

// scanner defines an interface compatible with *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanInstrument(s scanner) (*domain.Instrument, error) {
	ins := &domain.Instrument{}
	err := s.Scan(&ins.ID, &ins.Symbol, &ins.ProviderSymbol, &ins.Name, &ins.Category, &ins.CreatedAt)
	if err != nil {
		return nil, err // Handle sql.ErrNoRows in the caller
	}
	return ins, nil
}

func scanHolding(s scanner) (*domain.Holding, error) {
	h := &domain.Holding{}
	err := s.Scan(&h.ID, &h.InstrumentID, &h.BuyDate, &h.BuyPrice, &h.Quantity, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func scanTrade(s scanner) (*domain.Trade, error) {
	t := &domain.Trade{}
	err := s.Scan(&t.ID, &t.InstrumentID, &t.BuyDate, &t.SellDate, &t.BuyPrice, &t.SellPrice,
		&t.Quantity, &t.Profit, &t.ProfitPercent, &t.HoldingDays, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return t, nil
}
