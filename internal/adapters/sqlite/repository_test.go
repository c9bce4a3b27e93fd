package sqlite

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"etfTracker/internal/domain"
	"etfTracker/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements ports.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}
func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{})  {}
func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
}

// setupTestDB creates a temporary database for testing
func setupTestDB(t *testing.T) (*Repository, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "etf-tracker-test-*")
	require.NoError(t, err)

	dbPath := filepath.Join(tmpDir, "test.db")
	repo, err := NewRepository(Config{
		DBPath: dbPath,
		Logger: &mockLogger{},
	})
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		os.RemoveAll(tmpDir)
	}

	return repo, cleanup
}

func createTestInstrument(t *testing.T, repo *Repository, symbol string) *domain.Instrument {
	t.Helper()
	ins := &domain.Instrument{
		Symbol:         symbol,
		ProviderSymbol: symbol + ".NS",
		Name:           symbol + " ETF",
		Category:       "Index",
	}
	_, err := repo.CreateInstrument(context.Background(), ins)
	require.NoError(t, err)
	return ins
}

func TestRepository_RequiresLogger(t *testing.T) {
	_, err := NewRepository(Config{DBPath: "unused.db"})
	require.Error(t, err)
}

func TestRepository_InstrumentCRUD(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	ins := createTestInstrument(t, repo, "NIFTYBEES")
	require.NotZero(t, ins.ID)

	found, err := repo.FindInstrumentByID(ctx, ins.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "NIFTYBEES", found.Symbol)
	assert.Equal(t, "NIFTYBEES.NS", found.ProviderSymbol)
	assert.False(t, found.CreatedAt.IsZero())

	bySymbol, err := repo.FindInstrumentBySymbol(ctx, "NIFTYBEES")
	require.NoError(t, err)
	require.NotNil(t, bySymbol)
	assert.Equal(t, ins.ID, bySymbol.ID)

	// Not-found reads return nil, nil.
	missing, err := repo.FindInstrumentByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	createTestInstrument(t, repo, "GOLDBEES")
	all, err := repo.FindAllInstruments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Ordered by symbol.
	assert.Equal(t, "GOLDBEES", all[0].Symbol)
	assert.Equal(t, "NIFTYBEES", all[1].Symbol)

	err = repo.DeleteInstrument(ctx, ins.ID)
	require.NoError(t, err)
	err = repo.DeleteInstrument(ctx, ins.ID)
	assert.True(t, errors.Is(err, ports.ErrNotFound))
}

func TestRepository_DuplicateSymbol(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	createTestInstrument(t, repo, "NIFTYBEES")
	_, err := repo.CreateInstrument(context.Background(), &domain.Instrument{
		Symbol:         "NIFTYBEES",
		ProviderSymbol: "NIFTYBEES.NS",
		Name:           "Duplicate",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ports.ErrDuplicateEntry))
}

func TestRepository_HoldingCRUD(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	ins := createTestInstrument(t, repo, "NIFTYBEES")

	older := &domain.Holding{
		InstrumentID: ins.ID,
		BuyDate:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		BuyPrice:     250.5,
		Quantity:     40,
	}
	newer := &domain.Holding{
		InstrumentID: ins.ID,
		BuyDate:      time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC),
		BuyPrice:     240.0,
		Quantity:     42,
	}
	_, err := repo.CreateHolding(ctx, newer)
	require.NoError(t, err)
	_, err = repo.CreateHolding(ctx, older)
	require.NoError(t, err)

	// Oldest buy first regardless of insert order.
	lots, err := repo.FindHoldingsByInstrument(ctx, ins.ID)
	require.NoError(t, err)
	require.Len(t, lots, 2)
	assert.Equal(t, older.ID, lots[0].ID)
	assert.Equal(t, newer.ID, lots[1].ID)

	lots[0].Quantity = 25
	err = repo.UpdateHolding(ctx, lots[0])
	require.NoError(t, err)

	found, err := repo.FindHoldingByID(ctx, older.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, int64(25), found.Quantity)

	err = repo.DeleteHolding(ctx, older.ID)
	require.NoError(t, err)
	gone, err := repo.FindHoldingByID(ctx, older.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	err = repo.UpdateHolding(ctx, &domain.Holding{ID: 9999, Quantity: 1})
	assert.True(t, errors.Is(err, ports.ErrNotFound))
}

func TestRepository_Trades(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	ins := createTestInstrument(t, repo, "NIFTYBEES")

	first := &domain.Trade{
		InstrumentID:  ins.ID,
		BuyDate:       time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
		SellDate:      time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		BuyPrice:      200,
		SellPrice:     212,
		Quantity:      50,
		Profit:        600,
		ProfitPercent: 6,
		HoldingDays:   31,
	}
	second := &domain.Trade{
		InstrumentID:  ins.ID,
		BuyDate:       time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
		SellDate:      time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		BuyPrice:      210,
		SellPrice:     220,
		Quantity:      10,
		Profit:        100,
		ProfitPercent: 4.7619,
		HoldingDays:   28,
	}
	_, err := repo.CreateTrade(ctx, first)
	require.NoError(t, err)
	_, err = repo.CreateTrade(ctx, second)
	require.NoError(t, err)

	// Newest sell first.
	trades, err := repo.FindTradesByInstrument(ctx, ins.ID)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, second.ID, trades[0].ID)
	assert.Equal(t, first.ID, trades[1].ID)
	assert.Equal(t, 600.0, trades[1].Profit)
	assert.Equal(t, 31, trades[1].HoldingDays)

	all, err := repo.FindAllTrades(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepository_CapitalTransactions(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	later := &domain.CapitalTransaction{
		Type:   domain.CapitalWithdraw,
		Amount: 20000,
		Date:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	earlier := &domain.CapitalTransaction{
		Type:   domain.CapitalAdd,
		Amount: 50000,
		Date:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Note:   "annual top-up",
	}
	_, err := repo.CreateCapitalTransaction(ctx, later)
	require.NoError(t, err)
	_, err = repo.CreateCapitalTransaction(ctx, earlier)
	require.NoError(t, err)

	txns, err := repo.FindAllCapitalTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	// Oldest first.
	assert.Equal(t, domain.CapitalAdd, txns[0].Type)
	assert.Equal(t, "annual top-up", txns[0].Note)
	assert.Equal(t, domain.CapitalWithdraw, txns[1].Type)
}

func TestRepository_Settings(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	settings, err := repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Empty(t, settings)

	require.NoError(t, repo.SetSetting(ctx, "profit_target_percent", "8"))
	require.NoError(t, repo.SetSetting(ctx, "profit_target_percent", "7.5")) // upsert
	require.NoError(t, repo.SetSetting(ctx, "max_daily_buys", "2"))

	settings, err = repo.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"profit_target_percent": "7.5",
		"max_daily_buys":        "2",
	}, settings)
}

func TestRepository_DailyActivity(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	// Missing row reads as zero counts.
	a, err := repo.FindActivity(ctx, "2025-03-01")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, 0, a.BuyCount)
	assert.Equal(t, 0, a.SellCount)

	require.NoError(t, repo.IncrementActivity(ctx, "2025-03-01", domain.ActionBuy))
	require.NoError(t, repo.IncrementActivity(ctx, "2025-03-01", domain.ActionBuy))
	require.NoError(t, repo.IncrementActivity(ctx, "2025-03-01", domain.ActionSell))

	a, err = repo.FindActivity(ctx, "2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, 2, a.BuyCount)
	assert.Equal(t, 1, a.SellCount)

	// Counters are per-date.
	other, err := repo.FindActivity(ctx, "2025-03-02")
	require.NoError(t, err)
	assert.Equal(t, 0, other.BuyCount)

	err = repo.IncrementActivity(ctx, "2025-03-01", domain.ActionKind("HOLD"))
	assert.True(t, errors.Is(err, ports.ErrInvalidRequest))
}

func TestRepository_Snapshots(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	ins := createTestInstrument(t, repo, "NIFTYBEES")

	snap := &domain.MarketSnapshot{
		InstrumentID:  ins.ID,
		CMP:           251.3,
		PrevClose:     248.0,
		Change:        3.3,
		ChangePercent: 1.3306,
		High52:        260.0,
		Low52:         210.0,
		Volume:        125000,
		DMA20:         245.0,
		DMADistance:   2.5714,
		UpdatedAt:     time.Now().UTC(),
	}
	require.NoError(t, repo.UpsertSnapshot(ctx, snap))

	// A second upsert replaces the row wholesale.
	snap.CMP = 255.0
	snap.Volume = 98000
	require.NoError(t, repo.UpsertSnapshot(ctx, snap))

	found, err := repo.FindSnapshot(ctx, ins.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 255.0, found.CMP)
	assert.Equal(t, int64(98000), found.Volume)

	all, err := repo.FindAllSnapshots(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 255.0, all[ins.ID].CMP)

	missing, err := repo.FindSnapshot(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepository_DeleteInstrumentCascadesSnapshot(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	ins := createTestInstrument(t, repo, "NIFTYBEES")
	require.NoError(t, repo.UpsertSnapshot(ctx, &domain.MarketSnapshot{
		InstrumentID: ins.ID,
		CMP:          100,
		UpdatedAt:    time.Now().UTC(),
	}))

	require.NoError(t, repo.DeleteInstrument(ctx, ins.ID))

	snap, err := repo.FindSnapshot(ctx, ins.ID)
	require.NoError(t, err)
	assert.Nil(t, snap)
}
