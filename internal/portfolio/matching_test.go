package portfolio

import (
	"testing"
	"time"

	"etfTracker/internal/domain"
)

func threeLots() []*domain.Holding {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return []*domain.Holding{
		{ID: 1, InstrumentID: 9, BuyDate: base, BuyPrice: 100, Quantity: 10},
		{ID: 2, InstrumentID: 9, BuyDate: base.AddDate(0, 0, 10), BuyPrice: 105, Quantity: 10},
		{ID: 3, InstrumentID: 9, BuyDate: base.AddDate(0, 0, 20), BuyPrice: 110, Quantity: 10},
	}
}

func TestMatchLots_FIFO(t *testing.T) {
	lots := threeLots()
	fills, remaining := MatchLots(lots, 15, domain.MatchFIFO)

	if len(fills) != 2 {
		t.Fatalf("Expected 2 fills, got %d", len(fills))
	}
	if fills[0].Lot.ID != 1 || fills[0].Quantity != 10 {
		t.Errorf("Expected lot 1 fully consumed, got lot %d qty %d", fills[0].Lot.ID, fills[0].Quantity)
	}
	if fills[1].Lot.ID != 2 || fills[1].Quantity != 5 {
		t.Errorf("Expected 5 from lot 2, got lot %d qty %d", fills[1].Lot.ID, fills[1].Quantity)
	}

	if len(remaining) != 2 {
		t.Fatalf("Expected 2 remaining lots, got %d", len(remaining))
	}
	if remaining[0].ID != 2 || remaining[0].Quantity != 5 {
		t.Errorf("Expected lot 2 reduced to 5, got lot %d qty %d", remaining[0].ID, remaining[0].Quantity)
	}
	if remaining[1].ID != 3 || remaining[1].Quantity != 10 {
		t.Errorf("Expected lot 3 untouched, got lot %d qty %d", remaining[1].ID, remaining[1].Quantity)
	}
}

func TestMatchLots_LIFO(t *testing.T) {
	lots := threeLots()
	fills, remaining := MatchLots(lots, 15, domain.MatchLIFO)

	if len(fills) != 2 {
		t.Fatalf("Expected 2 fills, got %d", len(fills))
	}
	if fills[0].Lot.ID != 3 || fills[0].Quantity != 10 {
		t.Errorf("Expected lot 3 fully consumed first, got lot %d qty %d", fills[0].Lot.ID, fills[0].Quantity)
	}
	if fills[1].Lot.ID != 2 || fills[1].Quantity != 5 {
		t.Errorf("Expected 5 from lot 2, got lot %d qty %d", fills[1].Lot.ID, fills[1].Quantity)
	}

	var lot1Untouched, lot2Reduced bool
	for _, r := range remaining {
		if r.ID == 1 && r.Quantity == 10 {
			lot1Untouched = true
		}
		if r.ID == 2 && r.Quantity == 5 {
			lot2Reduced = true
		}
	}
	if !lot1Untouched || !lot2Reduced {
		t.Errorf("Expected lot 1 untouched and lot 2 at 5, got %+v", remaining)
	}
}

func TestMatchLots_EdgeCases(t *testing.T) {
	lots := threeLots()

	// Zero quantity consumes nothing.
	fills, remaining := MatchLots(lots, 0, domain.MatchLIFO)
	if len(fills) != 0 {
		t.Errorf("Expected no fills for zero quantity, got %d", len(fills))
	}
	if len(remaining) != 3 {
		t.Errorf("Expected all lots untouched, got %d", len(remaining))
	}

	// Selling the exact total empties the remaining set.
	fills, remaining = MatchLots(lots, 30, domain.MatchFIFO)
	if len(fills) != 3 || len(remaining) != 0 {
		t.Errorf("Expected 3 fills and empty remaining, got %d fills %d remaining", len(fills), len(remaining))
	}

	// Over-selling consumes everything without error; validation is the
	// caller's job.
	fills, remaining = MatchLots(lots, 50, domain.MatchLIFO)
	if len(fills) != 3 || len(remaining) != 0 {
		t.Errorf("Expected full consumption on over-sell, got %d fills %d remaining", len(fills), len(remaining))
	}
}

func TestMatchLots_DoesNotMutateInput(t *testing.T) {
	lots := threeLots()
	MatchLots(lots, 15, domain.MatchFIFO)

	for i, q := range []int64{10, 10, 10} {
		if lots[i].Quantity != q {
			t.Errorf("Input lot %d mutated: quantity %d", lots[i].ID, lots[i].Quantity)
		}
	}
}

func TestNewTrade(t *testing.T) {
	lot := &domain.Holding{
		ID:           4,
		InstrumentID: 9,
		BuyDate:      time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		BuyPrice:     100,
		Quantity:     10,
	}
	sellDate := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)

	trade := NewTrade(lot, 4, 110, sellDate)

	if !almostEqual(trade.Profit, 40) {
		t.Errorf("Expected profit 40, got %f", trade.Profit)
	}
	if !almostEqual(trade.ProfitPercent, 10) {
		t.Errorf("Expected 10%%, got %f", trade.ProfitPercent)
	}
	if trade.HoldingDays != 60 {
		t.Errorf("Expected 60 holding days, got %d", trade.HoldingDays)
	}
	if trade.InstrumentID != 9 || trade.Quantity != 4 {
		t.Errorf("Trade fields not carried from lot: %+v", trade)
	}
}

func TestNewTrade_ZeroBuyPrice(t *testing.T) {
	lot := &domain.Holding{BuyDate: time.Now(), BuyPrice: 0, Quantity: 1}
	trade := NewTrade(lot, 1, 50, time.Now())
	if trade.ProfitPercent != 0 {
		t.Errorf("Expected 0 profit percent for zero buy price, got %f", trade.ProfitPercent)
	}
}
