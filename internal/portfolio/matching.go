package portfolio

import (
	"math"
	"sort"
	"time"

	"etfTracker/internal/domain"
)

// Fill records one lot consumption produced by the matching engine: the
// source lot and how many of its units were sold. Quantity equals the lot's
// full quantity when the lot was consumed wholesale.
type Fill struct {
	Lot      *domain.Holding
	Quantity int64
}

// MatchLots selects which lots satisfy a requested sell quantity under the
// given policy and returns the fills plus the remaining lot set. Lots are
// never mutated in place: a partially consumed lot is returned as a fresh
// value with the reduced quantity, the caller persists the replacement.
//
// A request of zero or less consumes nothing. A request exceeding the total
// available consumes everything and leaves remaining empty; validating
// against total holdings beforehand is the caller's responsibility.
func MatchLots(lots []*domain.Holding, quantity int64, policy domain.MatchPolicy) (fills []Fill, remaining []*domain.Holding) {
	ordered := make([]*domain.Holding, len(lots))
	copy(ordered, lots)
	sort.SliceStable(ordered, func(i, j int) bool {
		if policy == domain.MatchLIFO {
			return ordered[i].BuyDate.After(ordered[j].BuyDate)
		}
		return ordered[i].BuyDate.Before(ordered[j].BuyDate)
	})

	remaining = make([]*domain.Holding, 0, len(ordered))
	toSell := quantity
	for _, lot := range ordered {
		if toSell <= 0 {
			remaining = append(remaining, lot)
			continue
		}
		if lot.Quantity > toSell {
			// Partial consumption: split into a sold portion and a
			// reduced remaining lot.
			fills = append(fills, Fill{Lot: lot, Quantity: toSell})
			reduced := *lot
			reduced.Quantity = lot.Quantity - toSell
			remaining = append(remaining, &reduced)
			toSell = 0
		} else {
			fills = append(fills, Fill{Lot: lot, Quantity: lot.Quantity})
			toSell -= lot.Quantity
		}
	}
	return fills, remaining
}

// NewTrade builds the realized trade for selling quantity units out of a lot
// at the given price and date. The derived fields are computed here once and
// stored; the manual single-lot path and the batch matching path both go
// through this constructor so their field semantics are identical.
//
// A sell date earlier than the buy date is a data-entry error the engine
// does not reject; HoldingDays simply comes out negative.
func NewTrade(lot *domain.Holding, quantity int64, sellPrice float64, sellDate time.Time) *domain.Trade {
	profitPercent := 0.0
	if lot.BuyPrice != 0 {
		profitPercent = (sellPrice - lot.BuyPrice) / lot.BuyPrice * 100
	}
	days := int(math.Floor(sellDate.Sub(lot.BuyDate).Hours() / 24))
	return &domain.Trade{
		InstrumentID:  lot.InstrumentID,
		BuyDate:       lot.BuyDate,
		SellDate:      sellDate,
		BuyPrice:      lot.BuyPrice,
		SellPrice:     sellPrice,
		Quantity:      quantity,
		Profit:        (sellPrice - lot.BuyPrice) * float64(quantity),
		ProfitPercent: profitPercent,
		HoldingDays:   days,
	}
}
