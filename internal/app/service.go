package app

import (
	"context"
	"fmt"
	"time"

	"etfTracker/internal/domain"
	"etfTracker/internal/indicators"
	"etfTracker/internal/portfolio"
	"etfTracker/internal/ports"
)

// PortfolioService orchestrates the tracker's operations: it fetches
// snapshot-consistent data through the repositories, runs the pure
// portfolio calculations over it, and persists the results. All trading
// rules it applies are advisories; nothing here ever hard-blocks an action.
type PortfolioService struct {
	logger       ports.Logger
	instruments  ports.InstrumentRepository
	holdings     ports.HoldingRepository
	trades       ports.TradeRepository
	capital      ports.CapitalRepository
	settingsRepo ports.SettingsRepository
	activity     ports.ActivityRepository
	snapshots    ports.SnapshotRepository
	quotes       ports.QuoteProvider
}

// Deps bundles the collaborators required by the service.
type Deps struct {
	Logger      ports.Logger
	Instruments ports.InstrumentRepository
	Holdings    ports.HoldingRepository
	Trades      ports.TradeRepository
	Capital     ports.CapitalRepository
	Settings    ports.SettingsRepository
	Activity    ports.ActivityRepository
	Snapshots   ports.SnapshotRepository
	Quotes      ports.QuoteProvider
}

// NewPortfolioService creates a new application service instance.
func NewPortfolioService(deps Deps) (*PortfolioService, error) {
	if deps.Logger == nil || deps.Instruments == nil || deps.Holdings == nil ||
		deps.Trades == nil || deps.Capital == nil || deps.Settings == nil ||
		deps.Activity == nil || deps.Snapshots == nil || deps.Quotes == nil {
		return nil, fmt.Errorf("missing required dependencies for PortfolioService")
	}
	return &PortfolioService{
		logger:       deps.Logger,
		instruments:  deps.Instruments,
		holdings:     deps.Holdings,
		trades:       deps.Trades,
		capital:      deps.Capital,
		settingsRepo: deps.Settings,
		activity:     deps.Activity,
		snapshots:    deps.Snapshots,
		quotes:       deps.Quotes,
	}, nil
}

// dateKey formats a time as the calendar-date key used by the activity counters.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// Settings loads and parses the trading settings, applying defaults for
// missing or invalid values.
func (s *PortfolioService) Settings(ctx context.Context) (domain.Settings, error) {
	raw, err := s.settingsRepo.GetSettings(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}
	return portfolio.ParseSettings(raw), nil
}

// UpdateSettings applies a partial update: only the supplied keys are
// written. Unknown keys are rejected up front.
func (s *PortfolioService) UpdateSettings(ctx context.Context, values map[string]string) error {
	valid := map[string]bool{
		portfolio.KeyProfitTargetPercent:  true,
		portfolio.KeyMinProfitAmount:      true,
		portfolio.KeyPerTransactionAmount: true,
		portfolio.KeyTotalCapital:         true,
		portfolio.KeyMinVolume:            true,
		portfolio.KeyAveragingThreshold:   true,
		portfolio.KeyMaxDailyBuys:         true,
		portfolio.KeyMaxDailySells:        true,
	}
	for key := range values {
		if !valid[key] {
			return fmt.Errorf("unknown setting %q: %w", key, ports.ErrInvalidRequest)
		}
	}
	for key, value := range values {
		if err := s.settingsRepo.SetSetting(ctx, key, value); err != nil {
			return err
		}
	}
	s.logger.Info(ctx, "Settings updated", map[string]interface{}{"keys": len(values)})
	return nil
}

// --- Instruments ---

// CreateInstrument adds an ETF to the tracked universe.
func (s *PortfolioService) CreateInstrument(ctx context.Context, ins *domain.Instrument) (*domain.Instrument, error) {
	if ins.Symbol == "" || ins.Name == "" {
		return nil, fmt.Errorf("symbol and name are required: %w", ports.ErrInvalidRequest)
	}
	if ins.ProviderSymbol == "" {
		ins.ProviderSymbol = ins.Symbol
	}
	if _, err := s.instruments.CreateInstrument(ctx, ins); err != nil {
		return nil, err
	}
	return ins, nil
}

// ListInstruments returns the tracked universe.
func (s *PortfolioService) ListInstruments(ctx context.Context) ([]*domain.Instrument, error) {
	return s.instruments.FindAllInstruments(ctx)
}

// DeleteInstrument removes an instrument; its market snapshot is dropped by
// the storage cascade.
func (s *PortfolioService) DeleteInstrument(ctx context.Context, id int64) error {
	return s.instruments.DeleteInstrument(ctx, id)
}

// --- Holdings ---

// AddHoldingRequest describes a new purchase lot.
type AddHoldingRequest struct {
	InstrumentID int64
	BuyDate      time.Time
	BuyPrice     float64
	Quantity     int64
	// Confirmed acknowledges a previously returned daily-limit advisory.
	Confirmed bool
}

// AddHolding records a purchase. When the daily buy cap is reached and the
// request is not yet confirmed, the advisory is returned with no holding
// created; re-submitting with Confirmed=true always proceeds. The limiter
// never blocks a confirmed action.
func (s *PortfolioService) AddHolding(ctx context.Context, req AddHoldingRequest) (*domain.Holding, *portfolio.Advisory, error) {
	if req.BuyPrice <= 0 {
		return nil, nil, fmt.Errorf("buy price must be positive: %w", ports.ErrInvalidRequest)
	}
	if req.Quantity <= 0 {
		return nil, nil, fmt.Errorf("quantity must be positive: %w", ports.ErrInvalidRequest)
	}
	ins, err := s.instruments.FindInstrumentByID(ctx, req.InstrumentID)
	if err != nil {
		return nil, nil, err
	}
	if ins == nil {
		return nil, nil, fmt.Errorf("instrument %d: %w", req.InstrumentID, ports.ErrNotFound)
	}

	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, nil, err
	}
	today := dateKey(time.Now())
	activity, err := s.activity.FindActivity(ctx, today)
	if err != nil {
		return nil, nil, err
	}
	advisory := portfolio.EvaluateLimit("buy", activity.BuyCount, settings.MaxDailyBuys)
	if advisory.Exceeded && !req.Confirmed {
		s.logger.Info(ctx, "Buy limit advisory issued", map[string]interface{}{"date": today, "count": activity.BuyCount})
		return nil, &advisory, nil
	}

	holding := &domain.Holding{
		InstrumentID: req.InstrumentID,
		BuyDate:      req.BuyDate,
		BuyPrice:     req.BuyPrice,
		Quantity:     req.Quantity,
	}
	if _, err := s.holdings.CreateHolding(ctx, holding); err != nil {
		return nil, nil, err
	}
	if err := s.activity.IncrementActivity(ctx, today, domain.ActionBuy); err != nil {
		// The holding is already saved; the counter is a running log, so a
		// failed increment is logged rather than unwound.
		s.logger.Error(ctx, err, "Failed to increment buy counter", map[string]interface{}{"date": today})
	}
	s.logger.Info(ctx, "Holding added", map[string]interface{}{"holdingID": holding.ID, "instrumentID": req.InstrumentID, "quantity": req.Quantity})
	if advisory.Exceeded {
		return holding, &advisory, nil
	}
	return holding, nil, nil
}

// UpdateHolding corrects a lot's price, quantity or date.
func (s *PortfolioService) UpdateHolding(ctx context.Context, h *domain.Holding) error {
	if h.BuyPrice <= 0 {
		return fmt.Errorf("buy price must be positive: %w", ports.ErrInvalidRequest)
	}
	if h.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", ports.ErrInvalidRequest)
	}
	return s.holdings.UpdateHolding(ctx, h)
}

// DeleteHolding removes a lot. Activity counters are a running log and are
// deliberately not decremented.
func (s *PortfolioService) DeleteHolding(ctx context.Context, id int64) error {
	return s.holdings.DeleteHolding(ctx, id)
}

// --- Selling ---

// SellHoldingRequest describes a manual single-lot sell.
type SellHoldingRequest struct {
	HoldingID int64
	Quantity  int64
	SellPrice float64
	SellDate  time.Time
	Confirmed bool
}

// SellHolding liquidates part or all of one named lot at a user-supplied
// price. The realized trade and the lot reduction are two separate storage
// operations; if the lot update fails after the trade is recorded the
// caller receives ErrReconcileRequired so the phantom lot can be fixed
// manually. No automatic rollback is attempted.
func (s *PortfolioService) SellHolding(ctx context.Context, req SellHoldingRequest) (*domain.Trade, *portfolio.Advisory, error) {
	if req.SellPrice <= 0 {
		return nil, nil, fmt.Errorf("sell price must be positive: %w", ports.ErrInvalidRequest)
	}
	if req.Quantity <= 0 {
		return nil, nil, fmt.Errorf("quantity must be positive: %w", ports.ErrInvalidRequest)
	}
	lot, err := s.holdings.FindHoldingByID(ctx, req.HoldingID)
	if err != nil {
		return nil, nil, err
	}
	if lot == nil {
		return nil, nil, fmt.Errorf("holding %d: %w", req.HoldingID, ports.ErrNotFound)
	}
	if req.Quantity > lot.Quantity {
		return nil, nil, fmt.Errorf("cannot sell %d of %d units: %w", req.Quantity, lot.Quantity, ports.ErrInvalidRequest)
	}

	advisory, proceed, err := s.checkSellLimit(ctx, req.Confirmed)
	if err != nil {
		return nil, nil, err
	}
	if !proceed {
		return nil, advisory, nil
	}

	trade := portfolio.NewTrade(lot, req.Quantity, req.SellPrice, req.SellDate)
	if _, err := s.trades.CreateTrade(ctx, trade); err != nil {
		return nil, nil, err
	}

	if err := s.consumeLot(ctx, lot, req.Quantity); err != nil {
		s.logger.Error(ctx, err, "Lot update failed after trade was recorded", map[string]interface{}{"holdingID": lot.ID, "tradeID": trade.ID})
		return trade, advisory, fmt.Errorf("trade %d recorded: %w", trade.ID, ports.ErrReconcileRequired)
	}

	today := dateKey(time.Now())
	if err := s.activity.IncrementActivity(ctx, today, domain.ActionSell); err != nil {
		s.logger.Error(ctx, err, "Failed to increment sell counter", map[string]interface{}{"date": today})
	}
	s.logger.Info(ctx, "Holding sold", map[string]interface{}{"holdingID": lot.ID, "tradeID": trade.ID, "profit": trade.Profit})
	return trade, advisory, nil
}

// SellQuantityRequest describes a batch sell across an instrument's lots.
type SellQuantityRequest struct {
	InstrumentID int64
	Quantity     int64
	SellPrice    float64
	SellDate     time.Time
	Policy       domain.MatchPolicy // Defaults to LIFO, the active trading rule
	Confirmed    bool
}

// SellQuantity liquidates a quantity across an instrument's lots under the
// matching policy, producing one realized trade per consumed lot portion.
func (s *PortfolioService) SellQuantity(ctx context.Context, req SellQuantityRequest) ([]*domain.Trade, *portfolio.Advisory, error) {
	if req.SellPrice <= 0 {
		return nil, nil, fmt.Errorf("sell price must be positive: %w", ports.ErrInvalidRequest)
	}
	if req.Quantity <= 0 {
		return nil, nil, fmt.Errorf("quantity must be positive: %w", ports.ErrInvalidRequest)
	}
	policy := req.Policy
	if policy == "" {
		policy = domain.MatchLIFO
	}

	lots, err := s.holdings.FindHoldingsByInstrument(ctx, req.InstrumentID)
	if err != nil {
		return nil, nil, err
	}
	if total := portfolio.TotalQuantity(lots); req.Quantity > total {
		return nil, nil, fmt.Errorf("cannot sell %d of %d units held: %w", req.Quantity, total, ports.ErrInvalidRequest)
	}

	advisory, proceed, err := s.checkSellLimit(ctx, req.Confirmed)
	if err != nil {
		return nil, nil, err
	}
	if !proceed {
		return nil, advisory, nil
	}

	fills, _ := portfolio.MatchLots(lots, req.Quantity, policy)

	trades := make([]*domain.Trade, 0, len(fills))
	for _, fill := range fills {
		trade := portfolio.NewTrade(fill.Lot, fill.Quantity, req.SellPrice, req.SellDate)
		if _, err := s.trades.CreateTrade(ctx, trade); err != nil {
			return trades, advisory, err
		}
		if err := s.consumeLot(ctx, fill.Lot, fill.Quantity); err != nil {
			s.logger.Error(ctx, err, "Lot update failed mid-liquidation", map[string]interface{}{"holdingID": fill.Lot.ID, "tradeID": trade.ID})
			return trades, advisory, fmt.Errorf("trade %d recorded: %w", trade.ID, ports.ErrReconcileRequired)
		}
		trades = append(trades, trade)
	}

	today := dateKey(time.Now())
	if err := s.activity.IncrementActivity(ctx, today, domain.ActionSell); err != nil {
		s.logger.Error(ctx, err, "Failed to increment sell counter", map[string]interface{}{"date": today})
	}
	s.logger.Info(ctx, "Quantity sold", map[string]interface{}{"instrumentID": req.InstrumentID, "quantity": req.Quantity, "tradesCreated": len(trades), "policy": policy})
	return trades, advisory, nil
}

// checkSellLimit evaluates the daily sell cap. proceed is false only when
// the cap is exceeded and the caller has not confirmed.
func (s *PortfolioService) checkSellLimit(ctx context.Context, confirmed bool) (*portfolio.Advisory, bool, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, false, err
	}
	activity, err := s.activity.FindActivity(ctx, dateKey(time.Now()))
	if err != nil {
		return nil, false, err
	}
	advisory := portfolio.EvaluateLimit("sell", activity.SellCount, settings.MaxDailySells)
	if !advisory.Exceeded {
		return nil, true, nil
	}
	if !confirmed {
		s.logger.Info(ctx, "Sell limit advisory issued", map[string]interface{}{"count": activity.SellCount})
		return &advisory, false, nil
	}
	return &advisory, true, nil
}

// consumeLot reduces a lot by the sold quantity, deleting it when fully
// consumed. The reduced lot is written as a whole replacement value.
func (s *PortfolioService) consumeLot(ctx context.Context, lot *domain.Holding, sold int64) error {
	if sold >= lot.Quantity {
		return s.holdings.DeleteHolding(ctx, lot.ID)
	}
	reduced := *lot
	reduced.Quantity = lot.Quantity - sold
	return s.holdings.UpdateHolding(ctx, &reduced)
}

// --- Views ---

// Position is the per-instrument aggregation surfaced to the user.
type Position struct {
	Instrument     *domain.Instrument
	Quantity       int64
	AveragePrice   float64
	InvestedValue  float64
	CMP            float64
	CurrentValue   float64
	NotionalPL     float64
	NotionalPLPct  float64
	TargetPrice    float64
	LastBuyPrice   float64
	DropPercent    float64
	ShouldAverage  bool
	ShouldSIP      bool
	IsBuyCandidate bool
	DMA20          float64
	DMADistance    float64
}

// ListPositions aggregates every held instrument into a decision view:
// averages, notional P/L, the dynamically scaled target sell price, and the
// averaging/SIP/buy-candidate signals.
func (s *PortfolioService) ListPositions(ctx context.Context) ([]*Position, error) {
	instruments, err := s.instruments.FindAllInstruments(ctx)
	if err != nil {
		return nil, err
	}
	allHoldings, err := s.holdings.FindAllHoldings(ctx)
	if err != nil {
		return nil, err
	}
	snaps, err := s.snapshots.FindAllSnapshots(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := s.capital.FindAllCapitalTransactions(ctx)
	if err != nil {
		return nil, err
	}
	trades, err := s.trades.FindAllTrades(ctx)
	if err != nil {
		return nil, err
	}

	// Capital utilization throttles the profit target across all positions.
	summary := portfolio.SummarizeCapital(settings.TotalCapital, txns, allHoldings, trades)
	targetPct := portfolio.DynamicTargetPercent(settings.ProfitTargetPercent, summary.UsedPercent)
	scaled := settings
	scaled.ProfitTargetPercent = targetPct

	byInstrument := make(map[int64][]*domain.Holding)
	for _, h := range allHoldings {
		byInstrument[h.InstrumentID] = append(byInstrument[h.InstrumentID], h)
	}

	positions := make([]*Position, 0, len(byInstrument))
	for _, ins := range instruments {
		lots := byInstrument[ins.ID]
		if len(lots) == 0 {
			continue
		}
		pos := &Position{
			Instrument:    ins,
			Quantity:      portfolio.TotalQuantity(lots),
			AveragePrice:  portfolio.AveragePrice(lots),
			InvestedValue: portfolio.InvestedValue(lots),
		}
		// Lots arrive oldest first; the last one is the most recent buy.
		pos.LastBuyPrice = lots[len(lots)-1].BuyPrice

		if target, err := portfolio.TargetPrice(pos.AveragePrice, pos.Quantity, scaled); err == nil {
			pos.TargetPrice = target
		}

		if snap := snaps[ins.ID]; snap != nil {
			pos.CMP = snap.CMP
			pos.DMA20 = snap.DMA20
			pos.DMADistance = snap.DMADistance
			pos.CurrentValue = portfolio.CurrentValue(lots, snap.CMP)
			pos.NotionalPL = portfolio.NotionalPL(lots, snap.CMP)
			pos.NotionalPLPct = portfolio.NotionalPLPercent(pos.AveragePrice, snap.CMP)
			pos.DropPercent = portfolio.DropPercent(pos.LastBuyPrice, snap.CMP)
			pos.ShouldAverage = portfolio.ShouldAverage(pos.LastBuyPrice, snap.CMP)
			pos.ShouldSIP = portfolio.ShouldSIP(pos.LastBuyPrice, snap.CMP)
			pos.IsBuyCandidate = portfolio.IsBuyCandidate(pos.LastBuyPrice, snap.CMP, settings.AveragingThreshold)
		}
		positions = append(positions, pos)
	}
	return positions, nil
}

// RefreshQuotes pulls a fresh quote and close history for every instrument
// and replaces its market snapshot. Per-instrument failures are logged and
// skipped; the refresh continues with the rest of the universe.
func (s *PortfolioService) RefreshQuotes(ctx context.Context) (int, error) {
	instruments, err := s.instruments.FindAllInstruments(ctx)
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, ins := range instruments {
		quote, err := s.quotes.GetQuote(ctx, ins.ProviderSymbol)
		if err != nil {
			s.logger.Warn(ctx, "Quote fetch failed, skipping instrument", map[string]interface{}{"symbol": ins.Symbol, "error": err.Error()})
			continue
		}
		closes, err := s.quotes.GetDailyCloses(ctx, ins.ProviderSymbol, indicators.DMAPeriod)
		if err != nil {
			s.logger.Warn(ctx, "Close history fetch failed, snapshot will carry zero DMA", map[string]interface{}{"symbol": ins.Symbol, "error": err.Error()})
			closes = nil
		}

		dma := indicators.DMA(closes, indicators.DMAPeriod)
		snap := &domain.MarketSnapshot{
			InstrumentID:  ins.ID,
			CMP:           quote.Price,
			PrevClose:     quote.PrevClose,
			Change:        quote.Price - quote.PrevClose,
			ChangePercent: quote.ChangePercent,
			High52:        quote.High52,
			Low52:         quote.Low52,
			Volume:        quote.Volume,
			DMA20:         dma,
			DMADistance:   indicators.Distance(quote.Price, dma),
			UpdatedAt:     time.Now().UTC(),
		}
		if err := s.snapshots.UpsertSnapshot(ctx, snap); err != nil {
			s.logger.Error(ctx, err, "Snapshot upsert failed", map[string]interface{}{"symbol": ins.Symbol})
			continue
		}
		refreshed++
	}
	s.logger.Info(ctx, "Quote refresh complete", map[string]interface{}{"refreshed": refreshed, "total": len(instruments)})
	return refreshed, nil
}

// SummaryResult combines the capital snapshot with the annualized return.
type SummaryResult struct {
	Capital     domain.CapitalSummary
	XIRRPercent float64
}

// Summary recomputes the capital-usage figures from the full history and
// solves for the money-weighted annualized return. Cash flows: every trade
// contributes its purchase as an outflow and its proceeds as an inflow, every
// open lot contributes its purchase as an outflow, and the portfolio's
// current market value enters as a synthetic final inflow dated now.
func (s *PortfolioService) Summary(ctx context.Context) (*SummaryResult, error) {
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}
	txns, err := s.capital.FindAllCapitalTransactions(ctx)
	if err != nil {
		return nil, err
	}
	holdings, err := s.holdings.FindAllHoldings(ctx)
	if err != nil {
		return nil, err
	}
	trades, err := s.trades.FindAllTrades(ctx)
	if err != nil {
		return nil, err
	}
	snaps, err := s.snapshots.FindAllSnapshots(ctx)
	if err != nil {
		return nil, err
	}

	capital := portfolio.SummarizeCapital(settings.TotalCapital, txns, holdings, trades)

	flows := make([]portfolio.Cashflow, 0, len(holdings)+2*len(trades))
	for _, t := range trades {
		flows = append(flows,
			portfolio.Cashflow{Amount: -t.BuyPrice * float64(t.Quantity), Date: t.BuyDate},
			portfolio.Cashflow{Amount: t.SellPrice * float64(t.Quantity), Date: t.SellDate},
		)
	}
	var currentValue float64
	for _, h := range holdings {
		flows = append(flows, portfolio.Cashflow{Amount: -h.InvestedValue(), Date: h.BuyDate})
		if snap := snaps[h.InstrumentID]; snap != nil {
			currentValue += h.CurrentValue(snap.CMP)
		} else {
			// No quote yet; carry the lot at cost so the flow series stays
			// balanced.
			currentValue += h.InvestedValue()
		}
	}

	return &SummaryResult{
		Capital:     capital,
		XIRRPercent: portfolio.XIRR(flows, currentValue, time.Now()),
	}, nil
}

// MonthlySummaries groups profit and fresh investment per calendar month.
func (s *PortfolioService) MonthlySummaries(ctx context.Context) ([]domain.MonthlySummary, error) {
	trades, err := s.trades.FindAllTrades(ctx)
	if err != nil {
		return nil, err
	}
	holdings, err := s.holdings.FindAllHoldings(ctx)
	if err != nil {
		return nil, err
	}
	return portfolio.MonthlySummaries(trades, holdings), nil
}

// AddCapitalTransaction appends a capital adjustment.
func (s *PortfolioService) AddCapitalTransaction(ctx context.Context, tx *domain.CapitalTransaction) (*domain.CapitalTransaction, error) {
	if tx.Type != domain.CapitalAdd && tx.Type != domain.CapitalWithdraw {
		return nil, fmt.Errorf("transaction type must be ADD or WITHDRAW: %w", ports.ErrInvalidRequest)
	}
	if tx.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", ports.ErrInvalidRequest)
	}
	if _, err := s.capital.CreateCapitalTransaction(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// ListCapitalTransactions returns the full append-only ledger, oldest first.
func (s *PortfolioService) ListCapitalTransactions(ctx context.Context) ([]*domain.CapitalTransaction, error) {
	return s.capital.FindAllCapitalTransactions(ctx)
}

// DailyActivity returns the buy/sell counters for a calendar date.
func (s *PortfolioService) DailyActivity(ctx context.Context, date string) (*domain.DailyActivity, error) {
	return s.activity.FindActivity(ctx, date)
}
