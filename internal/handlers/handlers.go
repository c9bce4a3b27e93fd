package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"etfTracker/internal/app"
	"etfTracker/internal/domain"
	"etfTracker/internal/ports"
)

const dateLayout = "2006-01-02"

// Handler exposes the portfolio service over HTTP.
type Handler struct {
	service *app.PortfolioService
	logger  ports.Logger
}

// New creates the HTTP handler set.
func New(service *app.PortfolioService, logger ports.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts all routes under /api.
func (h *Handler) Register(router *gin.Engine) {
	api := router.Group("/api")
	{
		api.GET("/instruments", h.ListInstruments)
		api.POST("/instruments", h.CreateInstrument)
		api.DELETE("/instruments/:id", h.DeleteInstrument)

		api.POST("/holdings", h.AddHolding)
		api.PUT("/holdings/:id", h.UpdateHolding)
		api.DELETE("/holdings/:id", h.DeleteHolding)
		api.POST("/holdings/:id/sell", h.SellHolding)
		api.POST("/sell", h.SellQuantity)

		api.GET("/positions", h.ListPositions)
		api.POST("/refresh", h.RefreshQuotes)

		api.GET("/capital", h.ListCapitalTransactions)
		api.POST("/capital", h.AddCapitalTransaction)
		api.GET("/summary", h.Summary)
		api.GET("/monthly", h.MonthlySummaries)

		api.GET("/settings", h.GetSettings)
		api.PATCH("/settings", h.UpdateSettings)

		api.GET("/activity/:date", h.DailyActivity)
	}
}

// respondError maps application errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ports.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ports.ErrDuplicateEntry):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ports.ErrReconcileRequired):
		// The trade exists but the lot does not reflect it yet; the client
		// must surface this prominently.
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error(), "reconcileRequired": true})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// --- Instruments ---

type createInstrumentRequest struct {
	Symbol         string `json:"symbol" binding:"required"`
	ProviderSymbol string `json:"providerSymbol"`
	Name           string `json:"name" binding:"required"`
	Category       string `json:"category"`
}

func (h *Handler) CreateInstrument(c *gin.Context) {
	var req createInstrumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ins, err := h.service.CreateInstrument(c.Request.Context(), &domain.Instrument{
		Symbol:         req.Symbol,
		ProviderSymbol: req.ProviderSymbol,
		Name:           req.Name,
		Category:       req.Category,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ins)
}

func (h *Handler) ListInstruments(c *gin.Context) {
	instruments, err := h.service.ListInstruments(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, instruments)
}

func (h *Handler) DeleteInstrument(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteInstrument(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Holdings ---

type addHoldingRequest struct {
	InstrumentID int64   `json:"instrumentId" binding:"required"`
	BuyDate      string  `json:"buyDate" binding:"required"`
	BuyPrice     float64 `json:"buyPrice" binding:"required"`
	Quantity     int64   `json:"quantity" binding:"required"`
	Confirmed    bool    `json:"confirmed"`
}

func (h *Handler) AddHolding(c *gin.Context) {
	var req addHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	buyDate, err := time.Parse(dateLayout, req.BuyDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "buyDate must be YYYY-MM-DD"})
		return
	}
	holding, advisory, err := h.service.AddHolding(c.Request.Context(), app.AddHoldingRequest{
		InstrumentID: req.InstrumentID,
		BuyDate:      buyDate,
		BuyPrice:     req.BuyPrice,
		Quantity:     req.Quantity,
		Confirmed:    req.Confirmed,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if holding == nil {
		// Advisory only: the client re-submits with confirmed=true to proceed.
		c.JSON(http.StatusOK, gin.H{"warning": advisory.Warning, "requiresConfirmation": true})
		return
	}
	resp := gin.H{"holding": holding}
	if advisory != nil {
		resp["warning"] = advisory.Warning
	}
	c.JSON(http.StatusCreated, resp)
}

type updateHoldingRequest struct {
	BuyDate  string  `json:"buyDate" binding:"required"`
	BuyPrice float64 `json:"buyPrice" binding:"required"`
	Quantity int64   `json:"quantity" binding:"required"`
}

func (h *Handler) UpdateHolding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req updateHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	buyDate, err := time.Parse(dateLayout, req.BuyDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "buyDate must be YYYY-MM-DD"})
		return
	}
	holding := &domain.Holding{ID: id, BuyDate: buyDate, BuyPrice: req.BuyPrice, Quantity: req.Quantity}
	if err := h.service.UpdateHolding(c.Request.Context(), holding); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, holding)
}

func (h *Handler) DeleteHolding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteHolding(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Selling ---

type sellHoldingRequest struct {
	Quantity  int64   `json:"quantity" binding:"required"`
	SellPrice float64 `json:"sellPrice" binding:"required"`
	SellDate  string  `json:"sellDate" binding:"required"`
	Confirmed bool    `json:"confirmed"`
}

func (h *Handler) SellHolding(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req sellHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sellDate, err := time.Parse(dateLayout, req.SellDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sellDate must be YYYY-MM-DD"})
		return
	}
	trade, advisory, err := h.service.SellHolding(c.Request.Context(), app.SellHoldingRequest{
		HoldingID: id,
		Quantity:  req.Quantity,
		SellPrice: req.SellPrice,
		SellDate:  sellDate,
		Confirmed: req.Confirmed,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if trade == nil {
		c.JSON(http.StatusOK, gin.H{"warning": advisory.Warning, "requiresConfirmation": true})
		return
	}
	resp := gin.H{"trade": tradeView(trade)}
	if advisory != nil {
		resp["warning"] = advisory.Warning
	}
	c.JSON(http.StatusCreated, resp)
}

type sellQuantityRequest struct {
	InstrumentID int64   `json:"instrumentId" binding:"required"`
	Quantity     int64   `json:"quantity" binding:"required"`
	SellPrice    float64 `json:"sellPrice" binding:"required"`
	SellDate     string  `json:"sellDate" binding:"required"`
	Policy       string  `json:"policy"`
	Confirmed    bool    `json:"confirmed"`
}

func (h *Handler) SellQuantity(c *gin.Context) {
	var req sellQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sellDate, err := time.Parse(dateLayout, req.SellDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sellDate must be YYYY-MM-DD"})
		return
	}
	policy := domain.MatchPolicy(req.Policy)
	if policy != "" && policy != domain.MatchFIFO && policy != domain.MatchLIFO {
		c.JSON(http.StatusBadRequest, gin.H{"error": "policy must be FIFO or LIFO"})
		return
	}
	trades, advisory, err := h.service.SellQuantity(c.Request.Context(), app.SellQuantityRequest{
		InstrumentID: req.InstrumentID,
		Quantity:     req.Quantity,
		SellPrice:    req.SellPrice,
		SellDate:     sellDate,
		Policy:       policy,
		Confirmed:    req.Confirmed,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	if trades == nil && advisory != nil {
		c.JSON(http.StatusOK, gin.H{"warning": advisory.Warning, "requiresConfirmation": true})
		return
	}
	views := make([]gin.H, 0, len(trades))
	for _, t := range trades {
		views = append(views, tradeView(t))
	}
	resp := gin.H{"trades": views}
	if advisory != nil {
		resp["warning"] = advisory.Warning
	}
	c.JSON(http.StatusCreated, resp)
}

func tradeView(t *domain.Trade) gin.H {
	return gin.H{
		"id":            t.ID,
		"instrumentId":  t.InstrumentID,
		"buyDate":       t.BuyDate.Format(dateLayout),
		"sellDate":      t.SellDate.Format(dateLayout),
		"buyPrice":      formatAmount(t.BuyPrice),
		"sellPrice":     formatAmount(t.SellPrice),
		"quantity":      t.Quantity,
		"profit":        formatAmount(t.Profit),
		"profitPercent": formatPercent(t.ProfitPercent),
		"holdingDays":   t.HoldingDays,
	}
}

// --- Views ---

func (h *Handler) ListPositions(c *gin.Context) {
	positions, err := h.service.ListPositions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]gin.H, 0, len(positions))
	for _, p := range positions {
		views = append(views, gin.H{
			"instrument":     p.Instrument,
			"quantity":       p.Quantity,
			"averagePrice":   formatAmount(p.AveragePrice),
			"investedValue":  formatAmount(p.InvestedValue),
			"cmp":            formatAmount(p.CMP),
			"currentValue":   formatAmount(p.CurrentValue),
			"notionalPL":     formatAmount(p.NotionalPL),
			"notionalPLPct":  formatPercent(p.NotionalPLPct),
			"targetPrice":    formatAmount(p.TargetPrice),
			"lastBuyPrice":   formatAmount(p.LastBuyPrice),
			"dropPercent":    formatPercent(p.DropPercent),
			"shouldAverage":  p.ShouldAverage,
			"shouldSIP":      p.ShouldSIP,
			"isBuyCandidate": p.IsBuyCandidate,
			"dma20":          formatAmount(p.DMA20),
			"dmaDistance":    formatPercent(p.DMADistance),
		})
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) RefreshQuotes(c *gin.Context) {
	refreshed, err := h.service.RefreshQuotes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"refreshed": refreshed})
}

// --- Capital ---

type addCapitalRequest struct {
	Type   string  `json:"type" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
	Date   string  `json:"date" binding:"required"`
	Note   string  `json:"note"`
}

func (h *Handler) AddCapitalTransaction(c *gin.Context) {
	var req addCapitalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	tx, err := h.service.AddCapitalTransaction(c.Request.Context(), &domain.CapitalTransaction{
		Type:   domain.CapitalTxType(req.Type),
		Amount: req.Amount,
		Date:   date,
		Note:   req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tx)
}

func (h *Handler) ListCapitalTransactions(c *gin.Context) {
	txns, err := h.service.ListCapitalTransactions(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, txns)
}

func (h *Handler) Summary(c *gin.Context) {
	result, err := h.service.Summary(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"baseCapital":      formatAmount(result.Capital.BaseCapital),
		"netCapital":       formatAmount(result.Capital.NetCapital),
		"investedValue":    formatAmount(result.Capital.InvestedValue),
		"realizedProfit":   formatAmount(result.Capital.RealizedProfit),
		"availableCapital": formatAmount(result.Capital.AvailableCapital),
		"usedPercent":      formatPercent(result.Capital.UsedPercent),
		"xirrPercent":      formatPercent(result.XIRRPercent),
	})
}

func (h *Handler) MonthlySummaries(c *gin.Context) {
	summaries, err := h.service.MonthlySummaries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	views := make([]gin.H, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, gin.H{
			"year":     s.Year,
			"month":    s.Month,
			"profit":   formatAmount(s.Profit),
			"invested": formatAmount(s.Invested),
		})
	}
	c.JSON(http.StatusOK, views)
}

// --- Settings & activity ---

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.service.Settings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var values map[string]string
	if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.service.UpdateSettings(c.Request.Context(), values); err != nil {
		respondError(c, err)
		return
	}
	settings, err := h.service.Settings(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *Handler) DailyActivity(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(dateLayout, date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	activity, err := h.service.DailyActivity(c.Request.Context(), date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, activity)
}
