package domain

// Settings is the singleton trading-discipline configuration, stored as
// key/value rows and parsed into typed fields with documented defaults.
// Every field is independently settable via partial update.
type Settings struct {
	ProfitTargetPercent  float64 // Minimum percentage return target (default 6)
	MinProfitAmount      float64 // Minimum absolute profit floor per sell (default 500)
	PerTransactionAmount float64 // Suggested amount per buy (default 10000)
	TotalCapital         float64 // Base capital, distinct from the ledger's net figure (default 500000)
	MinVolume            float64 // Market-data volume filter (default 15000)
	AveragingThreshold   float64 // Drop % required to list a held ETF as a buy candidate (default 2.5)
	MaxDailyBuys         int     // Soft cap on buys per day (default 1)
	MaxDailySells        int     // Soft cap on sells per day (default 1)
}
