package portfolio

import (
	"strconv"

	"etfTracker/internal/domain"
)

// Settings keys as stored in the key/value settings table.
const (
	KeyProfitTargetPercent  = "profit_target_percent"
	KeyMinProfitAmount      = "min_profit_amount"
	KeyPerTransactionAmount = "per_transaction_amount"
	KeyTotalCapital         = "total_capital"
	KeyMinVolume            = "min_volume"
	KeyAveragingThreshold   = "averaging_threshold"
	KeyMaxDailyBuys         = "max_daily_buys"
	KeyMaxDailySells        = "max_daily_sells"
)

// DefaultSettings returns the documented defaults applied when a key is
// missing or unparseable.
func DefaultSettings() domain.Settings {
	return domain.Settings{
		ProfitTargetPercent:  6,
		MinProfitAmount:      500,
		PerTransactionAmount: 10000,
		TotalCapital:         500000,
		MinVolume:            15000,
		AveragingThreshold:   2.5,
		MaxDailyBuys:         1,
		MaxDailySells:        1,
	}
}

// ParseSettings converts raw key/value settings rows into typed fields,
// falling back to the default for any missing or invalid value.
func ParseSettings(raw map[string]string) domain.Settings {
	s := DefaultSettings()
	s.ProfitTargetPercent = parseFloat(raw, KeyProfitTargetPercent, s.ProfitTargetPercent)
	s.MinProfitAmount = parseFloat(raw, KeyMinProfitAmount, s.MinProfitAmount)
	s.PerTransactionAmount = parseFloat(raw, KeyPerTransactionAmount, s.PerTransactionAmount)
	s.TotalCapital = parseFloat(raw, KeyTotalCapital, s.TotalCapital)
	s.MinVolume = parseFloat(raw, KeyMinVolume, s.MinVolume)
	s.AveragingThreshold = parseFloat(raw, KeyAveragingThreshold, s.AveragingThreshold)
	s.MaxDailyBuys = parseInt(raw, KeyMaxDailyBuys, s.MaxDailyBuys)
	s.MaxDailySells = parseInt(raw, KeyMaxDailySells, s.MaxDailySells)
	return s
}

func parseFloat(raw map[string]string, key string, defaultValue float64) float64 {
	valueStr, ok := raw[key]
	if !ok || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func parseInt(raw map[string]string, key string, defaultValue int) int {
	valueStr, ok := raw[key]
	if !ok || valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
