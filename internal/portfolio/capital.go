package portfolio

import "etfTracker/internal/domain"

// SummarizeCapital aggregates the capital base, manual additions and
// withdrawals, realized profit and currently invested value into a
// capital-usage snapshot. No incremental balance is maintained anywhere;
// the summary is recomputed from the full history on every read.
func SummarizeCapital(baseCapital float64, txns []*domain.CapitalTransaction, holdings []*domain.Holding, trades []*domain.Trade) domain.CapitalSummary {
	net := baseCapital
	for _, tx := range txns {
		switch tx.Type {
		case domain.CapitalAdd:
			net += tx.Amount
		case domain.CapitalWithdraw:
			net -= tx.Amount
		}
	}

	invested := InvestedValue(holdings)

	var realized float64
	for _, t := range trades {
		realized += t.Profit
	}

	usedPercent := 0.0
	if net > 0 {
		usedPercent = invested / net * 100
	}

	return domain.CapitalSummary{
		BaseCapital:      baseCapital,
		NetCapital:       net,
		InvestedValue:    invested,
		RealizedProfit:   realized,
		AvailableCapital: net - invested + realized,
		UsedPercent:      usedPercent,
	}
}
