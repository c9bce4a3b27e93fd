package portfolio

// Fixed advisory thresholds for buying more of an already-held instrument.
// These are deliberately separate from the configurable averaging threshold
// used by the buy-candidate listing filter; the two rules must not be merged.
const (
	averageDownThreshold = 5.0
	sipThreshold         = 10.0
)

// DropPercent is the percentage fall from the most recent purchase price to
// the current price. Returns 0 when the last buy price is 0; a negative
// result means the price has risen.
func DropPercent(lastBuyPrice, currentPrice float64) float64 {
	if lastBuyPrice == 0 {
		return 0
	}
	return (lastBuyPrice - currentPrice) / lastBuyPrice * 100
}

// ShouldAverage reports whether the drop since the last purchase warrants
// averaging down. Strictly greater than 5%: a 5.0% drop does not trigger.
func ShouldAverage(lastBuyPrice, currentPrice float64) bool {
	return DropPercent(lastBuyPrice, currentPrice) > averageDownThreshold
}

// ShouldSIP reports whether the drop is deep enough to justify a systematic
// investment purchase. Strictly greater than 10%.
func ShouldSIP(lastBuyPrice, currentPrice float64) bool {
	return DropPercent(lastBuyPrice, currentPrice) > sipThreshold
}

// IsBuyCandidate is the configurable listing gate: an already-held
// instrument is shown on the buy list only when the drop since the last
// purchase has reached the configured averaging threshold (inclusive).
func IsBuyCandidate(lastBuyPrice, currentPrice, averagingThreshold float64) bool {
	return DropPercent(lastBuyPrice, currentPrice) >= averagingThreshold
}
