package indicators

// DMAPeriod is the moving-average window used as the buy-signal baseline.
const DMAPeriod = 20

// DMA computes the simple moving average of the most recent period closes,
// or of all closes when history is shorter than the period. Closes are
// expected most recent last. No data yields 0.
func DMA(closes []float64, period int) float64 {
	if len(closes) == 0 || period <= 0 {
		return 0
	}
	window := period
	if len(closes) < window {
		window = len(closes)
	}
	total := 0.0
	for i := len(closes) - window; i < len(closes); i++ {
		total += closes[i]
	}
	return total / float64(window)
}

// Distance is the signed percentage distance of the current price from the
// moving average. A zero average (no history) yields 0.
func Distance(cmp, dma float64) float64 {
	if dma == 0 {
		return 0
	}
	return (cmp - dma) / dma * 100
}
