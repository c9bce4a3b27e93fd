package portfolio

import (
	"math"
	"time"
)

// Cashflow is one dated, signed flow: negative for money put in (purchases),
// positive for money taken out (sale proceeds).
type Cashflow struct {
	Amount float64
	Date   time.Time
}

const (
	xirrInitialGuess  = 0.10
	xirrMaxIterations = 100
	xirrTolerance     = 1e-7
	xirrMinDerivative = 1e-10
	daysPerYear       = 365.25
)

// XIRR solves for the annualized money-weighted rate of return (as a
// percentage) across irregularly dated cash flows, with a synthetic final
// inflow of the current unrealized portfolio value dated asOf. Fewer than
// two total flows yield 0 without iteration.
//
// Newton-Raphson from a 10% initial guess, capped at 100 iterations. There
// is no convergence guarantee for pathological patterns (all same-signed
// flows); the solver still terminates and returns its last estimate, a
// near-zero derivative aborts early rather than blowing up, and steps that
// would cross below -100% are damped back into the solvable domain.
func XIRR(flows []Cashflow, currentValue float64, asOf time.Time) float64 {
	all := make([]Cashflow, 0, len(flows)+1)
	all = append(all, flows...)
	if currentValue != 0 {
		all = append(all, Cashflow{Amount: currentValue, Date: asOf})
	}
	if len(all) < 2 {
		return 0
	}

	first := all[0].Date
	for _, f := range all[1:] {
		if f.Date.Before(first) {
			first = f.Date
		}
	}
	years := make([]float64, len(all))
	for i, f := range all {
		years[i] = f.Date.Sub(first).Hours() / 24 / daysPerYear
	}

	rate := xirrInitialGuess
	for i := 0; i < xirrMaxIterations; i++ {
		var npv, dnpv float64
		for j, f := range all {
			denom := math.Pow(1+rate, years[j])
			npv += f.Amount / denom
			dnpv -= years[j] * f.Amount / (denom * (1 + rate))
		}
		if math.Abs(dnpv) < xirrMinDerivative {
			break
		}
		next := rate - npv/dnpv
		// Deep losses make Newton overshoot below -100%, where the discount
		// factor is undefined. Halve the distance to the -1 asymptote instead
		// so the iteration stays in the solvable domain.
		if next <= -1 {
			next = (rate - 1) / 2
		}
		if math.Abs(next-rate) < xirrTolerance {
			rate = next
			break
		}
		rate = next
	}
	return rate * 100
}
