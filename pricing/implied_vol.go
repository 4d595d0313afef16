package pricing

import (
	"math"
)

const (
	ivInitialGuess  = 0.30
	ivPriceTol      = 0.0001
	ivMaxIterations = 100
	ivMinVol        = 0.01
	ivMaxVol        = 5.0
)

// ImpliedVolatility recovers the volatility that reproduces marketPrice using
// Newton-Raphson on Price. It never fails: when the solver stalls on zero
// vega or runs out of iterations it returns its last estimate with
// Converged set to false.
func ImpliedVolatility(spot, strike, years, marketPrice, riskFreeRate, dividendYield float64, kind OptionKind) ImpliedVolResult {
	q := OptionQuote{
		Spot:          spot,
		Strike:        strike,
		Years:         years,
		Volatility:    ivInitialGuess,
		RiskFreeRate:  riskFreeRate,
		DividendYield: dividendYield,
		Kind:          kind,
	}

	for i := 1; i <= ivMaxIterations; i++ {
		g := Price(q)
		diff := marketPrice - g.Price
		if math.Abs(diff) < ivPriceTol {
			return ivResult(q.Volatility, i, true, marketPrice, g.Price)
		}
		if g.Vega == 0 {
			return ivResult(q.Volatility, i, false, marketPrice, g.Price)
		}

		// Vega is quoted per 1% of volatility.
		q.Volatility += diff / (g.Vega * 100)
		q.Volatility = math.Min(math.Max(q.Volatility, ivMinVol), ivMaxVol)
	}

	return ivResult(q.Volatility, ivMaxIterations, false, marketPrice, Price(q).Price)
}

func ivResult(vol float64, iterations int, converged bool, marketPrice, modelPrice float64) ImpliedVolResult {
	return ImpliedVolResult{
		Volatility:   vol,
		Iterations:   iterations,
		Converged:    converged,
		MarketPrice:  marketPrice,
		ModelPrice:   modelPrice,
		PricingError: math.Abs(marketPrice - modelPrice),
	}
}
