package pricing

import "math"

// ParityTolerance is the largest call-put mismatch, in currency units, that
// is still attributed to transaction costs.
const ParityTolerance = 0.10

// CheckPutCallParity compares C - P against S*e^(-qT) - K*e^(-rT).
func CheckPutCallParity(callPrice, putPrice, spot, strike, years, riskFreeRate, dividendYield float64) ParityResult {
	lhs := callPrice - putPrice
	rhs := spot*math.Exp(-dividendYield*years) - strike*math.Exp(-riskFreeRate*years)
	diff := math.Abs(lhs - rhs)

	return ParityResult{
		LHS:        lhs,
		RHS:        rhs,
		Difference: diff,
		Arbitrage:  diff > ParityTolerance,
		Tolerance:  ParityTolerance,
	}
}
