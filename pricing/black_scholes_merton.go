package pricing

import (
	"math"
)

const (
	daysPerYear = 365.0
	// moneynessBand is the half-width of the ATM band around the strike.
	moneynessBand = 0.02
)

// Price returns the Black-Scholes-Merton fair value and Greeks of q.
//
// The reported price is floored at intrinsic value so a European quote never
// undercuts immediate exercise. The Greeks are the European closed forms,
// except theta, which is capped at zero: deep in-the-money puts with a
// positive rate and calls with a high dividend yield would otherwise report
// value growing with time while the price sits on the intrinsic floor.
// q must satisfy Validate; the formulas are undefined otherwise.
func Price(q OptionQuote) GreeksResult {
	S, K, T := q.Spot, q.Strike, q.Years
	r, div, sigma := q.RiskFreeRate, q.DividendYield, q.Volatility
	isCall := q.Kind == Call

	d1, d2 := calculateD1D2(S, K, T, r, div, sigma)
	sqrtT := math.Sqrt(T)
	discR := math.Exp(-r * T)
	discQ := math.Exp(-div * T)
	pdfD1 := normPDF(d1)

	price := europeanPrice(S, K, T, r, div, sigma, isCall)
	intrinsic := IntrinsicValue(S, K, q.Kind)
	price = math.Max(price, intrinsic)

	gamma := discQ * pdfD1 / (S * sigma * sqrtT)
	vega := S * discQ * pdfD1 * sqrtT
	decay := -S * discQ * pdfD1 * sigma / (2 * sqrtT)

	var delta, theta, rho float64
	if isCall {
		delta = discQ * normCDF(d1)
		theta = decay - r*K*discR*normCDF(d2) + div*S*discQ*normCDF(d1)
		rho = K * T * discR * normCDF(d2)
	} else {
		delta = discQ * (normCDF(d1) - 1)
		theta = decay + r*K*discR*normCDF(-d2) - div*S*discQ*normCDF(-d1)
		rho = -K * T * discR * normCDF(-d2)
	}

	return GreeksResult{
		Price:          price,
		IntrinsicValue: intrinsic,
		TimeValue:      price - intrinsic,
		Delta:          sanitizeFloat(delta),
		Gamma:          sanitizeFloat(gamma),
		Theta:          sanitizeFloat(math.Min(theta, 0) / daysPerYear),
		Vega:           sanitizeFloat(vega / 100),
		Rho:            sanitizeFloat(rho / 100),
		Moneyness:      ClassifyMoneyness(S, K, q.Kind),
	}
}

// europeanPrice is the unfloored-at-intrinsic model price, clamped at zero
// to absorb negative rounding noise deep out of the money.
func europeanPrice(S, K, T, r, div, sigma float64, isCall bool) float64 {
	d1, d2 := calculateD1D2(S, K, T, r, div, sigma)
	var price float64
	if isCall {
		price = S*math.Exp(-div*T)*normCDF(d1) - K*math.Exp(-r*T)*normCDF(d2)
	} else {
		price = K*math.Exp(-r*T)*normCDF(-d2) - S*math.Exp(-div*T)*normCDF(-d1)
	}
	return math.Max(price, 0)
}

func calculateD1D2(S, K, T, r, div, sigma float64) (float64, float64) {
	volSqrtT := sigma * math.Sqrt(T)
	d1 := (math.Log(S/K) + (r-div+0.5*sigma*sigma)*T) / volSqrtT
	return d1, d1 - volSqrtT
}

// ClassifyMoneyness labels a spot/strike pair using a 2% band around the strike.
func ClassifyMoneyness(spot, strike float64, kind OptionKind) Moneyness {
	above := spot > strike*(1+moneynessBand)
	below := spot < strike*(1-moneynessBand)
	switch {
	case above && kind == Call, below && kind == Put:
		return ITM
	case above, below:
		return OTM
	}
	return ATM
}
