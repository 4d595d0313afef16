package pricing

const (
	shadowPriceShock = 0.01
	shadowVolShock   = 0.05
	vommaVolStep     = 0.01
)

// ShadowGamma measures how delta moves when spot and volatility shift
// together, as they do in a selloff. Returns the up and down gammas.
func ShadowGamma(q OptionQuote, priceChange, volChange float64) (float64, float64) {
	originalDelta := Price(q).Delta

	up := q
	up.Spot = q.Spot * (1 + priceChange)
	up.Volatility = q.Volatility * (1 + volChange)
	shadowUpGamma := (Price(up).Delta - originalDelta) / (up.Spot - q.Spot)

	down := q
	down.Spot = q.Spot * (1 - priceChange)
	down.Volatility = q.Volatility * (1 - volChange)
	shadowDownGamma := (originalDelta - Price(down).Delta) / (q.Spot - down.Spot)

	return shadowUpGamma, shadowDownGamma
}

// Vomma is the central difference of vega with respect to volatility.
func Vomma(q OptionQuote, volStep float64) float64 {
	up, down := q, q
	up.Volatility += volStep
	down.Volatility -= volStep
	return (Price(up).Vega - Price(down).Vega) / (2 * volStep)
}

// CalculateHigherOrderGreeks applies the default shocks to q.
func CalculateHigherOrderGreeks(q OptionQuote) HigherOrderGreeks {
	upGamma, downGamma := ShadowGamma(q, shadowPriceShock, shadowVolShock)
	return HigherOrderGreeks{
		ShadowUpGamma:   sanitizeFloat(upGamma),
		ShadowDownGamma: sanitizeFloat(downGamma),
		Vomma:           sanitizeFloat(Vomma(q, vommaVolStep)),
	}
}
