package hedge

import (
	"math"
	"sort"
	"time"

	"github.com/bcdannyboy/protect/pricing"
)

// ChainQuote is one listed option as seen by the screener.
type ChainQuote struct {
	Symbol     string             `json:"symbol"`
	Kind       pricing.OptionKind `json:"kind"`
	Strike     float64            `json:"strike"`
	Bid        float64            `json:"bid"`
	Ask        float64            `json:"ask"`
	Expiration time.Time          `json:"expiration"`
}

// PutCandidate is a listed put valued at its mid price.
type PutCandidate struct {
	Symbol       string                   `json:"symbol"`
	Strike       float64                  `json:"strike"`
	Expiration   time.Time                `json:"expiration"`
	DaysToExpiry int                      `json:"days_to_expiry"`
	Mid          float64                  `json:"mid"`
	OTMPct       float64                  `json:"otm_pct"`
	ImpliedVol   pricing.ImpliedVolResult `json:"implied_vol"`
	Greeks       pricing.GreeksResult     `json:"greeks"`
	// CostPerDelta is the mid price per unit of |delta|: what one point of
	// downside protection costs.
	CostPerDelta float64 `json:"cost_per_delta"`
}

// ScreenProtectivePuts solves implied volatility for every quoted put and
// ranks them by cost per unit of delta, cheapest first. Quotes without a
// two-sided market, already expired, or with zero delta are skipped.
// Candidates whose IV did not converge are kept; check ImpliedVol.Converged.
func ScreenProtectivePuts(quotes []ChainQuote, spot, riskFreeRate, dividendYield float64, now time.Time) []PutCandidate {
	var candidates []PutCandidate
	for _, q := range quotes {
		if q.Kind != pricing.Put || q.Bid <= 0 || q.Ask < q.Bid || q.Strike <= 0 {
			continue
		}
		days := q.Expiration.Sub(now).Hours() / 24
		if days <= 0 {
			continue
		}
		years := math.Min(days/365, pricing.MaxYears)

		mid := (q.Bid + q.Ask) / 2
		iv := pricing.ImpliedVolatility(spot, q.Strike, years, mid, riskFreeRate, dividendYield, pricing.Put)
		vol := math.Min(math.Max(iv.Volatility, pricing.MinVolatility), pricing.MaxVolatility)
		greeks := pricing.Price(pricing.OptionQuote{
			Spot:          spot,
			Strike:        q.Strike,
			Years:         years,
			Volatility:    vol,
			RiskFreeRate:  riskFreeRate,
			DividendYield: dividendYield,
			Kind:          pricing.Put,
		})
		if greeks.Delta == 0 {
			continue
		}

		candidates = append(candidates, PutCandidate{
			Symbol:       q.Symbol,
			Strike:       q.Strike,
			Expiration:   q.Expiration,
			DaysToExpiry: int(math.Ceil(days)),
			Mid:          mid,
			OTMPct:       1 - q.Strike/spot,
			ImpliedVol:   iv,
			Greeks:       greeks,
			CostPerDelta: mid / math.Abs(greeks.Delta),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].CostPerDelta != candidates[j].CostPerDelta {
			return candidates[i].CostPerDelta < candidates[j].CostPerDelta
		}
		return candidates[i].Strike < candidates[j].Strike
	})
	return candidates
}
