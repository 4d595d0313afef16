package pricing

import (
	"errors"
	"fmt"
)

// ErrInvalidQuote is returned by OptionQuote.Validate for inputs the
// pricing formulas are undefined for.
var ErrInvalidQuote = errors.New("invalid option quote")

type OptionKind string

const (
	Call OptionKind = "call"
	Put  OptionKind = "put"
)

// ParseOptionKind accepts "call"/"put" and the single-letter and CE/PE forms.
func ParseOptionKind(s string) (OptionKind, error) {
	switch s {
	case "call", "CALL", "Call", "c", "C", "CE":
		return Call, nil
	case "put", "PUT", "Put", "p", "P", "PE":
		return Put, nil
	}
	return "", fmt.Errorf("unknown option kind %q", s)
}

type Moneyness string

const (
	ITM Moneyness = "ITM"
	ATM Moneyness = "ATM"
	OTM Moneyness = "OTM"
)

const (
	MinVolatility = 0.01
	MaxVolatility = 3.0
	MaxYears      = 10.0
)

// OptionQuote holds the inputs of a single pricing call.
type OptionQuote struct {
	Spot          float64    `json:"spot"`
	Strike        float64    `json:"strike"`
	Years         float64    `json:"years"`
	Volatility    float64    `json:"volatility"`
	RiskFreeRate  float64    `json:"risk_free_rate"`
	DividendYield float64    `json:"dividend_yield"`
	Kind          OptionKind `json:"kind"`
}

// Validate rejects quotes outside the supported domain. Price does not call
// it; callers are expected to validate before pricing.
func (q OptionQuote) Validate() error {
	switch {
	case q.Spot <= 0:
		return fmt.Errorf("%w: spot must be positive, got %g", ErrInvalidQuote, q.Spot)
	case q.Strike <= 0:
		return fmt.Errorf("%w: strike must be positive, got %g", ErrInvalidQuote, q.Strike)
	case q.Years <= 0 || q.Years > MaxYears:
		return fmt.Errorf("%w: time to expiry must be in (0, %g] years, got %g", ErrInvalidQuote, MaxYears, q.Years)
	case q.Volatility < MinVolatility || q.Volatility > MaxVolatility:
		return fmt.Errorf("%w: volatility must be in [%g, %g], got %g", ErrInvalidQuote, MinVolatility, MaxVolatility, q.Volatility)
	case q.Kind != Call && q.Kind != Put:
		return fmt.Errorf("%w: unknown option kind %q", ErrInvalidQuote, q.Kind)
	}
	return nil
}

// GreeksResult is the fair value and sensitivities of one option. Theta is
// per calendar day, Vega and Rho per 1% move in volatility and rate.
type GreeksResult struct {
	Price          float64   `json:"price"`
	IntrinsicValue float64   `json:"intrinsic_value"`
	TimeValue      float64   `json:"time_value"`
	Delta          float64   `json:"delta"`
	Gamma          float64   `json:"gamma"`
	Theta          float64   `json:"theta"`
	Vega           float64   `json:"vega"`
	Rho            float64   `json:"rho"`
	Moneyness      Moneyness `json:"moneyness"`
}

type ImpliedVolResult struct {
	Volatility   float64 `json:"volatility"`
	Iterations   int     `json:"iterations"`
	Converged    bool    `json:"converged"`
	MarketPrice  float64 `json:"market_price"`
	ModelPrice   float64 `json:"model_price"`
	PricingError float64 `json:"pricing_error"`
}

type ParityResult struct {
	LHS        float64 `json:"lhs"`
	RHS        float64 `json:"rhs"`
	Difference float64 `json:"difference"`
	Arbitrage  bool    `json:"arbitrage"`
	Tolerance  float64 `json:"tolerance"`
}

// HigherOrderGreeks are finite-difference sensitivities not covered by the
// closed-form set.
type HigherOrderGreeks struct {
	ShadowUpGamma   float64 `json:"shadow_up_gamma"`
	ShadowDownGamma float64 `json:"shadow_down_gamma"`
	Vomma           float64 `json:"vomma"`
}
