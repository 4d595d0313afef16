package hedge

import (
	"github.com/bcdannyboy/protect/models"
	"github.com/bcdannyboy/protect/pricing"
)

type Winner string

const (
	WinnerLeveragedETF Winner = "leveraged-etf"
	WinnerOption       Winner = "option"
	WinnerNeither      Winner = "neither"
)

// PutPayoffResult values the protective put after the decline. Money fields
// other than OptionValue are for the whole position.
type PutPayoffResult struct {
	PostDropSpot   float64              `json:"post_drop_spot"`
	Volatility     float64              `json:"volatility"`
	Contracts      int                  `json:"contracts"`
	OptionValue    float64              `json:"option_value"`
	PositionValue  float64              `json:"position_value"`
	PremiumPaid    float64              `json:"premium_paid"`
	PnL            float64              `json:"pnl"`
	PnLPct         float64              `json:"pnl_pct"`
	IntrinsicValue float64              `json:"intrinsic_value"`
	TimeValue      float64              `json:"time_value"`
	Greeks         pricing.GreeksResult `json:"greeks"`
}

type ScenarioRow struct {
	Decline      float64                `json:"decline"`
	Leveraged    models.LeveragedResult `json:"leveraged"`
	LeveragedPnL float64                `json:"leveraged_pnl"`
	Option       PutPayoffResult        `json:"option"`
	Winner       Winner                 `json:"winner"`
}

// Breakeven is the market move at which a strategy's PnL crosses zero.
// FallbackUsed marks a bracket boundary reported because no root was found.
type Breakeven struct {
	Decline      float64 `json:"decline"`
	FallbackUsed bool    `json:"fallback_used"`
}

type ComparisonReport struct {
	Scenarios          []ScenarioRow      `json:"scenarios"`
	LeveragedBreakeven Breakeven          `json:"leveraged_breakeven"`
	OptionBreakeven    Breakeven          `json:"option_breakeven"`
	Disclaimers        []string           `json:"disclaimers"`
	Config             Config             `json:"config"`
	VolTable           []models.VolAnchor `json:"vol_table"`
}

var disclaimers = []string{
	"Leveraged ETF results are path-dependent: the same decline reached by a different day-by-day route ends at a different value. Figures average a gradual, a front-loaded and a seeded noisy path.",
	"Option values come from a European Black-Scholes model floored at intrinsic value; early exercise, bid/ask spreads and commissions are ignored.",
	"Post-decline implied volatility is estimated by scaling the baseline IV with a static volatility-index table, not from observed quotes.",
	"The option breakeven ignores remaining time value and is therefore conservative.",
	"Scenarios are hypothetical illustrations, not forecasts or investment advice.",
}

// Disclaimers returns the caveats attached to every report.
func Disclaimers() []string {
	return append([]string(nil), disclaimers...)
}

// pickWinner returns the side with the strictly higher PnL. When neither
// side makes money, or both make the same amount, there is no winner.
func pickWinner(leveragedPnL, optionPnL float64) Winner {
	switch {
	case leveragedPnL <= 0 && optionPnL <= 0:
		return WinnerNeither
	case leveragedPnL > optionPnL:
		return WinnerLeveragedETF
	case optionPnL > leveragedPnL:
		return WinnerOption
	}
	return WinnerNeither
}
