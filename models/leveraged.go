package models

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

const TradingDaysPerYear = 252

// LeveragedETF describes a fund that targets Leverage times the daily index
// return and charges ExpenseRatio per year.
type LeveragedETF struct {
	Leverage     float64 `json:"leverage"`
	ExpenseRatio float64 `json:"expense_ratio"`
}

// DailyFee spreads the annual expense ratio over trading days.
func (e LeveragedETF) DailyFee() float64 {
	return e.ExpenseRatio / TradingDaysPerYear
}

type PathEndings struct {
	Gradual     float64 `json:"gradual"`
	FrontLoaded float64 `json:"front_loaded"`
	Noisy       float64 `json:"noisy"`
}

// LeveragedResult is the outcome of holding a leveraged fund through a path
// set. Drag is the naive multiple minus what compounding actually delivered.
type LeveragedResult struct {
	Initial        float64     `json:"initial"`
	Ending         float64     `json:"ending"`
	RealizedReturn float64     `json:"realized_return"`
	NaiveReturn    float64     `json:"naive_return"`
	Drag           float64     `json:"drag"`
	Paths          PathEndings `json:"paths"`
	FallbackUsed   bool        `json:"fallback_used"`
}

// CompoundLeveraged applies value *= 1 + leverage*r - dailyFee for every day.
// The value is floored at zero after each step: a fund that would go
// negative has already been wiped out.
func CompoundLeveraged(returns []float64, leverage, dailyFee, initial float64) float64 {
	value := initial
	for _, r := range returns {
		value *= 1 + leverage*r - dailyFee
		value = math.Max(value, 0)
	}
	return value
}

// SimulateLeveraged runs initial through each path of paths and averages the
// three ending values.
func SimulateLeveraged(paths LeveragedPathSet, etf LeveragedETF, initial float64) LeveragedResult {
	fee := etf.DailyFee()
	endings := PathEndings{
		Gradual:     CompoundLeveraged(paths.Gradual, etf.Leverage, fee, initial),
		FrontLoaded: CompoundLeveraged(paths.FrontLoaded, etf.Leverage, fee, initial),
		Noisy:       CompoundLeveraged(paths.Noisy, etf.Leverage, fee, initial),
	}

	ending := stat.Mean([]float64{endings.Gradual, endings.FrontLoaded, endings.Noisy}, nil)
	realized := 0.0
	if initial > 0 {
		realized = ending/initial - 1
	}
	naive := etf.Leverage * paths.TargetReturn

	return LeveragedResult{
		Initial:        initial,
		Ending:         ending,
		RealizedReturn: realized,
		NaiveReturn:    naive,
		Drag:           naive - realized,
		Paths:          endings,
		FallbackUsed:   paths.FallbackUsed,
	}
}
