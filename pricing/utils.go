package pricing

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// IntrinsicValue is the immediate-exercise value of an option.
func IntrinsicValue(spot, strike float64, kind OptionKind) float64 {
	if kind == Call {
		return math.Max(0, spot-strike)
	}
	return math.Max(0, strike-spot)
}

// YearsFromDays converts calendar days to the year fraction used by Price.
func YearsFromDays(days float64) float64 {
	return days / daysPerYear
}

func sanitizeFloat(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

func normPDF(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}
