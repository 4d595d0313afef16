package models

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Bar is one daily OHLC record.
type Bar struct {
	Date  string  `json:"date"`
	Open  float64 `json:"open"`
	High  float64 `json:"high"`
	Low   float64 `json:"low"`
	Close float64 `json:"close"`
}

// Estimator names a realized volatility estimator over OHLC bars.
type Estimator string

const (
	CloseToClose   Estimator = "close-to-close"
	Parkinson      Estimator = "parkinson"
	GarmanKlass    Estimator = "garman-klass"
	RogersSatchell Estimator = "rogers-satchell"
	YangZhang      Estimator = "yang-zhang"
)

var Estimators = []Estimator{CloseToClose, Parkinson, GarmanKlass, RogersSatchell, YangZhang}

func ParseEstimator(s string) (Estimator, error) {
	e := Estimator(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Estimators {
		if e == known {
			return e, nil
		}
	}
	return "", fmt.Errorf("unknown volatility estimator %q", s)
}

// RealizedVolatility estimates daily (not annualized) volatility from the last
// window bars with est. A window of 0 uses every bar. It returns 0 when there
// is not enough usable data.
func RealizedVolatility(bars []Bar, window int, est Estimator) float64 {
	if window > 0 && len(bars) > window {
		bars = bars[len(bars)-window:]
	}
	for _, b := range bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return 0
		}
	}

	switch est {
	case CloseToClose:
		return closeToClose(bars)
	case Parkinson:
		return parkinson(bars)
	case GarmanKlass:
		return garmanKlass(bars)
	case RogersSatchell:
		return math.Sqrt(rogersSatchellVariance(bars))
	case YangZhang:
		return yangZhang(bars)
	}
	return 0
}

// YangZhangVolatility is RealizedVolatility with the Yang-Zhang estimator,
// which handles both opening gaps and intraday drift.
func YangZhangVolatility(bars []Bar, window int) float64 {
	return RealizedVolatility(bars, window, YangZhang)
}

func closeToClose(bars []Bar) float64 {
	if len(bars) < 3 {
		return 0
	}
	returns := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		returns[i-1] = math.Log(bars[i].Close / bars[i-1].Close)
	}
	return stat.StdDev(returns, nil)
}

func parkinson(bars []Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	sq := make([]float64, len(bars))
	for i, b := range bars {
		hl := math.Log(b.High / b.Low)
		sq[i] = hl * hl
	}
	return math.Sqrt(stat.Mean(sq, nil) / (4 * math.Ln2))
}

func garmanKlass(bars []Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	terms := make([]float64, len(bars))
	for i, b := range bars {
		hl := math.Log(b.High / b.Low)
		co := math.Log(b.Close / b.Open)
		terms[i] = 0.5*hl*hl - (2*math.Ln2-1)*co*co
	}
	return math.Sqrt(math.Max(stat.Mean(terms, nil), 0))
}

func rogersSatchellVariance(bars []Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	rs := make([]float64, len(bars))
	for i, b := range bars {
		rs[i] = math.Log(b.High/b.Close)*math.Log(b.High/b.Open) +
			math.Log(b.Low/b.Close)*math.Log(b.Low/b.Open)
	}
	return stat.Mean(rs, nil)
}

func yangZhang(bars []Bar) float64 {
	n := len(bars)
	if n < 2 {
		return 0
	}

	overnight := make([]float64, n-1)
	for i := 1; i < n; i++ {
		overnight[i-1] = math.Log(bars[i].Open / bars[i-1].Close)
	}
	openClose := make([]float64, n)
	for i, b := range bars {
		openClose[i] = math.Log(b.Close / b.Open)
	}

	overnightVar := 0.0
	if len(overnight) > 1 {
		overnightVar = stat.Variance(overnight, nil)
	}
	openCloseVar := stat.Variance(openClose, nil)

	k := 0.34 / (1.34 + float64(n+1)/float64(n-1))
	return math.Sqrt(overnightVar + k*openCloseVar + (1-k)*rogersSatchellVariance(bars))
}

// Annualize scales a daily volatility to a yearly one.
func Annualize(dailyVol float64) float64 {
	return dailyVol * math.Sqrt(TradingDaysPerYear)
}
