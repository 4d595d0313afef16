package hedge

import (
	"math"

	"github.com/bcdannyboy/protect/models"
)

const (
	bisectMaxIterations = 200
	bisectTolerance     = 1e-10
)

// LeveragedBreakeven finds the decline at which the fund returns exactly the
// allocation, using the gradual path so the answer is deterministic. If the
// bracket holds no root it reports the boundary that is already profitable,
// or the lower boundary when neither is.
func LeveragedBreakeven(cfg Config) Breakeven {
	etf := cfg.etf()
	fee := etf.DailyFee()
	pnl := func(decline float64) float64 {
		path := models.GradualPath(decline, cfg.HoldingDays)
		return models.CompoundLeveraged(path, etf.Leverage, fee, cfg.Allocation) - cfg.Allocation
	}

	root, ok := bisect(pnl, cfg.BreakevenLower, cfg.BreakevenUpper)
	if ok {
		return Breakeven{Decline: root}
	}
	// Both ends share a sign: either both profitable or neither is.
	if pnl(cfg.BreakevenUpper) > 0 {
		return Breakeven{Decline: cfg.BreakevenUpper, FallbackUsed: true}
	}
	return Breakeven{Decline: cfg.BreakevenLower, FallbackUsed: true}
}

// OptionBreakeven is the move at which intrinsic value equals the premium
// paid, (strike - premium - spot) / spot. Time value is ignored.
func OptionBreakeven(spot, strike, premium float64) Breakeven {
	return Breakeven{Decline: (strike - premium - spot) / spot}
}

// bisect finds a root of f in [lo, hi]. It reports false when f has the same
// strict sign at both ends.
func bisect(f func(float64) float64, lo, hi float64) (float64, bool) {
	flo, fhi := f(lo), f(hi)
	switch {
	case flo == 0:
		return lo, true
	case fhi == 0:
		return hi, true
	case math.Signbit(flo) == math.Signbit(fhi):
		return 0, false
	}

	mid := lo
	for i := 0; i < bisectMaxIterations && hi-lo > bisectTolerance; i++ {
		mid = lo + (hi-lo)/2
		fmid := f(mid)
		if fmid == 0 {
			return mid, true
		}
		if math.Signbit(fmid) == math.Signbit(flo) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}
	}
	return lo + (hi-lo)/2, true
}
