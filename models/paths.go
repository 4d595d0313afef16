package models

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// FrontLoadDays is how many sessions the front-loaded path takes to reach
	// the target.
	FrontLoadDays = 5
	// DefaultSeed keeps the noisy path reproducible when no seed is supplied.
	DefaultSeed uint64 = 42
)

// LeveragedPathSet holds three daily-return paths that each compound to
// TargetReturn over Days sessions.
type LeveragedPathSet struct {
	TargetReturn float64   `json:"target_return"`
	Days         int       `json:"days"`
	Gradual      []float64 `json:"gradual"`
	FrontLoaded  []float64 `json:"front_loaded"`
	Noisy        []float64 `json:"noisy"`
	// FallbackUsed reports that the noisy path could not be rescaled and
	// was replaced by the gradual one.
	FallbackUsed bool `json:"fallback_used"`
}

// GeneratePaths builds the gradual, front-loaded and noisy paths for a
// cumulative underlying move. The noisy path draws Normal(0, dailyVol) noise
// from a source seeded with seed, so equal inputs give equal paths.
// targetReturn must be greater than -1.
func GeneratePaths(targetReturn float64, days int, dailyVol float64, seed uint64) LeveragedPathSet {
	if days < 1 {
		days = 1
	}

	gradual := GradualPath(targetReturn, days)
	frontLoaded := constantPath(targetReturn, min(FrontLoadDays, days), days)
	noisy, ok := noisyPath(targetReturn, days, dailyVol, seed)
	if !ok {
		noisy = append([]float64(nil), gradual...)
	}

	return LeveragedPathSet{
		TargetReturn: targetReturn,
		Days:         days,
		Gradual:      gradual,
		FrontLoaded:  frontLoaded,
		Noisy:        noisy,
		FallbackUsed: !ok,
	}
}

// GradualPath is the constant-return path alone, for callers that need a
// deterministic path without drawing noise.
func GradualPath(targetReturn float64, days int) []float64 {
	if days < 1 {
		days = 1
	}
	return constantPath(targetReturn, days, days)
}

// DailyRate is the constant per-session return r with (1+r)^days = 1+target.
func DailyRate(targetReturn float64, days int) float64 {
	return math.Pow(1+targetReturn, 1/float64(days)) - 1
}

// constantPath reaches the target in activeDays equal steps and stays flat
// for the rest of the path.
func constantPath(targetReturn float64, activeDays, days int) []float64 {
	path := make([]float64, days)
	r := DailyRate(targetReturn, activeDays)
	for i := 0; i < activeDays; i++ {
		path[i] = r
	}
	return path
}

func noisyPath(targetReturn float64, days int, dailyVol float64, seed uint64) ([]float64, bool) {
	if dailyVol <= 0 || targetReturn <= -1 {
		return nil, false
	}

	base := DailyRate(targetReturn, days)
	noise := distuv.Normal{Mu: 0, Sigma: dailyVol, Src: rand.NewSource(seed)}

	growth := make([]float64, days)
	for i := range growth {
		growth[i] = 1 + base + noise.Rand()
		if growth[i] <= 0 {
			return nil, false
		}
	}

	product := floats.Prod(growth)
	if !(product > 0) || math.IsInf(product, 0) {
		return nil, false
	}

	// One uniform factor per day makes the product land exactly on target.
	factor := math.Pow((1+targetReturn)/product, 1/float64(days))
	path := make([]float64, days)
	for i, g := range growth {
		path[i] = g*factor - 1
	}
	return path, true
}

// CumulativeReturn compounds a path of daily returns.
func CumulativeReturn(path []float64) float64 {
	growth := make([]float64, len(path))
	for i, r := range path {
		growth[i] = 1 + r
	}
	return floats.Prod(growth) - 1
}
