package models

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrInvalidVolTable = errors.New("invalid vol table")

// VolAnchor maps a market decline (0 or negative) to a volatility-index level.
type VolAnchor struct {
	Decline float64 `mapstructure:"decline" json:"decline"`
	Level   float64 `mapstructure:"level"   json:"level"`
}

// DefaultVolAnchors approximates where the volatility index has traded at a
// given drawdown across past crises (1987, 2008, 2011, 2018, 2020, 2022).
var DefaultVolAnchors = []VolAnchor{
	{Decline: 0, Level: 15},
	{Decline: -0.05, Level: 20},
	{Decline: -0.10, Level: 25},
	{Decline: -0.15, Level: 30},
	{Decline: -0.20, Level: 35},
	{Decline: -0.30, Level: 45},
	{Decline: -0.40, Level: 60},
	{Decline: -0.50, Level: 80},
}

// VolTable is an immutable piecewise-linear lookup from decline to level.
// Anchors are kept sorted from most to least severe.
type VolTable struct {
	anchors []VolAnchor
}

func NewVolTable(anchors []VolAnchor) (*VolTable, error) {
	if len(anchors) == 0 {
		return nil, fmt.Errorf("%w: no anchors", ErrInvalidVolTable)
	}

	sorted := make([]VolAnchor, len(anchors))
	copy(sorted, anchors)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Decline < sorted[j].Decline
	})

	for i, a := range sorted {
		if math.IsNaN(a.Decline) || math.IsInf(a.Decline, 0) || a.Decline > 0 {
			return nil, fmt.Errorf("%w: decline must be a finite value <= 0, got %g", ErrInvalidVolTable, a.Decline)
		}
		if !(a.Level > 0) || math.IsInf(a.Level, 0) {
			return nil, fmt.Errorf("%w: level must be positive, got %g at decline %g", ErrInvalidVolTable, a.Level, a.Decline)
		}
		if i > 0 && sorted[i-1].Decline == a.Decline {
			return nil, fmt.Errorf("%w: duplicate decline %g", ErrInvalidVolTable, a.Decline)
		}
	}

	return &VolTable{anchors: sorted}, nil
}

// DefaultVolTable builds a table from DefaultVolAnchors.
func DefaultVolTable() *VolTable {
	t, err := NewVolTable(DefaultVolAnchors)
	if err != nil {
		panic(err)
	}
	return t
}

// Anchors returns a copy of the anchors, most severe first.
func (t *VolTable) Anchors() []VolAnchor {
	out := make([]VolAnchor, len(t.anchors))
	copy(out, t.anchors)
	return out
}

// Baseline is the level with no decline: the least severe anchor.
func (t *VolTable) Baseline() float64 {
	return t.anchors[len(t.anchors)-1].Level
}

// Level returns the index level at decline. Declines milder than the least
// severe anchor get that anchor's level; declines beyond the most severe
// anchor extrapolate along the last segment but never drop below it.
func (t *VolTable) Level(decline float64) float64 {
	n := len(t.anchors)
	mildest := t.anchors[n-1]
	if decline >= mildest.Decline {
		return mildest.Level
	}

	worst := t.anchors[0]
	if decline < worst.Decline {
		if n == 1 {
			return worst.Level
		}
		next := t.anchors[1]
		slope := (next.Level - worst.Level) / (next.Decline - worst.Decline)
		return math.Max(worst.Level+slope*(decline-worst.Decline), worst.Level)
	}

	i := sort.Search(n, func(i int) bool {
		return t.anchors[i].Decline >= decline
	})
	hi := t.anchors[i]
	if hi.Decline == decline {
		return hi.Level
	}
	lo := t.anchors[i-1]
	w := (decline - lo.Decline) / (hi.Decline - lo.Decline)
	return lo.Level + w*(hi.Level-lo.Level)
}

// ScaleIV moves baselineIV by the table's relative change between no decline
// and decline.
func (t *VolTable) ScaleIV(baselineIV, decline float64) float64 {
	return baselineIV * t.Level(decline) / t.Baseline()
}
