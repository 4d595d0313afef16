package protectslack

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/bcdannyboy/protect/hedge"
	"github.com/bcdannyboy/protect/render"
)

const spotLookupTimeout = 10 * time.Second

type HedgeHandler struct {
	engine    *hedge.Engine
	cfg       hedge.Config
	scenarios []float64
	lookup    hedge.SpotLookup
}

func NewHedgeHandler(engine *hedge.Engine, cfg hedge.Config, scenarios []float64, lookup hedge.SpotLookup) *HedgeHandler {
	if engine == nil {
		engine = hedge.NewEngine(nil, nil)
	}
	return &HedgeHandler{engine: engine, cfg: cfg, scenarios: scenarios, lookup: lookup}
}

// Respond accepts an optional ticker and an optional comma-separated list of
// declines, in either order.
func (h *HedgeHandler) Respond(ctx context.Context, text string) (string, error) {
	cfg := h.cfg
	scenarios := h.scenarios
	if len(scenarios) == 0 {
		scenarios = hedge.DefaultScenarios
	}

	var ticker string
	for _, arg := range strings.Fields(text) {
		if declines, err := hedge.ParseScenarios(arg); err == nil {
			scenarios = declines
			continue
		}
		ticker = arg
	}

	if ticker != "" {
		lookupCtx, cancel := context.WithTimeout(ctx, spotLookupTimeout)
		defer cancel()
		var err error
		cfg, err = hedge.ResolveSpot(lookupCtx, h.lookup, ticker, cfg)
		if err != nil {
			return "", err
		}
	}

	report, err := h.engine.Compare(scenarios, cfg)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := render.Comparison(&buf, report); err != nil {
		return "", err
	}
	return codeBlock(buf.String()), nil
}
