package hedge

import (
	"context"
	"fmt"
	"strings"
)

// SpotLookup returns the current price of a ticker. It is the only market
// data the comparison needs and is satisfied by the tradier client.
type SpotLookup interface {
	SpotPrice(ctx context.Context, ticker string) (float64, error)
}

// ResolveSpot fills cfg.Spot from lookup. An empty ticker leaves cfg as is.
func ResolveSpot(ctx context.Context, lookup SpotLookup, ticker string, cfg Config) (Config, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return cfg, nil
	}
	if lookup == nil {
		return cfg, fmt.Errorf("resolve spot for %s: no spot lookup configured", ticker)
	}

	spot, err := lookup.SpotPrice(ctx, ticker)
	if err != nil {
		return cfg, fmt.Errorf("resolve spot for %s: %w", ticker, err)
	}
	if spot <= 0 {
		return cfg, fmt.Errorf("resolve spot for %s: non-positive price %g", ticker, spot)
	}

	cfg.Spot = spot
	return cfg, nil
}
