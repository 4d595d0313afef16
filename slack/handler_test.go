package protectslack

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bcdannyboy/protect/hedge"
)

type fakeSpot struct {
	price float64
	err   error
}

func (f fakeSpot) SpotPrice(ctx context.Context, ticker string) (float64, error) {
	return f.price, f.err
}

func newTestHandler(lookup hedge.SpotLookup) *Handler {
	return NewHandler(hedge.NewEngine(nil, nil), hedge.DefaultConfig(), nil, lookup, nil)
}

func TestReply(t *testing.T) {
	h := newTestHandler(fakeSpot{price: 500})
	ctx := context.Background()

	tests := []struct {
		name     string
		command  string
		text     string
		contains []string
	}{
		{"help", "/help", "", []string{"/price", "/iv", "/hedge"}},
		{"unknown", "/nope", "", []string{"Unknown command /nope"}},
		{"price", "/price", "100 100 365 0.2 call", []string{"```", "CALL", "Delta", "ATM"}},
		{"price usage", "/price", "100 100", []string{"Usage: /price"}},
		{"price bad number", "/price", "abc 100 30 0.2 put", []string{`invalid number "abc"`}},
		{"price bad kind", "/price", "100 100 30 0.2 straddle", []string{"/price:"}},
		{"price out of range", "/price", "100 100 30 5 put", []string{"invalid option quote"}},
		{"iv", "/iv", "100 100 365 10.45 call", []string{"Implied vol", "Converged", "true"}},
		{"iv non-positive", "/iv", "100 100 30 0 put", []string{"must be positive"}},
		{"hedge defaults", "/hedge", "", []string{"-5.00%", "-40.00%", "Put breakeven"}},
		{"hedge scenarios", "/hedge", "-0.15,-0.25", []string{"-15.00%", "-25.00%"}},
		{"hedge ticker", "/hedge", "SPY -10%", []string{"Spot $500.00", "-10.00%"}},
		{"hedge bad scenario", "/hedge", "-100%", []string{"/hedge:"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := h.Reply(ctx, tt.command, tt.text)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("reply missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestHedgeLookupFailure(t *testing.T) {
	h := newTestHandler(fakeSpot{err: errors.New("market closed")})
	got := h.Reply(context.Background(), "/hedge", "SPY")
	if !strings.Contains(got, "market closed") {
		t.Errorf("expected lookup error in reply, got %q", got)
	}

	h = newTestHandler(nil)
	got = h.Reply(context.Background(), "/hedge", "SPY")
	if !strings.Contains(got, "no spot lookup") {
		t.Errorf("expected missing lookup error, got %q", got)
	}
}
