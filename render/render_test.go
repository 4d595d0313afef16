package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/bcdannyboy/protect/hedge"
	"github.com/bcdannyboy/protect/pricing"
)

func TestMoney(t *testing.T) {
	tests := map[float64]string{
		0:        "$0.00",
		1234.5:   "$1234.50",
		10.455:   "$10.46",
		-2500.25: "-$2500.25",
		-0.004:   "$0.00",
	}
	for in, want := range tests {
		if got := Money(in); got != want {
			t.Errorf("Money(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := map[float64]string{
		-0.05:   "-5.00%",
		0.2:     "20.00%",
		-0.1234: "-12.34%",
	}
	for in, want := range tests {
		if got := Percent(in); got != want {
			t.Errorf("Percent(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestGreeks(t *testing.T) {
	q := pricing.OptionQuote{Spot: 100, Strike: 100, Years: 1, Volatility: 0.2, RiskFreeRate: 0.05, Kind: pricing.Call}
	var buf bytes.Buffer
	if err := Greeks(&buf, q, pricing.Price(q)); err != nil {
		t.Fatalf("Greeks() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"CALL", "$10.45", "Delta", "ATM"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestParity(t *testing.T) {
	var buf bytes.Buffer
	if err := Parity(&buf, pricing.ParityResult{Difference: 0.5, Tolerance: 0.1, Arbitrage: true}); err != nil {
		t.Fatalf("Parity() error: %v", err)
	}
	if !strings.Contains(buf.String(), "possible arbitrage") {
		t.Errorf("expected arbitrage verdict:\n%s", buf.String())
	}
}

func TestComparison(t *testing.T) {
	report, err := hedge.NewEngine(nil, nil).Compare([]float64{-0.1, -0.3}, hedge.DefaultConfig())
	if err != nil {
		t.Fatalf("Compare() error: %v", err)
	}

	var buf bytes.Buffer
	if err := Comparison(&buf, report); err != nil {
		t.Fatalf("Comparison() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"-10.00%", "-30.00%", "Leveraged ETF breakeven", "Put breakeven", "path-dependent"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "boundary shown") {
		t.Errorf("default bracket should contain the root:\n%s", out)
	}
}

func TestChain(t *testing.T) {
	var buf bytes.Buffer
	if err := Chain(&buf, nil); err != nil {
		t.Fatalf("Chain() error: %v", err)
	}
	if !strings.Contains(buf.String(), "No puts") {
		t.Errorf("expected empty message, got %q", buf.String())
	}

	buf.Reset()
	candidates := []hedge.PutCandidate{{
		Symbol:       "SPY240315P00430000",
		Strike:       430,
		Expiration:   time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		DaysToExpiry: 30,
		Mid:          3.2,
		OTMPct:       0.1,
		ImpliedVol:   pricing.ImpliedVolResult{Volatility: 0.22, Converged: false},
		Greeks:       pricing.GreeksResult{Delta: -0.15},
		CostPerDelta: 21.33,
	}}
	if err := Chain(&buf, candidates); err != nil {
		t.Fatalf("Chain() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"2024-03-15", "$430.00", "22.00%*", "-0.150"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
