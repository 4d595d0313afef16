package main

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xhhuango/json"

	"github.com/bcdannyboy/protect/hedge"
	"github.com/bcdannyboy/protect/pricing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("protect %s: %v\nstderr: %s", strings.Join(args, " "), err, errOut.String())
	}
	return out.String()
}

func TestVersion(t *testing.T) {
	if got := run(t, "version"); !strings.HasPrefix(got, "protect dev") {
		t.Errorf("got %q", got)
	}
}

func TestPriceJSON(t *testing.T) {
	got := run(t, "price", "--spot", "100", "--strike", "100", "--years", "1",
		"--vol", "0.2", "--rate", "0.05", "--kind", "call", "--json=true")

	var res pricing.GreeksResult
	if err := json.Unmarshal([]byte(got), &res); err != nil {
		t.Fatalf("unmarshal %q: %v", got, err)
	}
	if math.Abs(res.Price-10.450583572185565) > 1e-9 {
		t.Errorf("Price: got %v", res.Price)
	}
	if res.Moneyness != pricing.ATM {
		t.Errorf("Moneyness: got %v", res.Moneyness)
	}
}

func TestIVText(t *testing.T) {
	got := run(t, "iv", "--spot", "100", "--strike", "100", "--years", "1",
		"--price", "10.450583572185565", "--rate", "0.05", "--kind", "call", "--json=false")
	if !strings.Contains(got, "20.00%") {
		t.Errorf("expected 20%% implied vol:\n%s", got)
	}
}

func TestCompareJSONAndOut(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	got := run(t, "compare", "--scenarios", "-0.1,-0.4", "--out", path, "--json=true")

	var report hedge.ComparisonReport
	if err := json.Unmarshal([]byte(got), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(report.Scenarios) != 2 {
		t.Fatalf("expected 2 scenarios, got %d", len(report.Scenarios))
	}
	if report.Scenarios[1].Winner != hedge.WinnerOption {
		t.Errorf("40%% crash: got winner %s", report.Scenarios[1].Winner)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report file: %v", err)
	}
	var fromFile hedge.ComparisonReport
	if err := json.Unmarshal(written, &fromFile); err != nil {
		t.Fatalf("unmarshal file: %v", err)
	}
	if fromFile.OptionBreakeven != report.OptionBreakeven {
		t.Errorf("file and stdout reports differ")
	}
}

func TestCompareFlagsOverrideConfig(t *testing.T) {
	got := run(t, "compare", "--scenarios", "-20%", "--spot", "500", "--strike", "450",
		"--premium", "4", "--seed", "9", "--out", "", "--json=true")

	var report hedge.ComparisonReport
	if err := json.Unmarshal([]byte(got), &report); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	c := report.Config
	if c.Spot != 500 || c.Strike != 450 || c.Premium != 4 || c.Seed != 9 {
		t.Errorf("flags not applied: %+v", c)
	}
	if c.HoldingDays != hedge.DefaultConfig().HoldingDays {
		t.Errorf("unset flags should keep config values: %+v", c)
	}
}
