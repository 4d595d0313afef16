// Package render formats pricing and comparison results as plain-text tables
// for the terminal and Slack.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/bcdannyboy/protect/hedge"
	"github.com/bcdannyboy/protect/pricing"
)

var hundred = decimal.NewFromInt(100)

// Money formats v as dollars rounded half away from zero to the cent.
func Money(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(2)
	}
	return "$" + d.StringFixed(2)
}

// Percent formats a fraction as a percentage with two decimals.
func Percent(v float64) string {
	return decimal.NewFromFloat(v).Mul(hundred).StringFixed(2) + "%"
}

func number(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func Greeks(w io.Writer, q pricing.OptionQuote, g pricing.GreeksResult) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "%s %s strike, spot %s, %s years, vol %s\n",
		strings.ToUpper(string(q.Kind)), Money(q.Strike), Money(q.Spot), number(q.Years, 4), Percent(q.Volatility))
	fmt.Fprintf(tw, "Price\t%s\n", Money(g.Price))
	fmt.Fprintf(tw, "Intrinsic\t%s\n", Money(g.IntrinsicValue))
	fmt.Fprintf(tw, "Time value\t%s\n", Money(g.TimeValue))
	fmt.Fprintf(tw, "Delta\t%s\n", number(g.Delta, 4))
	fmt.Fprintf(tw, "Gamma\t%s\n", number(g.Gamma, 4))
	fmt.Fprintf(tw, "Theta (per day)\t%s\n", number(g.Theta, 4))
	fmt.Fprintf(tw, "Vega (per vol pt)\t%s\n", number(g.Vega, 4))
	fmt.Fprintf(tw, "Rho (per rate pt)\t%s\n", number(g.Rho, 4))
	fmt.Fprintf(tw, "Moneyness\t%s\n", g.Moneyness)
	return tw.Flush()
}

func HigherOrder(w io.Writer, h pricing.HigherOrderGreeks) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Shadow gamma (up)\t%s\n", number(h.ShadowUpGamma, 4))
	fmt.Fprintf(tw, "Shadow gamma (down)\t%s\n", number(h.ShadowDownGamma, 4))
	fmt.Fprintf(tw, "Vomma\t%s\n", number(h.Vomma, 4))
	return tw.Flush()
}

func ImpliedVol(w io.Writer, r pricing.ImpliedVolResult) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Implied vol\t%s\n", Percent(r.Volatility))
	fmt.Fprintf(tw, "Converged\t%t\n", r.Converged)
	fmt.Fprintf(tw, "Iterations\t%d\n", r.Iterations)
	fmt.Fprintf(tw, "Market price\t%s\n", Money(r.MarketPrice))
	fmt.Fprintf(tw, "Model price\t%s\n", Money(r.ModelPrice))
	fmt.Fprintf(tw, "Pricing error\t%s\n", number(r.PricingError, 6))
	return tw.Flush()
}

func Parity(w io.Writer, r pricing.ParityResult) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "C - P\t%s\n", number(r.LHS, 4))
	fmt.Fprintf(tw, "S*e^-qT - K*e^-rT\t%s\n", number(r.RHS, 4))
	fmt.Fprintf(tw, "Difference\t%s\n", number(r.Difference, 4))
	fmt.Fprintf(tw, "Tolerance\t%s\n", number(r.Tolerance, 2))
	verdict := "parity holds"
	if r.Arbitrage {
		verdict = "possible arbitrage"
	}
	fmt.Fprintf(tw, "Verdict\t%s\n", verdict)
	return tw.Flush()
}

// Comparison writes the scenario table, both breakevens and the disclaimers.
func Comparison(w io.Writer, r *hedge.ComparisonReport) error {
	cfg := r.Config
	fmt.Fprintf(w, "Spot %s, %s put for %s, %d days held, %gx fund, %s allocated\n\n",
		Money(cfg.Spot), Money(cfg.Strike), Money(cfg.Premium), cfg.HoldingDays, cfg.Leverage, Money(cfg.Allocation))

	tw := newTable(w)
	fmt.Fprintln(tw, "Decline\tETF value\tETF P&L\tDrag\tPut IV\tPut value\tPut P&L\tWinner")
	for _, row := range r.Scenarios {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			Percent(row.Decline),
			Money(row.Leveraged.Ending),
			Money(row.LeveragedPnL),
			Percent(row.Leveraged.Drag),
			Percent(row.Option.Volatility),
			Money(row.Option.PositionValue),
			Money(row.Option.PnL),
			row.Winner)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nLeveraged ETF breakeven: %s%s\n", Percent(r.LeveragedBreakeven.Decline), fallbackNote(r.LeveragedBreakeven))
	fmt.Fprintf(w, "Put breakeven at expiry: %s\n\n", Percent(r.OptionBreakeven.Decline))
	for _, d := range r.Disclaimers {
		fmt.Fprintf(w, "* %s\n", d)
	}
	return nil
}

func fallbackNote(b hedge.Breakeven) string {
	if b.FallbackUsed {
		return " (no root in search range, boundary shown)"
	}
	return ""
}

func Chain(w io.Writer, candidates []hedge.PutCandidate) error {
	if len(candidates) == 0 {
		_, err := fmt.Fprintln(w, "No puts with a two-sided market.")
		return err
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Symbol\tExpiry\tDTE\tStrike\tOTM\tMid\tIV\tDelta\tCost/delta")
	for _, c := range candidates {
		iv := Percent(c.ImpliedVol.Volatility)
		if !c.ImpliedVol.Converged {
			iv += "*"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			c.Symbol,
			c.Expiration.Format("2006-01-02"),
			c.DaysToExpiry,
			Money(c.Strike),
			Percent(c.OTMPct),
			Money(c.Mid),
			iv,
			number(c.Greeks.Delta, 3),
			Money(c.CostPerDelta))
	}
	return tw.Flush()
}
