package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"github.com/xhhuango/json"

	"github.com/bcdannyboy/protect/hedge"
	"github.com/bcdannyboy/protect/models"
	"github.com/bcdannyboy/protect/render"
	"github.com/bcdannyboy/protect/tradier"
)

const realizedVolWindow = 20

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the inverse ETF and the protective put across declines",
	Example: `  protect compare
  protect compare --ticker SPY --strike 450 --premium 6.1 --scenarios -5%,-10%,-20%
  protect compare --scenarios -0.1,-0.3 --json --out report.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		hcfg, err := compareConfig(cmd)
		if err != nil {
			return err
		}

		scenarios := cfg.Scenarios()
		if s, _ := cmd.Flags().GetString("scenarios"); s != "" {
			if scenarios, err = hedge.ParseScenarios(s); err != nil {
				return err
			}
		}

		if ticker, _ := cmd.Flags().GetString("ticker"); ticker != "" {
			client, err := newTradierClient()
			if err != nil {
				return err
			}
			if hcfg, err = hedge.ResolveSpot(cmd.Context(), client, ticker, hcfg); err != nil {
				return err
			}
			logger.Info("resolved spot", "ticker", ticker, "spot", hcfg.Spot)

			if realized, _ := cmd.Flags().GetBool("realized-vol"); realized {
				name, _ := cmd.Flags().GetString("vol-estimator")
				est, err := models.ParseEstimator(name)
				if err != nil {
					return err
				}
				if hcfg.DailyVolatility, err = realizedDailyVol(cmd.Context(), client, ticker, est); err != nil {
					return err
				}
				logger.Info("using realized daily volatility",
					"ticker", ticker, "estimator", est, "daily_volatility", hcfg.DailyVolatility)
			}
		}

		table, err := cfg.BuildVolTable()
		if err != nil {
			return err
		}
		report, err := hedge.NewEngine(table, logger).Compare(scenarios, hcfg)
		if err != nil {
			return err
		}

		if out, _ := cmd.Flags().GetString("out"); out != "" {
			b, err := json.Marshal(report)
			if err != nil {
				return fmt.Errorf("failed to marshal report: %w", err)
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			logger.Info("report written", "path", out)
		}

		return output(cmd, report, func(w io.Writer) error {
			return render.Comparison(w, report)
		})
	},
}

// compareConfig applies explicitly set flags on top of the loaded config.
func compareConfig(cmd *cobra.Command) (hedge.Config, error) {
	hcfg := cfg.HedgeConfig()
	f := cmd.Flags()

	floats := map[string]*float64{
		"spot":        &hcfg.Spot,
		"strike":      &hcfg.Strike,
		"premium":     &hcfg.Premium,
		"allocation":  &hcfg.Allocation,
		"baseline-iv": &hcfg.BaselineIV,
		"daily-vol":   &hcfg.DailyVolatility,
		"rate":        &hcfg.RiskFreeRate,
		"leverage":    &hcfg.Leverage,
	}
	for name, dst := range floats {
		if f.Changed(name) {
			*dst, _ = f.GetFloat64(name)
		}
	}

	ints := map[string]*int{
		"contracts": &hcfg.Contracts,
		"hold":      &hcfg.HoldingDays,
		"dte":       &hcfg.DaysToExpiry,
	}
	for name, dst := range ints {
		if f.Changed(name) {
			*dst, _ = f.GetInt(name)
		}
	}

	if f.Changed("seed") {
		hcfg.Seed, _ = f.GetUint64("seed")
	}
	if hcfg.Parallelism == 0 {
		hcfg.Parallelism = defaultParallelism()
	}
	return hcfg, hcfg.Validate()
}

// realizedDailyVol estimates daily volatility from roughly the last month of
// trading.
func realizedDailyVol(ctx context.Context, client *tradier.Client, ticker string, est models.Estimator) (float64, error) {
	end := time.Now()
	bars, err := client.History(ctx, ticker, end.AddDate(0, 0, -2*realizedVolWindow), end)
	if err != nil {
		return 0, err
	}
	vol := models.RealizedVolatility(bars, realizedVolWindow, est)
	if vol <= 0 {
		return 0, fmt.Errorf("not enough history for %s to estimate volatility", ticker)
	}
	return vol, nil
}

var chainCmd = &cobra.Command{
	Use:     "chain",
	Short:   "Rank listed puts by cost per unit of delta",
	Example: `  protect chain --ticker SPY --min-dte 30 --max-dte 120 --max-otm 0.15`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ticker, _ := cmd.Flags().GetString("ticker")
		minDTE, _ := cmd.Flags().GetInt("min-dte")
		maxDTE, _ := cmd.Flags().GetInt("max-dte")
		maxOTM, _ := cmd.Flags().GetFloat64("max-otm")
		limit, _ := cmd.Flags().GetInt("limit")
		if minDTE > maxDTE {
			return fmt.Errorf("--min-dte %d is after --max-dte %d", minDTE, maxDTE)
		}

		client, err := newTradierClient()
		if err != nil {
			return err
		}
		spot, err := client.SpotPrice(cmd.Context(), ticker)
		if err != nil {
			return err
		}
		now := time.Now()
		var onChain func(done, total int)
		finish := func() {}
		if show, _ := cmd.Flags().GetBool("progress"); show {
			onChain, finish = chainProgress(cmd.ErrOrStderr())
		}
		puts, err := client.PutChains(cmd.Context(), ticker, now, minDTE, maxDTE, onChain)
		finish()
		if err != nil {
			return err
		}

		hcfg := cfg.HedgeConfig()
		var candidates []hedge.PutCandidate
		for _, c := range hedge.ScreenProtectivePuts(puts, spot, hcfg.RiskFreeRate, hcfg.DividendYield, now) {
			if c.OTMPct < 0 || c.OTMPct > maxOTM {
				continue
			}
			candidates = append(candidates, c)
			if limit > 0 && len(candidates) == limit {
				break
			}
		}
		logger.Info("screened puts", "ticker", ticker, "spot", spot, "quoted", len(puts), "shown", len(candidates))

		return output(cmd, candidates, func(w io.Writer) error {
			return render.Chain(w, candidates)
		})
	},
}

// chainProgress draws a bar on w as option chains arrive. finish must be
// called once fetching stops, successfully or not.
func chainProgress(w io.Writer) (update func(done, total int), finish func()) {
	p := mpb.New(mpb.WithOutput(w), mpb.WithWidth(64))
	var bar *mpb.Bar
	update = func(done, total int) {
		if bar == nil {
			bar = p.AddBar(int64(total),
				mpb.PrependDecorators(
					decor.Name("Chains"),
					decor.Percentage(decor.WCSyncSpace),
				),
				mpb.AppendDecorators(
					decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
				),
			)
		}
		bar.SetCurrent(int64(done))
	}
	finish = func() {
		if bar != nil && !bar.Completed() {
			bar.Abort(false)
		}
		p.Wait()
	}
	return update, finish
}

func init() {
	f := compareCmd.Flags()
	f.String("ticker", "", "resolve spot from Tradier for this ticker")
	f.String("scenarios", "", "comma-separated declines, e.g. -0.05,-0.1 or -5%,-10%")
	f.Float64("spot", 0, "index spot price")
	f.Float64("strike", 0, "put strike")
	f.Float64("premium", 0, "put premium per share")
	f.Float64("allocation", 0, "capital per hedge")
	f.Int("contracts", 0, "put contracts (0 sizes from allocation)")
	f.Float64("baseline-iv", 0, "put implied volatility before the decline")
	f.Float64("daily-vol", 0, "daily volatility of the noisy path")
	f.Float64("rate", 0, "risk-free rate")
	f.Float64("leverage", 0, "fund leverage, e.g. -3")
	f.Int("hold", 0, "holding period in trading days")
	f.Int("dte", 0, "put days to expiry at purchase")
	f.Uint64("seed", 0, "noisy path seed")
	f.Bool("realized-vol", false, "with --ticker, estimate daily vol from recent history")
	f.String("vol-estimator", string(models.YangZhang), "realized vol estimator: close-to-close, parkinson, garman-klass, rogers-satchell, yang-zhang")
	f.String("out", "", "also write the JSON report to this file")

	chainCmd.Flags().String("ticker", "SPY", "underlying ticker")
	chainCmd.Flags().Int("min-dte", 30, "minimum days to expiry")
	chainCmd.Flags().Int("max-dte", 120, "maximum days to expiry")
	chainCmd.Flags().Float64("max-otm", 0.20, "maximum fraction out of the money")
	chainCmd.Flags().Int("limit", 20, "maximum rows (0 for all)")
	chainCmd.Flags().Bool("progress", true, "show a progress bar while fetching chains")
}
