package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/bcdannyboy/protect/pricing"
	"github.com/bcdannyboy/protect/render"
)

// quoteFlags registers the inputs shared by price, iv and parity.
func quoteFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("spot", 0, "underlying price")
	cmd.Flags().Float64("strike", 0, "strike price")
	cmd.Flags().Float64("days", 0, "calendar days to expiry")
	cmd.Flags().Float64("years", 0, "years to expiry (overrides --days)")
	cmd.Flags().Float64("rate", 0, "risk-free rate (default: hedge.risk_free_rate)")
	cmd.Flags().Float64("div", 0, "continuous dividend yield (default: hedge.dividend_yield)")
	cmd.MarkFlagRequired("spot")
	cmd.MarkFlagRequired("strike")
}

type quoteInputs struct {
	spot, strike, years, rate, div float64
}

func readQuoteFlags(cmd *cobra.Command) quoteInputs {
	f := cmd.Flags()
	in := quoteInputs{rate: cfg.Hedge.RiskFreeRate, div: cfg.Hedge.DividendYield}
	in.spot, _ = f.GetFloat64("spot")
	in.strike, _ = f.GetFloat64("strike")
	if f.Changed("years") {
		in.years, _ = f.GetFloat64("years")
	} else {
		days, _ := f.GetFloat64("days")
		in.years = pricing.YearsFromDays(days)
	}
	if f.Changed("rate") {
		in.rate, _ = f.GetFloat64("rate")
	}
	if f.Changed("div") {
		in.div, _ = f.GetFloat64("div")
	}
	return in
}

func readKind(cmd *cobra.Command) (pricing.OptionKind, error) {
	s, _ := cmd.Flags().GetString("kind")
	return pricing.ParseOptionKind(s)
}

var priceCmd = &cobra.Command{
	Use:   "price",
	Short: "Black-Scholes price and Greeks for one option",
	Example: `  protect price --spot 100 --strike 100 --days 365 --vol 0.2 --rate 0.05 --kind call
  protect price --spot 480 --strike 432 --days 60 --vol 0.25 --kind put --extended --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := readQuoteFlags(cmd)
		kind, err := readKind(cmd)
		if err != nil {
			return err
		}
		vol, _ := cmd.Flags().GetFloat64("vol")

		q := pricing.OptionQuote{
			Spot:          in.spot,
			Strike:        in.strike,
			Years:         in.years,
			Volatility:    vol,
			RiskFreeRate:  in.rate,
			DividendYield: in.div,
			Kind:          kind,
		}
		if err := q.Validate(); err != nil {
			return err
		}
		greeks := pricing.Price(q)

		extended, _ := cmd.Flags().GetBool("extended")
		if !extended {
			return output(cmd, greeks, func(w io.Writer) error {
				return render.Greeks(w, q, greeks)
			})
		}

		higher := pricing.CalculateHigherOrderGreeks(q)
		result := struct {
			pricing.GreeksResult
			HigherOrder pricing.HigherOrderGreeks `json:"higher_order"`
		}{greeks, higher}
		return output(cmd, result, func(w io.Writer) error {
			if err := render.Greeks(w, q, greeks); err != nil {
				return err
			}
			return render.HigherOrder(w, higher)
		})
	},
}

var ivCmd = &cobra.Command{
	Use:   "iv",
	Short: "Implied volatility from an observed option price",
	Example: `  protect iv --spot 100 --strike 100 --days 365 --price 10.45 --rate 0.05 --kind call`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := readQuoteFlags(cmd)
		kind, err := readKind(cmd)
		if err != nil {
			return err
		}
		price, _ := cmd.Flags().GetFloat64("price")
		if in.spot <= 0 || in.strike <= 0 || in.years <= 0 || price <= 0 {
			return fmt.Errorf("%w: spot, strike, time and price must be positive", pricing.ErrInvalidQuote)
		}

		res := pricing.ImpliedVolatility(in.spot, in.strike, in.years, price, in.rate, in.div, kind)
		if !res.Converged {
			logger.Warn("implied volatility did not converge",
				"iterations", res.Iterations, "pricing_error", res.PricingError)
		}
		return output(cmd, res, func(w io.Writer) error {
			return render.ImpliedVol(w, res)
		})
	},
}

var parityCmd = &cobra.Command{
	Use:   "parity",
	Short: "Check put-call parity for a call/put pair",
	Example: `  protect parity --call 10.45 --put 5.57 --spot 100 --strike 100 --years 1 --rate 0.05`,
	RunE: func(cmd *cobra.Command, args []string) error {
		in := readQuoteFlags(cmd)
		call, _ := cmd.Flags().GetFloat64("call")
		put, _ := cmd.Flags().GetFloat64("put")
		if in.spot <= 0 || in.strike <= 0 || in.years <= 0 {
			return fmt.Errorf("%w: spot, strike and time must be positive", pricing.ErrInvalidQuote)
		}

		res := pricing.CheckPutCallParity(call, put, in.spot, in.strike, in.years, in.rate, in.div)
		return output(cmd, res, func(w io.Writer) error {
			return render.Parity(w, res)
		})
	},
}

func init() {
	quoteFlags(priceCmd)
	priceCmd.Flags().Float64("vol", 0.2, "annualized volatility")
	priceCmd.Flags().String("kind", "call", "option kind (call|put)")
	priceCmd.Flags().Bool("extended", false, "also compute shadow gamma and vomma")

	quoteFlags(ivCmd)
	ivCmd.Flags().Float64("price", 0, "observed option price")
	ivCmd.Flags().String("kind", "call", "option kind (call|put)")
	ivCmd.MarkFlagRequired("price")

	quoteFlags(parityCmd)
	parityCmd.Flags().Float64("call", 0, "call price")
	parityCmd.Flags().Float64("put", 0, "put price")
	parityCmd.MarkFlagRequired("call")
	parityCmd.MarkFlagRequired("put")
}
