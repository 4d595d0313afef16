package protectslack

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bcdannyboy/protect/pricing"
	"github.com/bcdannyboy/protect/render"
)

// quoteArgs parses "<spot> <strike> <days> <x> <call|put>" where x is the
// volatility for /price and the market price for /iv.
func quoteArgs(text, usage string) (spot, strike, days, x float64, kind pricing.OptionKind, err error) {
	args := strings.Fields(text)
	if len(args) != 5 {
		return 0, 0, 0, 0, "", fmt.Errorf("invalid number of arguments. Usage: %s", usage)
	}

	nums := make([]float64, 4)
	for i := range nums {
		nums[i], err = strconv.ParseFloat(args[i], 64)
		if err != nil {
			return 0, 0, 0, 0, "", fmt.Errorf("invalid number %q. Usage: %s", args[i], usage)
		}
	}
	kind, err = pricing.ParseOptionKind(args[4])
	if err != nil {
		return 0, 0, 0, 0, "", err
	}
	return nums[0], nums[1], nums[2], nums[3], kind, nil
}

func codeBlock(s string) string {
	return "```\n" + strings.TrimRight(s, "\n") + "\n```"
}

type PriceHandler struct {
	riskFreeRate  float64
	dividendYield float64
}

func NewPriceHandler(riskFreeRate, dividendYield float64) *PriceHandler {
	return &PriceHandler{riskFreeRate: riskFreeRate, dividendYield: dividendYield}
}

func (h *PriceHandler) Respond(ctx context.Context, text string) (string, error) {
	spot, strike, days, vol, kind, err := quoteArgs(text, "/price <spot> <strike> <days> <vol> <call|put>")
	if err != nil {
		return "", err
	}
	q := pricing.OptionQuote{
		Spot:          spot,
		Strike:        strike,
		Years:         pricing.YearsFromDays(days),
		Volatility:    vol,
		RiskFreeRate:  h.riskFreeRate,
		DividendYield: h.dividendYield,
		Kind:          kind,
	}
	if err := q.Validate(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := render.Greeks(&buf, q, pricing.Price(q)); err != nil {
		return "", err
	}
	return codeBlock(buf.String()), nil
}

type IVHandler struct {
	riskFreeRate  float64
	dividendYield float64
}

func NewIVHandler(riskFreeRate, dividendYield float64) *IVHandler {
	return &IVHandler{riskFreeRate: riskFreeRate, dividendYield: dividendYield}
}

func (h *IVHandler) Respond(ctx context.Context, text string) (string, error) {
	spot, strike, days, price, kind, err := quoteArgs(text, "/iv <spot> <strike> <days> <price> <call|put>")
	if err != nil {
		return "", err
	}
	if spot <= 0 || strike <= 0 || days <= 0 || price <= 0 {
		return "", fmt.Errorf("%w: spot, strike, days and price must be positive", pricing.ErrInvalidQuote)
	}

	res := pricing.ImpliedVolatility(spot, strike, pricing.YearsFromDays(days), price, h.riskFreeRate, h.dividendYield, kind)
	var buf bytes.Buffer
	if err := render.ImpliedVol(&buf, res); err != nil {
		return "", err
	}
	return codeBlock(buf.String()), nil
}
