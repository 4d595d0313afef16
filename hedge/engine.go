package hedge

import (
	"fmt"
	"log/slog"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/bcdannyboy/protect/models"
	"github.com/bcdannyboy/protect/pricing"
)

// Engine compares a leveraged inverse fund against a protective put across
// market-decline scenarios. It holds no mutable state and is safe for
// concurrent use.
type Engine struct {
	volTable *models.VolTable
	logger   *slog.Logger
}

// NewEngine returns an Engine using volTable to move implied volatility with
// the decline. A nil volTable uses the default anchors; a nil logger
// discards output.
func NewEngine(volTable *models.VolTable, logger *slog.Logger) *Engine {
	if volTable == nil {
		volTable = models.DefaultVolTable()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{volTable: volTable, logger: logger}
}

func (e *Engine) VolTable() *models.VolTable {
	return e.volTable
}

// Compare evaluates every decline in declines under cfg. Scenarios run in
// parallel up to cfg.Parallelism; rows keep the order of declines and the
// result depends only on the inputs.
func (e *Engine) Compare(declines []float64, cfg Config) (*ComparisonReport, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateScenarios(declines); err != nil {
		return nil, err
	}

	rows := make([]ScenarioRow, len(declines))
	var g errgroup.Group
	if cfg.Parallelism > 0 {
		g.SetLimit(cfg.Parallelism)
	}
	for i, decline := range declines {
		g.Go(func() error {
			rows[i] = e.EvaluateScenario(decline, cfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluate scenarios: %w", err)
	}

	report := &ComparisonReport{
		Scenarios:          rows,
		LeveragedBreakeven: LeveragedBreakeven(cfg),
		OptionBreakeven:    OptionBreakeven(cfg.Spot, cfg.Strike, cfg.Premium),
		Disclaimers:        Disclaimers(),
		Config:             cfg,
		VolTable:           e.volTable.Anchors(),
	}

	if report.LeveragedBreakeven.FallbackUsed {
		e.logger.Warn("leveraged breakeven not bracketed, reporting boundary",
			"lower", cfg.BreakevenLower, "upper", cfg.BreakevenUpper,
			"reported", report.LeveragedBreakeven.Decline)
	}
	e.logger.Info("comparison complete",
		"scenarios", len(rows),
		"leveraged_breakeven", report.LeveragedBreakeven.Decline,
		"option_breakeven", report.OptionBreakeven.Decline)

	return report, nil
}

// EvaluateScenario prices both hedges for a single decline. cfg must be valid.
func (e *Engine) EvaluateScenario(decline float64, cfg Config) ScenarioRow {
	paths := models.GeneratePaths(decline, cfg.HoldingDays, cfg.DailyVolatility, cfg.Seed)
	leveraged := models.SimulateLeveraged(paths, cfg.etf(), cfg.Allocation)
	leveragedPnL := leveraged.Ending - leveraged.Initial

	option := e.valuePut(decline, cfg)

	row := ScenarioRow{
		Decline:      decline,
		Leveraged:    leveraged,
		LeveragedPnL: leveragedPnL,
		Option:       option,
		Winner:       pickWinner(leveragedPnL, option.PnL),
	}

	if paths.FallbackUsed && cfg.DailyVolatility > 0 {
		e.logger.Warn("noisy path fell back to gradual", "decline", decline, "daily_volatility", cfg.DailyVolatility)
	}
	e.logger.Debug("scenario evaluated",
		"decline", decline,
		"leveraged_pnl", leveragedPnL,
		"option_pnl", option.PnL,
		"drag", leveraged.Drag,
		"winner", row.Winner)

	return row
}

func (e *Engine) valuePut(decline float64, cfg Config) PutPayoffResult {
	spot := cfg.Spot * (1 + decline)
	vol := e.volTable.ScaleIV(cfg.BaselineIV, decline)
	vol = math.Min(math.Max(vol, pricing.MinVolatility), pricing.MaxVolatility)

	greeks := pricing.Price(pricing.OptionQuote{
		Spot:          spot,
		Strike:        cfg.Strike,
		Years:         cfg.remainingYears(),
		Volatility:    vol,
		RiskFreeRate:  cfg.RiskFreeRate,
		DividendYield: cfg.DividendYield,
		Kind:          pricing.Put,
	})

	contracts := cfg.ContractCount()
	shares := float64(contracts * sharesPerContract)
	premiumPaid := cfg.Premium * shares
	positionValue := greeks.Price * shares
	pnl := positionValue - premiumPaid

	return PutPayoffResult{
		PostDropSpot:   spot,
		Volatility:     vol,
		Contracts:      contracts,
		OptionValue:    greeks.Price,
		PositionValue:  positionValue,
		PremiumPaid:    premiumPaid,
		PnL:            pnl,
		PnLPct:         pnl / premiumPaid,
		IntrinsicValue: greeks.IntrinsicValue,
		TimeValue:      greeks.TimeValue,
		Greeks:         greeks,
	}
}
