package hedge

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bcdannyboy/protect/models"
	"github.com/bcdannyboy/protect/pricing"
)

var ErrInvalidConfig = errors.New("invalid hedge config")

const sharesPerContract = 100

// Config is the fixed set of parameters shared by every scenario of a
// comparison. It is copied into the report unchanged.
type Config struct {
	Spot            float64 `mapstructure:"spot"             json:"spot"`
	Strike          float64 `mapstructure:"strike"           json:"strike"`
	Premium         float64 `mapstructure:"premium"          json:"premium"`
	Contracts       int     `mapstructure:"contracts"        json:"contracts"`
	Allocation      float64 `mapstructure:"allocation"       json:"allocation"`
	BaselineIV      float64 `mapstructure:"baseline_iv"      json:"baseline_iv"`
	// HoldingDays counts trading sessions; DaysToExpiry counts calendar days.
	HoldingDays     int     `mapstructure:"holding_days"     json:"holding_days"`
	DaysToExpiry    int     `mapstructure:"days_to_expiry"   json:"days_to_expiry"`
	DailyVolatility float64 `mapstructure:"daily_volatility" json:"daily_volatility"`
	RiskFreeRate    float64 `mapstructure:"risk_free_rate"   json:"risk_free_rate"`
	DividendYield   float64 `mapstructure:"dividend_yield"   json:"dividend_yield"`
	Leverage        float64 `mapstructure:"leverage"         json:"leverage"`
	ExpenseRatio    float64 `mapstructure:"expense_ratio"    json:"expense_ratio"`
	Seed            uint64  `mapstructure:"seed"             json:"seed"`
	Parallelism     int     `mapstructure:"parallelism"      json:"parallelism"`
	BreakevenLower  float64 `mapstructure:"breakeven_lower"  json:"breakeven_lower"`
	BreakevenUpper  float64 `mapstructure:"breakeven_upper"  json:"breakeven_upper"`
}

// DefaultConfig is a 10% out-of-the-money index put against a -3x fund.
func DefaultConfig() Config {
	return Config{
		Spot:            480,
		Strike:          432,
		Premium:         5,
		Allocation:      10000,
		BaselineIV:      0.20,
		HoldingDays:     30,
		DaysToExpiry:    90,
		DailyVolatility: 0.015,
		RiskFreeRate:    0.045,
		Leverage:        -3,
		ExpenseRatio:    0.0095,
		Seed:            models.DefaultSeed,
		Parallelism:     4,
		BreakevenLower:  -0.90,
		BreakevenUpper:  0,
	}
}

// DefaultScenarios are the market declines compared when none are given.
var DefaultScenarios = []float64{-0.05, -0.10, -0.20, -0.30, -0.40}

func (c Config) Validate() error {
	switch {
	case c.Spot <= 0:
		return fmt.Errorf("%w: spot must be positive", ErrInvalidConfig)
	case c.Strike <= 0:
		return fmt.Errorf("%w: strike must be positive", ErrInvalidConfig)
	case c.Premium <= 0:
		return fmt.Errorf("%w: premium must be positive", ErrInvalidConfig)
	case c.Contracts < 0:
		return fmt.Errorf("%w: contracts must not be negative", ErrInvalidConfig)
	case c.Allocation <= 0:
		return fmt.Errorf("%w: allocation must be positive", ErrInvalidConfig)
	case c.BaselineIV < pricing.MinVolatility || c.BaselineIV > pricing.MaxVolatility:
		return fmt.Errorf("%w: baseline IV must be in [%g, %g]", ErrInvalidConfig, pricing.MinVolatility, pricing.MaxVolatility)
	case c.HoldingDays < 1:
		return fmt.Errorf("%w: holding days must be at least 1", ErrInvalidConfig)
	case c.DaysToExpiry < 1 || float64(c.DaysToExpiry) > pricing.MaxYears*365:
		return fmt.Errorf("%w: days to expiry must be in [1, %g]", ErrInvalidConfig, pricing.MaxYears*365)
	case c.DailyVolatility < 0:
		return fmt.Errorf("%w: daily volatility must not be negative", ErrInvalidConfig)
	case c.Leverage == 0:
		return fmt.Errorf("%w: leverage must not be zero", ErrInvalidConfig)
	case c.ExpenseRatio < 0:
		return fmt.Errorf("%w: expense ratio must not be negative", ErrInvalidConfig)
	case c.Parallelism < 0:
		return fmt.Errorf("%w: parallelism must not be negative", ErrInvalidConfig)
	case c.BreakevenLower <= -1 || c.BreakevenLower >= c.BreakevenUpper:
		return fmt.Errorf("%w: breakeven bracket must satisfy -1 < lower < upper", ErrInvalidConfig)
	}
	return nil
}

// ValidateScenarios rejects declines that would take the index to zero or below.
func ValidateScenarios(declines []float64) error {
	if len(declines) == 0 {
		return fmt.Errorf("%w: no scenarios", ErrInvalidConfig)
	}
	for _, d := range declines {
		if math.IsNaN(d) || math.IsInf(d, 0) || d <= -1 {
			return fmt.Errorf("%w: scenario %g must be greater than -1", ErrInvalidConfig, d)
		}
	}
	return nil
}

// ParseScenarios parses "-0.05,-0.1,-0.2". Values with a % suffix or with a
// magnitude above 1 are read as percentages, so "-5%" and "-5" both mean -0.05.
func ParseScenarios(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		pct := strings.HasSuffix(p, "%")
		v, err := strconv.ParseFloat(strings.TrimSuffix(p, "%"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid decline %q: %w", p, err)
		}
		if pct || v < -1 || v > 1 {
			v /= 100
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no declines in %q", s)
	}
	return out, nil
}

// ContractCount is Contracts, or when zero the number of contracts the
// allocation buys at Premium, with a minimum of one.
func (c Config) ContractCount() int {
	if c.Contracts > 0 {
		return c.Contracts
	}
	n := int(c.Allocation / (c.Premium * sharesPerContract))
	return max(n, 1)
}

func (c Config) etf() models.LeveragedETF {
	return models.LeveragedETF{Leverage: c.Leverage, ExpenseRatio: c.ExpenseRatio}
}

// holdingCalendarDays converts the holding period from trading sessions to
// calendar days, rounding up.
func (c Config) holdingCalendarDays() int {
	return int(math.Ceil(float64(c.HoldingDays) * 365 / models.TradingDaysPerYear))
}

// remainingYears is the option's time left after the holding period, never
// less than one calendar day.
func (c Config) remainingYears() float64 {
	return pricing.YearsFromDays(float64(max(c.DaysToExpiry-c.holdingCalendarDays(), 1)))
}
