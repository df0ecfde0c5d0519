// Package projection holds the growth calculators: the step-wise compound
// projector and the daily ledger that reconciles a weekly-target schedule
// against reported balances. Money math runs on decimal.Decimal.
package projection

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxSteps bounds a single projection.
const MaxSteps = 1000

var hundred = decimal.NewFromInt(100)

type CompoundRow struct {
	Step           int             `json:"step"`
	AccumulatedPct decimal.Decimal `json:"accumulated_pct"`
	Gain           decimal.Decimal `json:"gain"`
	Balance        decimal.Decimal `json:"balance"`
	Accumulated    decimal.Decimal `json:"accumulated"`
	Converted      decimal.Decimal `json:"converted"`
}

// Compound compounds balance by rate (a fraction, 0.01 = 1%) for steps rows and
// converts the accumulated gain at exchange. Non-positive inputs or more than
// MaxSteps steps give no rows.
func Compound(balance, rate, exchange decimal.Decimal, steps int) []CompoundRow {
	if !balance.IsPositive() || !rate.IsPositive() || !exchange.IsPositive() || steps <= 0 || steps > MaxSteps {
		return nil
	}

	rows := make([]CompoundRow, 0, steps)
	accumulated := decimal.Zero
	for i := 1; i <= steps; i++ {
		gain := balance.Add(accumulated).Mul(rate)
		accumulated = accumulated.Add(gain)
		rows = append(rows, CompoundRow{
			Step:           i,
			AccumulatedPct: accumulated.Div(balance).Mul(hundred),
			Gain:           gain,
			Balance:        balance.Add(accumulated),
			Accumulated:    accumulated,
			Converted:      accumulated.Mul(exchange),
		})
	}
	return rows
}

// CompoundFloat is Compound for float64 inputs. NaN and infinite values give
// no rows.
func CompoundFloat(balance, rate, exchange float64, steps int) []CompoundRow {
	for _, v := range []float64{balance, rate, exchange} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
	}
	return Compound(decimal.NewFromFloat(balance), decimal.NewFromFloat(rate), decimal.NewFromFloat(exchange), steps)
}
