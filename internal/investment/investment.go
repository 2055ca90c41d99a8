// Package investment projects compound growth of capital at a fixed annual rate.
package investment

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Intermediate results keep this many decimal places.
const _precision = 16

var (
	ErrRateOutOfRange = errors.New("annual rate of return must be above -100%")
	ErrNegativePeriod = errors.New("investment period can't be negative")
	ErrNoPeriods      = errors.New("investment period is shorter than a month")
)

var (
	_one    = decimal.NewFromInt(1)
	_twelve = decimal.NewFromInt(12)
)

// Return is the state of an investment at the end of a month. Profit is the
// month's gain for entries of MonthlyReturns and the total gain for Projection.
type Return struct {
	Date    time.Time
	Profit  decimal.Decimal
	Capital decimal.Decimal
}

// MonthlyRate converts an annual rate into the monthly rate that compounds to
// it: (1 + annual)^(1/12) - 1.
func MonthlyRate(annual decimal.Decimal) (decimal.Decimal, error) {
	base := _one.Add(annual)
	if !base.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrRateOutOfRange, annual)
	}
	if annual.IsZero() {
		return decimal.Zero, nil
	}

	growth, err := base.PowWithPrecision(_one.DivRound(_twelve, _precision), _precision)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: can't compound %s", err, annual)
	}
	return growth.Sub(_one).Round(_precision), nil
}

// AddMonths moves t by n calendar months, clamping to the last day of the
// target month: Jan 31 + 1 month is Feb 28.
func AddMonths(t time.Time, n int) time.Time {
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	return first.AddDate(0, 0, min(t.Day(), last)-1)
}

// MonthlyReturns compounds capital monthly for the whole months in years,
// a fractional trailing month is dropped.
func MonthlyReturns(start time.Time, capital, annualRate, years decimal.Decimal) ([]Return, error) {
	if years.IsNegative() {
		return nil, fmt.Errorf("%w: %s years", ErrNegativePeriod, years)
	}
	rate, err := MonthlyRate(annualRate)
	if err != nil {
		return nil, err
	}

	months := int(years.Mul(_twelve).IntPart())
	returns := make([]Return, 0, months)
	for i := 1; i <= months; i++ {
		profit := capital.Mul(rate).Round(_precision)
		capital = capital.Add(profit)
		returns = append(returns, Return{
			Date:    AddMonths(start, i),
			Profit:  profit,
			Capital: capital,
		})
	}
	return returns, nil
}

// Projection returns the final month of MonthlyReturns with Profit set to the
// gain over the starting capital.
func Projection(start time.Time, capital, annualRate, years decimal.Decimal) (Return, error) {
	returns, err := MonthlyReturns(start, capital, annualRate, years)
	if err != nil {
		return Return{}, err
	}
	if len(returns) == 0 {
		return Return{}, fmt.Errorf("%w: %s years", ErrNoPeriods, years)
	}

	last := returns[len(returns)-1]
	last.Profit = last.Capital.Sub(capital)
	return last, nil
}
