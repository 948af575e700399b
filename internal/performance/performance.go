// Package performance turns a realized value history into return, risk and
// drawdown statistics. Every function is pure and takes its inputs explicitly.
//
// A statistic that cannot be computed from the given data (zero volatility,
// no downside returns, too few observations) is reported with an error
// wrapping ErrUndefinedMetric instead of a coerced 0 or a NaN.
package performance

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

var ErrUndefinedMetric = errors.New("metric undefined")

// Period bases for annualization.
const (
	PeriodsPerYearYearly  = 1.0
	PeriodsPerYearTrading = 252.0
	PeriodsPerYearCrypto  = 365.0
)

func undefined(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUndefinedMetric, fmt.Sprintf(format, args...))
}

func TotalReturn(finalValue, initialCapital float64) (float64, error) {
	if initialCapital == 0 {
		return 0, undefined("initial capital is zero")
	}
	return finalValue/initialCapital - 1, nil
}

// AnnualizedReturn compounds totalReturn, earned over periods, to a rate per
// periodsPerYear periods.
func AnnualizedReturn(totalReturn float64, periods int, periodsPerYear float64) (float64, error) {
	if periods <= 0 {
		return 0, undefined("no elapsed periods")
	}
	if periodsPerYear <= 0 {
		return 0, undefined("periods per year must be positive, got %v", periodsPerYear)
	}
	r := math.Pow(1+totalReturn, periodsPerYear/float64(periods)) - 1
	if math.IsNaN(r) {
		return 0, undefined("total return %v cannot be compounded", totalReturn)
	}
	return r, nil
}

// PeriodReturns is the percentage change between consecutive values. Steps
// with a zero denominator are dropped.
func PeriodReturns(values []float64) []float64 {
	if len(values) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(values)-1)
	for i := 1; i < len(values); i++ {
		r := values[i]/values[i-1] - 1
		if math.IsNaN(r) || math.IsInf(r, 0) {
			continue
		}
		returns = append(returns, r)
	}
	return returns
}

// AnnualizedVolatility is the sample (n-1) standard deviation of the period
// returns scaled by sqrt(periodsPerYear).
func AnnualizedVolatility(periodReturns []float64, periodsPerYear float64) (float64, error) {
	if len(periodReturns) < 2 {
		return 0, undefined("need at least 2 returns, got %d", len(periodReturns))
	}
	if periodsPerYear <= 0 {
		return 0, undefined("periods per year must be positive, got %v", periodsPerYear)
	}
	return stat.StdDev(periodReturns, nil) * math.Sqrt(periodsPerYear), nil
}

func SharpeRatio(annualizedReturn, annualizedVolatility, riskFreeRate float64) (float64, error) {
	if annualizedVolatility == 0 || math.IsNaN(annualizedVolatility) {
		return 0, undefined("volatility is zero")
	}
	return (annualizedReturn - riskFreeRate) / annualizedVolatility, nil
}

// SortinoRatio is the Sharpe ratio with volatility taken over the negative
// period returns only.
func SortinoRatio(periodReturns []float64, annualizedReturn, riskFreeRate, periodsPerYear float64) (float64, error) {
	var negative []float64
	for _, r := range periodReturns {
		if r < 0 {
			negative = append(negative, r)
		}
	}
	if len(negative) == 0 {
		return 0, undefined("no negative returns")
	}
	downside, err := AnnualizedVolatility(negative, periodsPerYear)
	if err != nil {
		return 0, fmt.Errorf("downside volatility: %w", err)
	}
	if downside == 0 {
		return 0, undefined("downside volatility is zero")
	}
	return (annualizedReturn - riskFreeRate) / downside, nil
}

// MaximumDrawdown is the most negative value of values[t]/max(values[:t+1]) - 1.
// A non-decreasing series has a drawdown of 0.
func MaximumDrawdown(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, undefined("empty series")
	}
	peak := values[0]
	maxDD := 0.0
	for _, v := range values {
		if v > peak {
			peak = v
		}
		if peak <= 0 {
			return 0, undefined("non-positive peak %v", peak)
		}
		if dd := v/peak - 1; dd < maxDD {
			maxDD = dd
		}
	}
	return maxDD, nil
}
