package performance

import (
	"fmt"
)

// Metric is one computed statistic or the reason it is undefined.
type Metric struct {
	Value float64
	Err   error
}

func NewMetric(value float64, err error) Metric {
	if err != nil {
		return Metric{Err: err}
	}
	return Metric{Value: value}
}

func (m Metric) Defined() bool {
	return m.Err == nil
}

func (m Metric) String() string {
	if m.Err != nil {
		return "undefined"
	}
	return fmt.Sprintf("%.6f", m.Value)
}

// Summary holds the full metric set for one value series.
type Summary struct {
	Periods              int
	InitialValue         float64
	FinalValue           float64
	TotalReturn          Metric
	AnnualizedReturn     Metric
	AnnualizedVolatility Metric
	SharpeRatio          Metric
	SortinoRatio         Metric
	MaxDrawdown          Metric
}

// Summarize computes every metric for values, which start from initialValue
// and hold one entry per elapsed period. Each metric fails independently.
func Summarize(values []float64, initialValue, periodsPerYear, riskFreeRate float64) Summary {
	s := Summary{
		Periods:      len(values),
		InitialValue: initialValue,
	}
	if len(values) == 0 {
		err := undefined("empty series")
		s.TotalReturn = Metric{Err: err}
		s.AnnualizedReturn = Metric{Err: err}
		s.AnnualizedVolatility = Metric{Err: err}
		s.SharpeRatio = Metric{Err: err}
		s.SortinoRatio = Metric{Err: err}
		s.MaxDrawdown = Metric{Err: err}
		return s
	}
	s.FinalValue = values[len(values)-1]

	s.TotalReturn = NewMetric(TotalReturn(s.FinalValue, initialValue))
	if s.TotalReturn.Defined() {
		s.AnnualizedReturn = NewMetric(AnnualizedReturn(s.TotalReturn.Value, s.Periods, periodsPerYear))
	} else {
		s.AnnualizedReturn = Metric{Err: fmt.Errorf("total return: %w", s.TotalReturn.Err)}
	}

	returns := PeriodReturns(values)
	s.AnnualizedVolatility = NewMetric(AnnualizedVolatility(returns, periodsPerYear))

	switch {
	case !s.AnnualizedReturn.Defined():
		err := fmt.Errorf("annualized return: %w", s.AnnualizedReturn.Err)
		s.SharpeRatio = Metric{Err: err}
		s.SortinoRatio = Metric{Err: err}
	default:
		if s.AnnualizedVolatility.Defined() {
			s.SharpeRatio = NewMetric(SharpeRatio(s.AnnualizedReturn.Value, s.AnnualizedVolatility.Value, riskFreeRate))
		} else {
			s.SharpeRatio = Metric{Err: fmt.Errorf("volatility: %w", s.AnnualizedVolatility.Err)}
		}
		s.SortinoRatio = NewMetric(SortinoRatio(returns, s.AnnualizedReturn.Value, riskFreeRate, periodsPerYear))
	}

	s.MaxDrawdown = NewMetric(MaximumDrawdown(values))
	return s
}
