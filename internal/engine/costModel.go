package engine

import (
	"github.com/shopspring/decimal"
)

// CostModel is a venue's fee schedule: a proportional fee with a per-trade
// minimum. It is immutable once built and shared by every ledger.
type CostModel struct {
	commissionPct   decimal.Decimal
	commissionFixed decimal.Decimal
}

func NewCostModel(commissionPct, commissionFixed decimal.Decimal) CostModel {
	return CostModel{
		commissionPct:   commissionPct,
		commissionFixed: commissionFixed,
	}
}

// Commission returns max(notional*pct, fixed). A zero notional still pays the
// fixed minimum.
func (c CostModel) Commission(notional decimal.Decimal) decimal.Decimal {
	return decimal.Max(notional.Mul(c.commissionPct), c.commissionFixed)
}
