package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerSnapshot is a read-only copy of one symbol's sub-account.
type LedgerSnapshot struct {
	Symbol        string
	InitialCash   decimal.Decimal
	Cash          decimal.Decimal
	Positions     decimal.Decimal
	LastPrice     decimal.Decimal
	PositionValue decimal.Decimal
	TotalValue    decimal.Decimal
	Time          time.Time
}
