package types

import (
	"time"

	"github.com/shopspring/decimal"
)

type Side string

const (
	SideTypeBuy  Side = "BUY"
	SideTypeSell Side = "SELL"
)

// Trade is a single all-in or all-out fill executed by a ledger.
type Trade struct {
	Symbol     string
	Side       Side
	Price      decimal.Decimal
	Quantity   decimal.Decimal
	Notional   decimal.Decimal
	Commission decimal.Decimal
	Time       time.Time
}
