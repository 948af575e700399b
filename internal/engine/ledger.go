package engine

import (
	"backtrader/types"
	"time"

	"github.com/shopspring/decimal"
)

// AssetLedger is one symbol's sub-account. It trades all-in / all-out: a buy
// deploys the whole cash balance and a sell liquidates the whole position.
type AssetLedger struct {
	symbol        string
	initialCash   decimal.Decimal
	cash          decimal.Decimal
	positions     decimal.Decimal
	lastPrice     decimal.Decimal
	positionValue decimal.Decimal
	totalValue    decimal.Decimal
	lastTime      time.Time
	valueHistory  []decimal.Decimal
	trades        []types.Trade
}

func newAssetLedger(symbol string, cash decimal.Decimal) *AssetLedger {
	return &AssetLedger{
		symbol:      symbol,
		initialCash: cash,
		cash:        cash,
		totalValue:  cash,
	}
}

// ApplyTrade executes signal at price. A buy needs cash and a sell needs
// positions; anything else is a no-op returning (nil, nil). Repeated signals
// are not collapsed, the second buy in a run simply finds no cash.
func (l *AssetLedger) ApplyTrade(signal types.Signal, price decimal.Decimal, costs CostModel, at time.Time) (*types.Trade, error) {
	switch {
	case signal == types.SignalBuy && l.cash.IsPositive():
		notional := l.cash
		commission := costs.Commission(notional)
		if commission.GreaterThanOrEqual(notional) {
			return nil, ErrCommissionExceedsNotional
		}
		quantity := notional.Sub(commission).Div(price)
		l.positions = l.positions.Add(quantity)
		l.cash = decimal.Zero
		return l.recordTrade(types.SideTypeBuy, price, quantity, notional, commission, at), nil

	case signal == types.SignalSell && l.positions.IsPositive():
		quantity := l.positions
		notional := quantity.Mul(price)
		commission := costs.Commission(notional)
		if commission.GreaterThanOrEqual(notional) {
			return nil, ErrCommissionExceedsNotional
		}
		l.cash = l.cash.Add(notional.Sub(commission))
		l.positions = decimal.Zero
		return l.recordTrade(types.SideTypeSell, price, quantity, notional, commission, at), nil
	}
	return nil, nil
}

func (l *AssetLedger) recordTrade(side types.Side, price, quantity, notional, commission decimal.Decimal, at time.Time) *types.Trade {
	tr := types.Trade{
		Symbol:     l.symbol,
		Side:       side,
		Price:      price,
		Quantity:   quantity,
		Notional:   notional,
		Commission: commission,
		Time:       at,
	}
	l.trades = append(l.trades, tr)
	return &tr
}

// MarkToMarket revalues the position at price and appends the new total to
// the value history.
func (l *AssetLedger) MarkToMarket(price decimal.Decimal, at time.Time) {
	l.lastPrice = price
	l.lastTime = at
	l.positionValue = l.positions.Mul(price)
	l.totalValue = l.cash.Add(l.positionValue)
	l.valueHistory = append(l.valueHistory, l.totalValue)
}

func (l *AssetLedger) TotalValue() decimal.Decimal {
	return l.totalValue
}

func (l *AssetLedger) Snapshot() types.LedgerSnapshot {
	return types.LedgerSnapshot{
		Symbol:        l.symbol,
		InitialCash:   l.initialCash,
		Cash:          l.cash,
		Positions:     l.positions,
		LastPrice:     l.lastPrice,
		PositionValue: l.positionValue,
		TotalValue:    l.totalValue,
		Time:          l.lastTime,
	}
}

func (l *AssetLedger) totalFees() decimal.Decimal {
	fees := decimal.Zero
	for _, tr := range l.trades {
		fees = fees.Add(tr.Commission)
	}
	return fees
}
