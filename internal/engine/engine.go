package engine

import (
	"backtrader/internal/logger"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// symbolRun is the state owned by whoever simulates one symbol.
type symbolRun struct {
	ledger     *AssetLedger
	daily      []decimal.Decimal
	history    []decimal.Decimal
	timestamps []time.Time
}

// Engine replays signal frames through one AssetLedger per configured symbol
// and keeps the resulting value histories for reporting.
type Engine struct {
	config  Config
	feed    CandleFeed
	costs   CostModel
	symbols []string
	runs    map[string]*symbolRun
	log     *logger.Logger
}

// NewEngine funds every configured symbol with an equal share of the initial
// capital.
func NewEngine(config Config, feed CandleFeed, log *logger.Logger) (*Engine, error) {
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	symbols := append([]string(nil), config.Symbols...)
	sort.Strings(symbols)

	capital := decimal.NewFromFloat(config.InitialCapital)
	perSymbol := capital.Div(decimal.NewFromInt(int64(len(symbols))))

	runs := make(map[string]*symbolRun, len(symbols))
	for _, symbol := range symbols {
		runs[symbol] = &symbolRun{ledger: newAssetLedger(symbol, perSymbol)}
	}

	log.Debug("Engine initialized",
		zap.Strings("symbols", symbols),
		zap.String("capital_per_symbol", perSymbol.String()),
	)

	return &Engine{
		config:  config,
		feed:    feed,
		costs:   config.costModel(),
		symbols: symbols,
		runs:    runs,
		log:     log,
	}, nil
}

func (e *Engine) Config() Config {
	return e.config
}

// Symbols returns the configured symbols in the order they are simulated.
func (e *Engine) Symbols() []string {
	return append([]string(nil), e.symbols...)
}
