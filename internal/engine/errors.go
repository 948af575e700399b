package engine

import (
	"errors"
	"fmt"
)

var (
	ErrNoSymbols                 = errors.New("no symbols configured")
	ErrUnknownSymbol             = errors.New("unknown symbol")
	ErrMalformedRow              = errors.New("malformed row")
	ErrDataSourceUnavailable     = errors.New("data source unavailable")
	ErrHistoryLengthMismatch     = errors.New("symbol histories have different lengths")
	ErrHistoryCadenceMismatch    = errors.New("symbol histories have different timestamps")
	ErrCommissionExceedsNotional = errors.New("commission exceeds trade notional")
)

// SymbolError ties a failure to the symbol whose run it aborted.
type SymbolError struct {
	Symbol string
	Err    error
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("symbol %s: %v", e.Symbol, e.Err)
}

func (e *SymbolError) Unwrap() error {
	return e.Err
}

// MalformedRowError describes the first row of a signal frame the engine
// refused to simulate. Row is -1 when a whole column is at fault.
type MalformedRowError struct {
	Row    int
	Column string
	Reason string
}

func (e *MalformedRowError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%v: column %s: %s", ErrMalformedRow, e.Column, e.Reason)
	}
	return fmt.Sprintf("%v: row %d column %s: %s", ErrMalformedRow, e.Row, e.Column, e.Reason)
}

func (e *MalformedRowError) Unwrap() error {
	return ErrMalformedRow
}
