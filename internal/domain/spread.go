package domain

import "github.com/shopspring/decimal"

// SpreadReading is the derived bid/ask gap for one market. Spread is rounded
// to two decimal places and may be negative while a market moves fast.
type SpreadReading struct {
	Market string
	Bid    decimal.Decimal
	Ask    decimal.Decimal
	Spread decimal.Decimal
}
