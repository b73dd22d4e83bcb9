package domain

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrExchangeUnavailable means the exchange could not be reached at all.
	ErrExchangeUnavailable = errors.New("exchange unavailable")
	// ErrInvalidResponse means the exchange answered with a malformed or
	// error-flagged payload.
	ErrInvalidResponse = errors.New("invalid exchange response")
)

// Amount is a value together with the currency it is denominated in, the
// shape Buda uses for every numeric field ([value, unit] pairs on the wire).
type Amount struct {
	Value    decimal.Decimal
	Currency string
}

// Market is a tradable pair as listed by the exchange. Snapshots are fetched
// per request and never cached.
type Market struct {
	ID                 string
	Name               string
	BaseCurrency       string
	QuoteCurrency      string
	MinimumOrderAmount Amount
	TakerFee           decimal.Decimal
	MakerFee           decimal.Decimal
}

// Ticker is a point-in-time snapshot of one market's order book edges.
type Ticker struct {
	MarketID          string
	LastPrice         Amount
	MaxBid            Amount
	MinAsk            Amount
	PriceVariation24H decimal.Decimal
	PriceVariation7D  decimal.Decimal
	Volume            Amount
}

type ExchangeClient interface {
	ListMarkets(ctx context.Context) ([]Market, error)
	GetTicker(ctx context.Context, currency, market string) (*Ticker, error)
}
