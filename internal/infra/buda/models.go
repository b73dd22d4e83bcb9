package buda

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/tschirnhausen/desafio-buda/internal/domain"
)

// errCodeNotFound is the application-level error sentinel Buda embeds in an
// otherwise well-formed payload.
const errCodeNotFound = "not_found"

type apiEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e apiEnvelope) flaggedError() bool {
	return e.Code == errCodeNotFound
}

type marketsResponse struct {
	apiEnvelope
	Markets []wireMarket `json:"markets"`
}

type tickerResponse struct {
	apiEnvelope
	Ticker *wireTicker `json:"ticker"`
}

type wireMarket struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	BaseCurrency       string     `json:"base_currency"`
	QuoteCurrency      string     `json:"quote_currency"`
	MinimumOrderAmount amountPair `json:"minimum_order_amount"`
	TakerFee           wireNumber `json:"taker_fee"`
	MakerFee           wireNumber `json:"maker_fee"`
}

type wireTicker struct {
	MarketID          string     `json:"market_id"`
	LastPrice         amountPair `json:"last_price"`
	MaxBid            amountPair `json:"max_bid"`
	MinAsk            amountPair `json:"min_ask"`
	PriceVariation24H wireNumber `json:"price_variation_24h"`
	PriceVariation7D  wireNumber `json:"price_variation_7d"`
	Volume            amountPair `json:"volume"`
}

// validate rejects a ticker whose required fields never appeared in the
// payload. Zero-filled absent keys would otherwise fabricate a bid or ask.
func (t wireTicker) validate() error {
	switch {
	case t.MarketID == "":
		return fmt.Errorf("ticker missing market_id")
	case !t.MaxBid.present:
		return fmt.Errorf("ticker missing max_bid")
	case !t.MinAsk.present:
		return fmt.Errorf("ticker missing min_ask")
	}
	return nil
}

func (m wireMarket) validate() error {
	if m.ID == "" {
		return fmt.Errorf("market missing id")
	}
	return nil
}

// amountPair decodes Buda's [value-as-string, unit-currency] arrays. A short
// pair or an unparsable value fails the decode; an absent key leaves the pair
// unset, which validate catches before the payload is mapped to domain types.
type amountPair struct {
	Value    decimal.Decimal
	Currency string
	present  bool
}

func (p *amountPair) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return fmt.Errorf("amount pair is null")
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("decode amount pair: %w", err)
	}
	if len(parts) < 2 {
		return fmt.Errorf("amount pair has %d elements, want 2", len(parts))
	}
	value, err := decimal.NewFromString(parts[0])
	if err != nil {
		return fmt.Errorf("parse amount value %q: %w", parts[0], err)
	}
	p.Value = value
	p.Currency = parts[1]
	p.present = true
	return nil
}

// wireNumber decodes a decimal that Buda serializes either as a bare number
// or as a quoted string (fees and variation percentages use both).
type wireNumber struct {
	Decimal decimal.Decimal
}

func (n *wireNumber) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		n.Decimal = decimal.Zero
		return nil
	}
	trimmed := strings.TrimSpace(string(data))
	if len(trimmed) >= 2 && trimmed[0] == '"' && trimmed[len(trimmed)-1] == '"' {
		trimmed = trimmed[1 : len(trimmed)-1]
	}
	dec, err := decimal.NewFromString(trimmed)
	if err != nil {
		return fmt.Errorf("parse number %q: %w", trimmed, err)
	}
	n.Decimal = dec
	return nil
}

func (p amountPair) toDomain() domain.Amount {
	return domain.Amount{Value: p.Value, Currency: p.Currency}
}

func (m wireMarket) toDomain() domain.Market {
	return domain.Market{
		ID:                 m.ID,
		Name:               m.Name,
		BaseCurrency:       m.BaseCurrency,
		QuoteCurrency:      m.QuoteCurrency,
		MinimumOrderAmount: m.MinimumOrderAmount.toDomain(),
		TakerFee:           m.TakerFee.Decimal,
		MakerFee:           m.MakerFee.Decimal,
	}
}

func (t wireTicker) toDomain() domain.Ticker {
	return domain.Ticker{
		MarketID:          t.MarketID,
		LastPrice:         t.LastPrice.toDomain(),
		MaxBid:            t.MaxBid.toDomain(),
		MinAsk:            t.MinAsk.toDomain(),
		PriceVariation24H: t.PriceVariation24H.Decimal,
		PriceVariation7D:  t.PriceVariation7D.Decimal,
		Volume:            t.Volume.toDomain(),
	}
}
