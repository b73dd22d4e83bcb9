package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AlertDirection tells whether an alert fires above or under its target.
type AlertDirection string

const (
	DirectionAbove AlertDirection = "above"
	DirectionUnder AlertDirection = "under"
)

// ParseDirection validates the fixed string set used at the persistence and
// API boundaries. Unknown values are rejected, never coerced.
func ParseDirection(value string) (AlertDirection, error) {
	switch AlertDirection(value) {
	case DirectionAbove:
		return DirectionAbove, nil
	case DirectionUnder:
		return DirectionUnder, nil
	default:
		return "", fmt.Errorf("unknown alert direction %q", value)
	}
}

// AlertStatus is computed on every read, never stored.
type AlertStatus string

const (
	StatusFulfill AlertStatus = "fulfill"
	StatusPending AlertStatus = "pending"
	// StatusUndefined is reserved; no current evaluation produces it.
	StatusUndefined AlertStatus = "undefined"
)

type Alert struct {
	ID           uint
	Direction    AlertDirection
	Currency     string
	Market       string
	TargetSpread decimal.Decimal
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MarketID renders the {currency}-{market} pair the alert watches.
func (a Alert) MarketID() string {
	return a.Currency + "-" + a.Market
}
