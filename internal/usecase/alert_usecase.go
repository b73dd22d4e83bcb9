package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"github.com/tschirnhausen/desafio-buda/internal/domain"
)

var (
	ErrInvalidAlert  = errors.New("invalid alert")
	ErrAlertNotFound = errors.New("alert not found")
)

type AlertUsecase struct {
	alerts  domain.AlertRepository
	spreads *SpreadUsecase
}

func NewAlertUsecase(alerts domain.AlertRepository, spreads *SpreadUsecase) *AlertUsecase {
	return &AlertUsecase{alerts: alerts, spreads: spreads}
}

// CreateAlert validates the payload and the market, then persists the alert.
// The market is checked once, here; a later delisting does not invalidate
// the stored alert.
func (u *AlertUsecase) CreateAlert(ctx context.Context, direction, currency, market string, targetSpread decimal.Decimal) (*domain.Alert, error) {
	parsedDirection, err := domain.ParseDirection(direction)
	if err != nil {
		return nil, ErrInvalidAlert
	}
	if !targetSpread.IsPositive() {
		return nil, ErrInvalidAlert
	}

	currency, market, err = u.spreads.ResolveMarket(ctx, currency, market, false)
	if err != nil {
		return nil, err
	}

	alert := &domain.Alert{
		Direction:    parsedDirection,
		Currency:     currency,
		Market:       market,
		TargetSpread: targetSpread,
	}
	if err := u.alerts.Create(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// AlertStatus loads an alert and evaluates it against the market's spread at
// this moment. Status is derived on every read, never stored.
func (u *AlertUsecase) AlertStatus(ctx context.Context, alertID uint) (*domain.Alert, domain.AlertStatus, error) {
	alert, err := u.alerts.GetByID(ctx, alertID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrAlertNotFound
		}
		return nil, "", err
	}

	// The market was validated at creation time; skip the extra listing call.
	reading, err := u.spreads.spreadFor(ctx, alert.Currency, alert.Market, true)
	if err != nil {
		return nil, "", err
	}

	return alert, evaluateStatus(alert.Direction, reading.Spread, alert.TargetSpread), nil
}

func (u *AlertUsecase) ListAlerts(ctx context.Context) ([]domain.Alert, error) {
	return u.alerts.List(ctx)
}

// evaluateStatus compares with strict inequality in both directions, so a
// spread equal to the target is always pending.
func evaluateStatus(direction domain.AlertDirection, current, target decimal.Decimal) domain.AlertStatus {
	switch direction {
	case domain.DirectionAbove:
		if current.GreaterThan(target) {
			return domain.StatusFulfill
		}
	case domain.DirectionUnder:
		if current.LessThan(target) {
			return domain.StatusFulfill
		}
	}
	return domain.StatusPending
}
