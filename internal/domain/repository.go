package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type AlertRepository interface {
	Create(ctx context.Context, alert *Alert) error
	GetByID(ctx context.Context, alertID uint) (*Alert, error)
	List(ctx context.Context) ([]Alert, error)
}
