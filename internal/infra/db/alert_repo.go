package db

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tschirnhausen/desafio-buda/internal/domain"
	"gorm.io/gorm"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

func (r *AlertRepository) Create(ctx context.Context, alert *domain.Alert) error {
	model := mapAlertToModel(*alert)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return err
	}
	alert.ID = model.ID
	alert.CreatedAt = model.CreatedAt
	alert.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *AlertRepository) GetByID(ctx context.Context, alertID uint) (*domain.Alert, error) {
	var model alertModel
	if err := r.db.WithContext(ctx).First(&model, alertID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return mapAlertToDomain(model)
}

func (r *AlertRepository) List(ctx context.Context) ([]domain.Alert, error) {
	var models []alertModel
	if err := r.db.WithContext(ctx).Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	alerts := make([]domain.Alert, 0, len(models))
	for _, model := range models {
		alert, err := mapAlertToDomain(model)
		if err != nil {
			return nil, err
		}
		alerts = append(alerts, *alert)
	}
	return alerts, nil
}

// mapAlertToDomain validates stored rows on read: an unknown direction or an
// unparsable spread is a corrupt record, not something to pass along silently.
func mapAlertToDomain(model alertModel) (*domain.Alert, error) {
	direction, err := domain.ParseDirection(model.Type)
	if err != nil {
		return nil, fmt.Errorf("alert %d: %w", model.ID, err)
	}
	target, err := decimal.NewFromString(model.Spread)
	if err != nil {
		return nil, fmt.Errorf("alert %d: parse spread %q: %w", model.ID, model.Spread, err)
	}
	return &domain.Alert{
		ID:           model.ID,
		Direction:    direction,
		Currency:     model.Currency,
		Market:       model.Market,
		TargetSpread: target,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}, nil
}

func mapAlertToModel(alert domain.Alert) alertModel {
	return alertModel{
		ID:        alert.ID,
		Type:      string(alert.Direction),
		Currency:  alert.Currency,
		Market:    alert.Market,
		Spread:    alert.TargetSpread.String(),
		CreatedAt: alert.CreatedAt,
		UpdatedAt: alert.UpdatedAt,
	}
}
