package db

import "time"

type alertModel struct {
	ID        uint   `gorm:"primaryKey"`
	Type      string `gorm:"not null"`
	Currency  string `gorm:"not null;index:idx_alerts_currency_market,priority:1"`
	Market    string `gorm:"not null;index:idx_alerts_currency_market,priority:2"`
	Spread    string `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (alertModel) TableName() string {
	return "alerts"
}
