package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Period struct {
	ID                  int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Year                int       `gorm:"not null;unique_index:idx_period_ym" json:"year"`
	Month               int       `gorm:"not null;unique_index:idx_period_ym" json:"month"`
	StartDate           time.Time `gorm:"not null" json:"start_date"`
	EndDate             time.Time `gorm:"not null" json:"end_date"`
	WaterActive         bool      `gorm:"not null" json:"water_active"`
	ExtraordinaryActive bool      `gorm:"not null" json:"extraordinary_active"`
}

// PeriodConfig holds effective-dated charge defaults. At most one row may
// have a nil EffectiveUntil; creating a new active config closes the prior
// one to the day before the new EffectiveFrom.
type PeriodConfig struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	EffectiveFrom        time.Time       `gorm:"not null;index" json:"effective_from"`
	EffectiveUntil       *time.Time      `gorm:"index" json:"effective_until,omitempty"`
	MaintenanceAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"maintenance_amount"`
	WaterAmount          decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"water_amount"`
	ExtraordinaryAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"extraordinary_amount"`
	PaymentDueDay        int             `gorm:"not null" json:"payment_due_day"`
	LatePenaltyAmount    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"late_penalty_amount"`
	CentsCreditThreshold decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"cents_credit_threshold"`
	CreateTime           int64           `gorm:"not null" json:"create_time"`
}

// ChargeOverride replaces the config default for one house and concept.
type ChargeOverride struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	HouseID     int64           `gorm:"not null;unique_index:idx_override_house_concept" json:"house_id"`
	ConceptType string          `gorm:"size:20;not null;unique_index:idx_override_house_concept" json:"concept_type"`
	Amount      decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	CreateTime  int64           `gorm:"not null" json:"create_time"`
}

// HousePeriodCharge is lazily materialized from config/overrides the first
// time the allocation engine touches a (house, period, concept).
type HousePeriodCharge struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	HouseID        int64           `gorm:"not null;unique_index:idx_charge_key" json:"house_id"`
	PeriodID       int64           `gorm:"not null;unique_index:idx_charge_key" json:"period_id"`
	ConceptType    string          `gorm:"size:20;not null;unique_index:idx_charge_key" json:"concept_type"`
	ExpectedAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"expected_amount"`
	Source         string          `gorm:"size:20;not null" json:"source"`
	CreateTime     int64           `gorm:"not null" json:"create_time"`
}
