package model

import "github.com/shopspring/decimal"

// PaymentAllocation records one concept's share of a distributed amount.
// RecordType/RecordID point at the money source: a confirmed deposit, a
// manual assignment, or the credit-application sentinel.
type PaymentAllocation struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	RecordType      string          `gorm:"size:10;not null" json:"record_type"`
	RecordID        int64           `gorm:"not null;index" json:"record_id"`
	HouseID         int64           `gorm:"not null;index" json:"house_id"`
	PeriodID        int64           `gorm:"not null;index" json:"period_id"`
	ConceptType     string          `gorm:"size:20;not null" json:"concept_type"`
	AllocatedAmount decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"allocated_amount"`
	ExpectedAmount  decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"expected_amount"`
	Status          string          `gorm:"size:10;not null" json:"status"`
	CreateTime      int64           `gorm:"not null" json:"create_time"`
}
