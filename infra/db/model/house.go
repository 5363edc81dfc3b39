package model

import "github.com/shopspring/decimal"

type House struct {
	ID          int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Number      int   `gorm:"not null;unique_index" json:"number"`
	OwnerUserID int64 `gorm:"not null" json:"owner_user_id"`
	CreateTime  int64 `gorm:"not null" json:"create_time"`
}

// HouseBalance is the single mutable money row per house. AccumulatedCents
// stays in [0,1); crossing 1.0 extracts the whole unit into CreditBalance.
type HouseBalance struct {
	ID               int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	HouseID          int64           `gorm:"not null;unique_index" json:"house_id"`
	AccumulatedCents decimal.Decimal `gorm:"type:numeric(6,4);not null" json:"accumulated_cents"`
	CreditBalance    decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"credit_balance"`
	DebitBalance     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"debit_balance"`
	UpdateTime       int64           `gorm:"not null" json:"update_time"`
}
