package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BankTransaction struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	TxDate     time.Time       `gorm:"not null;index" json:"tx_date"`
	TxTime     string          `gorm:"size:8" json:"tx_time"`
	Concept    string          `gorm:"type:text" json:"concept"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	Currency   string          `gorm:"size:3;not null" json:"currency"`
	IsDeposit  bool            `gorm:"not null" json:"is_deposit"`
	Confirmed  bool            `gorm:"not null;index" json:"confirmed"`
	CreateTime int64           `gorm:"not null" json:"create_time"`
	UpdateTime int64           `gorm:"not null" json:"update_time"`
}
