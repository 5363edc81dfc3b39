package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Voucher struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	VoucherDate       time.Time       `gorm:"not null;index" json:"voucher_date"`
	Amount            decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
	HouseNumber       *int            `json:"house_number,omitempty"`
	Confirmed         bool            `gorm:"not null;index" json:"confirmed"`
	ConfirmationCode  string          `gorm:"size:36" json:"confirmation_code"`
	ReceiptRef        string          `gorm:"size:100" json:"receipt_ref"`
	BankTransactionID *int64          `gorm:"index" json:"bank_transaction_id,omitempty"`
	CreateTime        int64           `gorm:"not null" json:"create_time"`
	UpdateTime        int64           `gorm:"not null" json:"update_time"`
}
