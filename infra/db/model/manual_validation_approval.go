package model

// ManualValidationApproval is the immutable audit trail of a case
// resolution. Never updated after creation.
type ManualValidationApproval struct {
	ID              int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	StatusID        int64  `gorm:"not null;unique_index" json:"status_id"`
	ChosenVoucherID *int64 `json:"chosen_voucher_id,omitempty"`
	Approved        bool   `gorm:"not null" json:"approved"`
	ApproverID      string `gorm:"size:100;not null" json:"approver_id"`
	Notes           string `gorm:"type:text" json:"notes"`
	RejectionReason string `gorm:"type:text" json:"rejection_reason"`
	Reference       string `gorm:"size:36;not null" json:"reference"`
	CreateTime      int64  `gorm:"not null" json:"create_time"`
}
