package model

// ReconcileRun tracks one reconciliation batch so the cron server can pick
// up pending runs and the summary stays auditable.
type ReconcileRun struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	StartDate   int64  `gorm:"not null" json:"start_date"`
	EndDate     int64  `gorm:"not null" json:"end_date"`
	Status      int    `gorm:"not null;index" json:"status"`
	TotalTx     int64  `gorm:"not null" json:"total_tx"`
	ProcessedTx int64  `gorm:"not null" json:"processed_tx"`
	Result      string `gorm:"type:text;not null" json:"result"`
	CreateTime  int64  `gorm:"not null" json:"create_time"`
	CreateBy    string `gorm:"size:100;not null" json:"create_by"`
	UpdateTime  int64  `gorm:"not null" json:"update_time"`
	UpdateBy    string `gorm:"size:100;not null" json:"update_by"`
}
