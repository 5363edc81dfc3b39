package dao

import (
	"fmt"
	"time"

	"github.com/jinzhu/gorm"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

func (d *dao) GetTransactionStatusByID(id int64) (model.TransactionStatus, error) {
	var st model.TransactionStatus
	if err := d.db.First(&st, id).Error; err != nil {
		return st, notFound(err, "transaction_status", id)
	}
	return st, nil
}

func (d *dao) GetTransactionStatusByTransactionID(txID int64) (model.TransactionStatus, error) {
	var st model.TransactionStatus
	if err := d.db.Where("bank_transaction_id = ?", txID).First(&st).Error; err != nil {
		return st, notFound(err, "transaction_status", txID)
	}
	return st, nil
}

// SaveTransactionStatus upserts on bank_transaction_id so re-running the
// matcher refreshes the verdict instead of stacking rows.
func (d *dao) SaveTransactionStatus(st model.TransactionStatus) (model.TransactionStatus, error) {
	var existing model.TransactionStatus
	err := d.db.Where("bank_transaction_id = ?", st.BankTransactionID).First(&existing).Error
	if err != nil && !gorm.IsRecordNotFoundError(err) {
		return st, fmt.Errorf("failed to look up transaction status: %w", err)
	}
	if err == nil {
		st.ID = existing.ID
		st.CreateTime = existing.CreateTime
	}
	st.UpdateTime = time.Now().Unix()
	if st.CreateTime == 0 {
		st.CreateTime = st.UpdateTime
	}
	if err := d.db.Save(&st).Error; err != nil {
		return st, fmt.Errorf("failed to save transaction status: %w", err)
	}
	return st, nil
}

func (d *dao) GetUnclaimedDeposits(f entity.ListFilters) ([]model.TransactionStatus, int, error) {
	return d.listStatuses(f, []string{consts.ValidationNotFound, consts.ValidationConflict})
}

func (d *dao) GetManualCases(f entity.ListFilters) ([]model.TransactionStatus, int, error) {
	return d.listStatuses(f, []string{consts.ValidationRequiresManual})
}

func (d *dao) listStatuses(f entity.ListFilters, statuses []string) ([]model.TransactionStatus, int, error) {
	f = f.Normalize()
	q := d.db.Model(&model.TransactionStatus{}).Where("validation_status IN (?)", statuses)
	if !f.Range.Start.IsZero() {
		q = q.Where("create_time >= ?", f.Range.Start.Unix())
	}
	if !f.Range.End.IsZero() {
		q = q.Where("create_time <= ?", f.Range.End.Unix())
	}
	if f.HouseNumber != nil {
		q = q.Where(
			"identified_house_number = ? OR cents_house_number = ? OR concept_house_number = ?",
			*f.HouseNumber, *f.HouseNumber, *f.HouseNumber,
		)
	}

	var total int
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count statuses: %w", err)
	}

	var rows []model.TransactionStatus
	if err := q.Order(statusOrderClause(f.SortBy)).
		Offset(f.Offset()).Limit(f.PageSize).
		Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch statuses: %w", err)
	}
	return rows, total, nil
}

func statusOrderClause(sortBy string) string {
	switch sortBy {
	case entity.SortBySimilarity:
		return "top_score DESC, id ASC"
	case entity.SortByCandidateCount:
		return "candidate_count DESC, id ASC"
	default:
		return "create_time ASC, id ASC"
	}
}

func (d *dao) GetStatusCountsByValidation() (map[string]int, error) {
	type row struct {
		ValidationStatus string
		Cnt              int
	}
	var rows []row
	if err := d.db.Model(&model.TransactionStatus{}).
		Select("validation_status, COUNT(*) AS cnt").
		Group("validation_status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count statuses: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.ValidationStatus] = r.Cnt
	}
	return counts, nil
}
