package dao

import (
	"fmt"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

func (d *dao) CreatePaymentAllocation(a *model.PaymentAllocation) error {
	if err := d.db.Create(a).Error; err != nil {
		return fmt.Errorf("failed to save payment allocation: %w", err)
	}
	return nil
}

func (d *dao) GetAllocationsByHousePeriod(houseID, periodID int64) ([]model.PaymentAllocation, error) {
	var allocations []model.PaymentAllocation
	if err := d.db.
		Where("house_id = ? AND period_id = ?", houseID, periodID).
		Find(&allocations).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch allocations: %w", err)
	}
	return allocations, nil
}

func (d *dao) GetAllocationsByHouse(houseID int64) ([]model.PaymentAllocation, error) {
	var allocations []model.PaymentAllocation
	if err := d.db.Where("house_id = ?", houseID).Find(&allocations).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch house allocations: %w", err)
	}
	return allocations, nil
}

// GetCreditAllocation looks up the sentinel credit-application row for a
// (house, period), the idempotence guard of the credit batch.
func (d *dao) GetCreditAllocation(houseID, periodID int64) (model.PaymentAllocation, error) {
	var a model.PaymentAllocation
	if err := d.db.
		Where("house_id = ? AND period_id = ? AND record_type = ?",
			houseID, periodID, consts.RecordTypeCredit).
		First(&a).Error; err != nil {
		return a, notFound(err, "payment_allocation", houseID)
	}
	return a, nil
}
