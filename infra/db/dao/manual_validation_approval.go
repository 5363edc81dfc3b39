package dao

import (
	"fmt"

	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

func (d *dao) CreateManualValidationApproval(a *model.ManualValidationApproval) error {
	if err := d.db.Create(a).Error; err != nil {
		return fmt.Errorf("failed to save approval: %w", err)
	}
	return nil
}

func (d *dao) GetApprovalByStatusID(statusID int64) (model.ManualValidationApproval, error) {
	var a model.ManualValidationApproval
	if err := d.db.Where("status_id = ?", statusID).First(&a).Error; err != nil {
		return a, notFound(err, "manual_validation_approval", statusID)
	}
	return a, nil
}

func (d *dao) GetApprovals() ([]model.ManualValidationApproval, error) {
	var approvals []model.ManualValidationApproval
	if err := d.db.Find(&approvals).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch approvals: %w", err)
	}
	return approvals, nil
}
