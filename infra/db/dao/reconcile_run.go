package dao

import (
	"fmt"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

func (d *dao) CreateReconcileRun(run *model.ReconcileRun) error {
	if err := d.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to create reconcile run: %w", err)
	}
	return nil
}

func (d *dao) GetPendingReconcileRuns() ([]model.ReconcileRun, error) {
	var runs []model.ReconcileRun
	if err := d.db.
		Select("id").
		Where("status IN (?)", []int{consts.RunStatusInit, consts.RunStatusRunning}).
		Order("create_time ASC").
		Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}

func (d *dao) GetReconcileRunByID(id int64) (model.ReconcileRun, error) {
	var run model.ReconcileRun
	if err := d.db.First(&run, id).Error; err != nil {
		return run, notFound(err, "reconcile_run", id)
	}
	return run, nil
}

func (d *dao) UpdateReconcileRun(run model.ReconcileRun) error {
	if err := d.db.Save(&run).Error; err != nil {
		return fmt.Errorf("failed to update reconcile run %d: %w", run.ID, err)
	}
	return nil
}
