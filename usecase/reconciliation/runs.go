package reconciliation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

// CreateRun records a pending reconcile batch for the cron server.
func (u *reconciliationUsecase) CreateRun(r entity.DateRange, operator string) (model.ReconcileRun, error) {
	now := time.Now().Unix()
	run := model.ReconcileRun{
		Status:     consts.RunStatusInit,
		Result:     "",
		CreateTime: now,
		CreateBy:   operator,
		UpdateTime: now,
		UpdateBy:   operator,
	}
	if !r.Start.IsZero() {
		run.StartDate = r.Start.Unix()
	}
	if !r.End.IsZero() {
		run.EndDate = r.End.Unix()
	}
	if err := u.dao.CreateReconcileRun(&run); err != nil {
		return run, err
	}
	return run, nil
}

// PendingRuns lists run ids waiting for a worker, oldest first.
func (u *reconciliationUsecase) PendingRuns() ([]int64, error) {
	runs, err := u.dao.GetPendingReconcileRuns()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(runs))
	for _, run := range runs {
		ids = append(ids, run.ID)
	}
	return ids, nil
}

// ExecuteRun performs a pending run and stores the summary on the row.
func (u *reconciliationUsecase) ExecuteRun(ctx context.Context, runID int64) error {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("[Reconcile] Panic recovered for run %d: %v", runID, r)
		}
	}()

	run, err := u.dao.GetReconcileRunByID(runID)
	if err != nil {
		return err
	}
	if run.Status == consts.RunStatusFinished {
		return nil
	}

	run.Status = consts.RunStatusRunning
	run.UpdateTime = time.Now().Unix()
	run.UpdateBy = "system"
	if err := u.dao.UpdateReconcileRun(run); err != nil {
		return err
	}

	var r entity.DateRange
	if run.StartDate > 0 {
		r.Start = time.Unix(run.StartDate, 0).UTC()
	}
	if run.EndDate > 0 {
		r.End = time.Unix(run.EndDate, 0).UTC()
	}

	summary, err := u.Reconcile(ctx, r, run.CreateBy)
	if err != nil {
		return fmt.Errorf("run %d failed: %w", runID, err)
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal run summary: %w", err)
	}
	run.TotalTx = int64(summary.Processed)
	run.ProcessedTx = int64(summary.Processed)
	run.Result = string(raw)
	run.Status = consts.RunStatusFinished
	run.UpdateTime = time.Now().Unix()
	run.UpdateBy = "system"
	return u.dao.UpdateReconcileRun(run)
}
