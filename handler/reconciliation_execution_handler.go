package handler

import (
	"context"
	"errors"

	"github.com/rvalenzuela/condo-reconciliation/infra/locker"
)

// ErrNoPendingRun signals an idle tick to the cron worker.
var ErrNoPendingRun = errors.New("no pending run")

// ReconciliationExecution picks one pending run, guards it against other
// workers and executes it.
func (h *ReconciliationHandler) ReconciliationExecution(ctx context.Context, guard *locker.RunLocker) error {
	runs, err := h.Usecase.PendingRuns()
	if err != nil {
		return err
	}
	for _, runID := range runs {
		if !guard.TryAcquire(runID) {
			continue
		}
		defer guard.Release(runID)
		return h.Usecase.ExecuteRun(ctx, runID)
	}
	return ErrNoPendingRun
}
