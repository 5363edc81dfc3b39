package reconciliation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
)

func TestRunLifecycle(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	seedDeposit(t, m, "800.15", "pago casa 15", march5)
	seedVoucher(t, m, "800.15", intPtr(15), march5)

	run, err := uc.CreateRun(entity.DateRange{}, "scheduler")
	require.NoError(t, err)
	assert.Equal(t, consts.RunStatusInit, run.Status)

	pending, err := uc.PendingRuns()
	require.NoError(t, err)
	assert.Equal(t, []int64{run.ID}, pending)

	require.NoError(t, uc.ExecuteRun(context.Background(), run.ID))

	done, err := m.GetReconcileRunByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.RunStatusFinished, done.Status)
	assert.Equal(t, int64(1), done.ProcessedTx)

	var summary entity.ReconcileSummary
	require.NoError(t, json.Unmarshal([]byte(done.Result), &summary))
	assert.Equal(t, 1, summary.Matched)

	pending, err = uc.PendingRuns()
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestExecuteRunFinishedIsNoop(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)

	run, err := uc.CreateRun(entity.DateRange{}, "scheduler")
	require.NoError(t, err)
	require.NoError(t, uc.ExecuteRun(context.Background(), run.ID))

	before, err := m.GetReconcileRunByID(run.ID)
	require.NoError(t, err)

	require.NoError(t, uc.ExecuteRun(context.Background(), run.ID))
	after, err := m.GetReconcileRunByID(run.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Result, after.Result)
	assert.Equal(t, consts.RunStatusFinished, after.Status)
}

func TestExecuteRunUnknownID(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)

	err := uc.ExecuteRun(context.Background(), 404)
	var nf *entity.NotFoundError
	require.ErrorAs(t, err, &nf)
}
