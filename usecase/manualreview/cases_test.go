package manualreview

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvalenzuela/condo-reconciliation/entity"
)

func TestListCases(t *testing.T) {
	reviewer, reconciler, m := newTestReviewer(t)
	st, v1, v2 := seedManualCase(t, reconciler, m, 0, "800.00")

	cases, total, err := reviewer.ListCases(entity.ListFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, cases, 1)

	c := cases[0]
	assert.Equal(t, st.ID, c.CaseID)
	assert.Equal(t, st.BankTransactionID, c.BankTransactionID)
	require.Len(t, c.Candidates, 2)
	ids := []int64{c.Candidates[0].VoucherID, c.Candidates[1].VoucherID}
	assert.ElementsMatch(t, []int64{v1.ID, v2.ID}, ids)
	assert.Equal(t, 0.75, c.TopScore)
}

func TestListCasesExcludesResolved(t *testing.T) {
	reviewer, reconciler, m := newTestReviewer(t)
	st, v1, _ := seedManualCase(t, reconciler, m, 0, "800.00")

	_, err := reviewer.Approve(context.Background(), st.ID, v1.ID, "reviewer-1", "")
	require.NoError(t, err)

	_, total, err := reviewer.ListCases(entity.ListFilters{})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
}

func TestStats(t *testing.T) {
	reviewer, reconciler, m := newTestReviewer(t)

	approved, v1, _ := seedManualCase(t, reconciler, m, 0, "800.00")
	_, err := reviewer.Approve(context.Background(), approved.ID, v1.ID, "reviewer-1", "")
	require.NoError(t, err)

	rejected, _, _ := seedManualCase(t, reconciler, m, 1, "810.00")
	require.NoError(t, reviewer.Reject(context.Background(), rejected.ID, "not ours", "reviewer-1", ""))

	pending, _, _ := seedManualCase(t, reconciler, m, 2, "820.00")
	_ = pending

	stats, err := reviewer.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Approved)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, 0.5, stats.ApprovalRate)
	// The approved case settled against house 33.
	assert.Equal(t, 1, stats.ByHouseRange["21-40"])
}
