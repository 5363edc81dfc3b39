package reconciliation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
)

func TestGetUnclaimedDeposits(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	conflicting := seedDeposit(t, m, "800.15", "pago casa 20", march5)
	unmatched := seedDeposit(t, m, "512.10", "sin referencia", march5)
	matched := seedDeposit(t, m, "700.30", "pago casa 30", march5)
	seedVoucher(t, m, "800.15", intPtr(15), march5)
	seedVoucher(t, m, "700.30", intPtr(30), march5)

	_, err := uc.Reconcile(context.Background(), entity.DateRange{}, "tester")
	require.NoError(t, err)

	rows, total, err := uc.GetUnclaimedDeposits(entity.ListFilters{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	byTx := make(map[int64]UnclaimedDeposit, len(rows))
	for _, row := range rows {
		byTx[row.BankTransactionID] = row
	}
	assert.Equal(t, consts.ValidationConflict, byTx[conflicting.ID].ValidationStatus)
	assert.Equal(t, consts.ValidationNotFound, byTx[unmatched.ID].ValidationStatus)
	assert.NotContains(t, byTx, matched.ID)
}

func TestAssignHouse(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	deposit := seedDeposit(t, m, "650.00", "sin referencia", march5)

	result, err := uc.AssignHouse(context.Background(), deposit.ID, 22, "operator", "resident called in")
	require.NoError(t, err)
	assert.True(t, result.Distributed().Equal(dec("650.00")))

	got, err := m.GetBankTransactionByID(deposit.ID)
	require.NoError(t, err)
	assert.True(t, got.Confirmed)

	st, err := m.GetTransactionStatusByTransactionID(deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.ValidationConfirmed, st.ValidationStatus)
	require.NotNil(t, st.IdentifiedHouseNumber)
	assert.Equal(t, 22, *st.IdentifiedHouseNumber)

	house, err := m.GetHouseByNumber(22)
	require.NoError(t, err)
	allocations, err := m.GetAllocationsByHouse(house.ID)
	require.NoError(t, err)
	require.Len(t, allocations, 1)
	assert.Equal(t, consts.RecordTypeManual, allocations[0].RecordType)
	assert.Equal(t, deposit.ID, allocations[0].RecordID)
}

func TestAssignHouseRejectsConfirmedDeposit(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	deposit := seedDeposit(t, m, "650.00", "", march5)

	_, err := uc.AssignHouse(context.Background(), deposit.ID, 22, "operator", "")
	require.NoError(t, err)

	_, err = uc.AssignHouse(context.Background(), deposit.ID, 22, "operator", "")
	var cErr *entity.ConflictError
	require.ErrorAs(t, err, &cErr)
}

func TestAssignHouseRejectsNonDeposit(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	withdrawal := seedDeposit(t, m, "650.00", "", march5)
	withdrawal.IsDeposit = false
	require.NoError(t, m.UpdateBankTransaction(withdrawal))

	_, err := uc.AssignHouse(context.Background(), withdrawal.ID, 22, "operator", "")
	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestAssignHouseRejectsBadHouseNumber(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	deposit := seedDeposit(t, m, "650.00", "", march5)

	_, err := uc.AssignHouse(context.Background(), deposit.ID, 0, "operator", "")
	var vErr *entity.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestMatchVoucherToDeposit(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	deposit := seedDeposit(t, m, "800.00", "transferencia", march5)
	voucher := seedVoucher(t, m, "800.00", nil, march5)

	result, err := uc.MatchVoucherToDeposit(context.Background(), voucher.ID, deposit.ID, 18, "operator", "receipt verified")
	require.NoError(t, err)
	assert.True(t, result.Distributed().Equal(dec("800.00")))

	v, err := m.GetVoucherByID(voucher.ID)
	require.NoError(t, err)
	assert.True(t, v.Confirmed)
	require.NotNil(t, v.BankTransactionID)
	assert.Equal(t, deposit.ID, *v.BankTransactionID)
	require.NotNil(t, v.HouseNumber)
	assert.Equal(t, 18, *v.HouseNumber)

	got, err := m.GetBankTransactionByID(deposit.ID)
	require.NoError(t, err)
	assert.True(t, got.Confirmed)
}

func TestMatchVoucherToDepositRejectsConfirmedVoucher(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	deposit := seedDeposit(t, m, "800.00", "", march5)
	other := seedDeposit(t, m, "800.00", "", march5)
	voucher := seedVoucher(t, m, "800.00", nil, march5)

	_, err := uc.MatchVoucherToDeposit(context.Background(), voucher.ID, deposit.ID, 18, "operator", "")
	require.NoError(t, err)

	_, err = uc.MatchVoucherToDeposit(context.Background(), voucher.ID, other.ID, 18, "operator", "")
	var cErr *entity.ConflictError
	require.ErrorAs(t, err, &cErr)
}

func TestGetUnfundedVouchersFilters(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedVoucher(t, m, "800.00", intPtr(5), march5)
	seedVoucher(t, m, "650.00", intPtr(9), march5)

	rows, total, err := uc.GetUnfundedVouchers(entity.ListFilters{HouseNumber: intPtr(5)})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].HouseNumber)
	assert.Equal(t, 5, *rows[0].HouseNumber)
}
