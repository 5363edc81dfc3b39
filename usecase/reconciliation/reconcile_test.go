package reconciliation

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/dao"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
	"github.com/rvalenzuela/condo-reconciliation/infra/locker"
	"github.com/rvalenzuela/condo-reconciliation/infra/notify"
	"github.com/rvalenzuela/condo-reconciliation/usecase/allocation"
	"github.com/rvalenzuela/condo-reconciliation/usecase/identify"
)

var march5 = time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)

func newTestReconciler(t *testing.T) (ReconciliationUsecase, *dao.MemoryDao) {
	t.Helper()
	m := dao.NewMemoryDao()
	allocator := allocation.NewAllocationUsecase(m, locker.New())
	identifier := identify.NewHouseIdentifier(consts.DefaultMaxHouseNumber)
	return NewReconciliationUsecase(m, identifier, allocator, notify.NewLogChannel()), m
}

func seedConfig(t *testing.T, m *dao.MemoryDao) {
	t.Helper()
	cfg := model.PeriodConfig{
		EffectiveFrom:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		MaintenanceAmount: dec("800.00"),
		PaymentDueDay:     10,
		CreateTime:        time.Now().Unix(),
	}
	require.NoError(t, m.CreatePeriodConfig(&cfg))
}

func seedDeposit(t *testing.T, m *dao.MemoryDao, amount, concept string, date time.Time) model.BankTransaction {
	t.Helper()
	return m.SeedBankTransaction(model.BankTransaction{
		TxDate:    date,
		Concept:   concept,
		Amount:    dec(amount),
		Currency:  "MXN",
		IsDeposit: true,
	})
}

func seedVoucher(t *testing.T, m *dao.MemoryDao, amount string, house *int, date time.Time) model.Voucher {
	t.Helper()
	return m.SeedVoucher(model.Voucher{
		VoucherDate: date,
		Amount:      dec(amount),
		HouseNumber: house,
	})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func intPtr(n int) *int { return &n }

func TestReconcileAutoConfirmsSingleAgreeingCandidate(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	deposit := seedDeposit(t, m, "800.15", "pago casa 15", march5)
	voucher := seedVoucher(t, m, "800.15", intPtr(15), march5)

	summary, err := uc.Reconcile(context.Background(), entity.DateRange{}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)
	assert.Equal(t, 1, summary.Matched)
	assert.Empty(t, summary.Failures)

	got, err := m.GetBankTransactionByID(deposit.ID)
	require.NoError(t, err)
	assert.True(t, got.Confirmed)

	v, err := m.GetVoucherByID(voucher.ID)
	require.NoError(t, err)
	assert.True(t, v.Confirmed)
	require.NotNil(t, v.BankTransactionID)
	assert.Equal(t, deposit.ID, *v.BankTransactionID)

	st, err := m.GetTransactionStatusByTransactionID(deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.ValidationConfirmed, st.ValidationStatus)
	assert.Equal(t, 1.0, st.TopScore)

	// House 15 was auto-created and its maintenance paid.
	house, err := m.GetHouseByNumber(15)
	require.NoError(t, err)
	balance, err := m.GetHouseBalance(house.ID)
	require.NoError(t, err)
	assert.True(t, balance.AccumulatedCents.Equal(dec("0.15")))
	assert.True(t, balance.DebitBalance.IsZero())
}

func TestReconcileTieGoesToManual(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	deposit := seedDeposit(t, m, "800.00", "transferencia", march5)
	seedVoucher(t, m, "800.00", nil, march5)
	seedVoucher(t, m, "800.00", nil, march5)

	summary, err := uc.Reconcile(context.Background(), entity.DateRange{}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.ManualCases)
	assert.Equal(t, 0, summary.Matched)

	st, err := m.GetTransactionStatusByTransactionID(deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.ValidationRequiresManual, st.ValidationStatus)
	assert.Equal(t, 2, st.CandidateCount)
	assert.NotEmpty(t, st.CandidatesJSON)

	got, err := m.GetBankTransactionByID(deposit.ID)
	require.NoError(t, err)
	assert.False(t, got.Confirmed)
}

func TestReconcileDominantLeaderWins(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	seedDeposit(t, m, "900.15", "", march5)
	winner := seedVoucher(t, m, "900.15", intPtr(15), march5)
	seedVoucher(t, m, "900.15", intPtr(99), march5.AddDate(0, 0, -8))

	summary, err := uc.Reconcile(context.Background(), entity.DateRange{}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Matched)

	v, err := m.GetVoucherByID(winner.ID)
	require.NoError(t, err)
	assert.True(t, v.Confirmed)
}

func TestReconcileConflictingSignals(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	deposit := seedDeposit(t, m, "800.15", "pago casa 20", march5)
	seedVoucher(t, m, "800.15", intPtr(15), march5)

	summary, err := uc.Reconcile(context.Background(), entity.DateRange{}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unclaimed)

	st, err := m.GetTransactionStatusByTransactionID(deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.ValidationConflict, st.ValidationStatus)

	got, err := m.GetBankTransactionByID(deposit.ID)
	require.NoError(t, err)
	assert.False(t, got.Confirmed)
}

func TestReconcileNoCandidates(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	deposit := seedDeposit(t, m, "512.10", "sin referencia", march5)

	summary, err := uc.Reconcile(context.Background(), entity.DateRange{}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unclaimed)

	st, err := m.GetTransactionStatusByTransactionID(deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.ValidationNotFound, st.ValidationStatus)
}

func TestReconcileSecondRunSkipsConfirmed(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	seedDeposit(t, m, "800.15", "pago casa 15", march5)
	seedVoucher(t, m, "800.15", intPtr(15), march5)

	first, err := uc.Reconcile(context.Background(), entity.DateRange{}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Matched)

	second, err := uc.Reconcile(context.Background(), entity.DateRange{}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Processed)
}

func TestReconcileRespectsDateRange(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	seedDeposit(t, m, "800.15", "pago casa 15", march5)
	outside := seedDeposit(t, m, "700.20", "pago casa 20", march5.AddDate(0, -2, 0))

	summary, err := uc.Reconcile(context.Background(), entity.DateRange{
		Start: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
	}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Processed)

	_, err = m.GetTransactionStatusByTransactionID(outside.ID)
	var nf *entity.NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestReconcileCountsUnfundedVouchers(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	seedVoucher(t, m, "650.00", intPtr(8), march5)

	summary, err := uc.Reconcile(context.Background(), entity.DateRange{}, "tester")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Processed)
	assert.Equal(t, 1, summary.Unfunded)
}

func TestReconcileFailedAllocationKeepsHints(t *testing.T) {
	uc, m := newTestReconciler(t)
	// no period config: the allocation after auto-confirm must fail
	deposit := seedDeposit(t, m, "800.15", "pago casa 15", march5)
	voucher := seedVoucher(t, m, "800.15", intPtr(15), march5)

	summary, err := uc.Reconcile(context.Background(), entity.DateRange{}, "tester")
	require.NoError(t, err)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, deposit.ID, summary.Failures[0].BankTransactionID)

	st, err := m.GetTransactionStatusByTransactionID(deposit.ID)
	require.NoError(t, err)
	assert.Equal(t, consts.ValidationNotFound, st.ValidationStatus)
	assert.Contains(t, st.Reason, "allocation failed")
	require.NotNil(t, st.CentsHouseNumber)
	assert.Equal(t, 15, *st.CentsHouseNumber)
	require.NotNil(t, st.ConceptHouseNumber)
	assert.Equal(t, 15, *st.ConceptHouseNumber)
	assert.Equal(t, 1, st.CandidateCount)
	assert.NotEmpty(t, st.CandidatesJSON)

	got, err := m.GetBankTransactionByID(deposit.ID)
	require.NoError(t, err)
	assert.False(t, got.Confirmed)

	v, err := m.GetVoucherByID(voucher.ID)
	require.NoError(t, err)
	assert.False(t, v.Confirmed)
	assert.Nil(t, v.BankTransactionID)
}

func TestReconcileSpansMultipleChunks(t *testing.T) {
	uc, m := newTestReconciler(t)
	seedConfig(t, m)
	total := consts.DefaultBatchSize + 1
	for i := 0; i < total; i++ {
		seedDeposit(t, m, "700.00", "transferencia", march5)
	}

	summary, err := uc.Reconcile(context.Background(), entity.DateRange{}, "tester")
	require.NoError(t, err)
	assert.Equal(t, total, summary.Processed)
	assert.Equal(t, total, summary.Unclaimed)
}
