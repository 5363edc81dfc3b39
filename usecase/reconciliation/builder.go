package reconciliation

import (
	"context"

	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/dao"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
	"github.com/rvalenzuela/condo-reconciliation/infra/notify"
	"github.com/rvalenzuela/condo-reconciliation/usecase/allocation"
	"github.com/rvalenzuela/condo-reconciliation/usecase/identify"
)

type ReconciliationUsecase interface {
	// Reconcile matches every unconfirmed deposit in the range against
	// the unconfirmed voucher corpus. Idempotent: confirmed rows are
	// never revisited; per-deposit failures are aggregated, not fatal.
	Reconcile(ctx context.Context, r entity.DateRange, operator string) (entity.ReconcileSummary, error)

	GetUnclaimedDeposits(f entity.ListFilters) ([]UnclaimedDeposit, int, error)
	GetUnfundedVouchers(f entity.ListFilters) ([]model.Voucher, int, error)

	// Operator actions that bypass the matcher.
	AssignHouse(ctx context.Context, depositID int64, houseNumber int, operator, notes string) (entity.AllocationResult, error)
	MatchVoucherToDeposit(ctx context.Context, voucherID, depositID int64, houseNumber int, operator, notes string) (entity.AllocationResult, error)

	// Run-log integration for the cron server.
	CreateRun(r entity.DateRange, operator string) (model.ReconcileRun, error)
	PendingRuns() ([]int64, error)
	ExecuteRun(ctx context.Context, runID int64) error
}

// UnclaimedDeposit is the queue view of a deposit that could not be
// auto-resolved, with both identification hints exposed.
type UnclaimedDeposit struct {
	BankTransactionID    int64   `json:"bank_transaction_id"`
	ValidationStatus     string  `json:"validation_status"`
	Reason               string  `json:"reason"`
	SuggestedHouseNumber *int    `json:"suggested_house_number,omitempty"`
	ConceptHouseNumber   *int    `json:"concept_house_number,omitempty"`
	TopScore             float64 `json:"top_score"`
	CandidateCount       int     `json:"candidate_count"`
}

type reconciliationUsecase struct {
	dao        dao.DaoMethod
	identifier identify.HouseIdentifier
	allocator  allocation.AllocationUsecase
	notifier   notify.Channel
}

func NewReconciliationUsecase(
	d dao.DaoMethod,
	identifier identify.HouseIdentifier,
	allocator allocation.AllocationUsecase,
	notifier notify.Channel,
) ReconciliationUsecase {
	return &reconciliationUsecase{
		dao:        d,
		identifier: identifier,
		allocator:  allocator,
		notifier:   notifier,
	}
}
