package manualreview

import (
	"context"

	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/dao"
	"github.com/rvalenzuela/condo-reconciliation/infra/notify"
	"github.com/rvalenzuela/condo-reconciliation/usecase/allocation"
)

// ManualReviewUsecase is the operator workflow for deposits the matcher
// parked in requires_manual. A case is pending until approved or
// rejected; both resolutions are terminal and audited.
type ManualReviewUsecase interface {
	ListCases(f entity.ListFilters) ([]Case, int, error)
	Approve(ctx context.Context, caseID, voucherID int64, approver, notes string) (entity.AllocationResult, error)
	Reject(ctx context.Context, caseID int64, reason, approver, notes string) error
	Stats() (entity.ManualReviewStats, error)
}

// Case is the review view of one pending deposit with its retained
// scored candidates.
type Case struct {
	CaseID             int64              `json:"case_id"`
	BankTransactionID  int64              `json:"bank_transaction_id"`
	Reason             string             `json:"reason"`
	CentsHouseNumber   *int               `json:"cents_house_number,omitempty"`
	ConceptHouseNumber *int               `json:"concept_house_number,omitempty"`
	Candidates         []entity.Candidate `json:"candidates"`
	TopScore           float64            `json:"top_score"`
	CreateTime         int64              `json:"create_time"`
}

type manualReviewUsecase struct {
	dao       dao.DaoMethod
	allocator allocation.AllocationUsecase
	notifier  notify.Channel
}

func NewManualReviewUsecase(d dao.DaoMethod, allocator allocation.AllocationUsecase, notifier notify.Channel) ManualReviewUsecase {
	return &manualReviewUsecase{dao: d, allocator: allocator, notifier: notifier}
}
