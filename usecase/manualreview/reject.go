package manualreview

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

// Reject closes a case without linking any voucher. The deposit goes
// back to the unclaimed queue; balances and allocations are untouched.
func (u *manualReviewUsecase) Reject(ctx context.Context, caseID int64, reason, approver, notes string) error {
	if reason == "" {
		return entity.NewValidationError("rejection reason is required")
	}

	st, err := u.pendingCase(caseID)
	if err != nil {
		return err
	}

	approval := model.ManualValidationApproval{
		StatusID:        st.ID,
		ChosenVoucherID: nil,
		Approved:        false,
		ApproverID:      approver,
		Notes:           notes,
		RejectionReason: reason,
		Reference:       uuid.New().String(),
		CreateTime:      time.Now().Unix(),
	}
	if err := u.dao.CreateManualValidationApproval(&approval); err != nil {
		return err
	}

	st.ValidationStatus = consts.ValidationNotFound
	st.Reason = fmt.Sprintf("rejected by %s: %s", approver, reason)
	if _, err := u.dao.SaveTransactionStatus(st); err != nil {
		return err
	}

	log.Infof("[ManualReview] case %d rejected by %s: %s", caseID, approver, reason)
	return nil
}
