package manualreview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
	"github.com/rvalenzuela/condo-reconciliation/usecase/allocation"
)

// Approve resolves a pending case with one of its original candidates.
// The chosen voucher must come from the retained candidate set; anything
// else is an operator typo, not an override (overrides go through
// AssignHouse).
func (u *manualReviewUsecase) Approve(ctx context.Context, caseID, voucherID int64, approver, notes string) (entity.AllocationResult, error) {
	st, err := u.pendingCase(caseID)
	if err != nil {
		return entity.AllocationResult{}, err
	}

	candidate, err := findCandidate(st, voucherID)
	if err != nil {
		return entity.AllocationResult{}, err
	}

	deposit, err := u.dao.GetBankTransactionByID(st.BankTransactionID)
	if err != nil {
		return entity.AllocationResult{}, err
	}
	if deposit.Confirmed {
		return entity.AllocationResult{}, entity.NewConflictError("deposit %d is already confirmed", deposit.ID)
	}
	voucher, err := u.dao.GetVoucherByID(voucherID)
	if err != nil {
		return entity.AllocationResult{}, err
	}

	houseNumber := 0
	switch {
	case voucher.HouseNumber != nil:
		houseNumber = *voucher.HouseNumber
	case st.IdentifiedHouseNumber != nil:
		houseNumber = *st.IdentifiedHouseNumber
	case candidate.HouseNumber != nil:
		houseNumber = *candidate.HouseNumber
	}
	if houseNumber == 0 {
		return entity.AllocationResult{}, entity.NewValidationError("case %d has no house number to settle against", caseID)
	}
	house, err := u.ensureHouse(houseNumber)
	if err != nil {
		return entity.AllocationResult{}, err
	}

	now := time.Now().Unix()
	voucher.Confirmed = true
	voucher.BankTransactionID = &deposit.ID
	voucher.UpdateTime = now
	if err := u.dao.UpdateVoucher(voucher); err != nil {
		return entity.AllocationResult{}, err
	}
	deposit.Confirmed = true
	deposit.UpdateTime = now
	if err := u.dao.UpdateBankTransaction(deposit); err != nil {
		return entity.AllocationResult{}, err
	}

	result, err := u.allocator.Allocate(ctx, allocation.AllocateRequest{
		HouseID:    house.ID,
		Amount:     deposit.Amount,
		RecordType: consts.RecordTypeDeposit,
		RecordID:   deposit.ID,
		AsOf:       deposit.TxDate,
	})
	if err != nil {
		u.unwindApproval(deposit, voucher, st)
		return entity.AllocationResult{}, err
	}

	approval := model.ManualValidationApproval{
		StatusID:        st.ID,
		ChosenVoucherID: &voucherID,
		Approved:        true,
		ApproverID:      approver,
		Notes:           notes,
		Reference:       uuid.New().String(),
		CreateTime:      time.Now().Unix(),
	}
	if err := u.dao.CreateManualValidationApproval(&approval); err != nil {
		return entity.AllocationResult{}, err
	}

	st.ValidationStatus = consts.ValidationConfirmed
	st.Reason = fmt.Sprintf("approved by %s with voucher %d", approver, voucherID)
	st.IdentifiedHouseNumber = &houseNumber
	if _, err := u.dao.SaveTransactionStatus(st); err != nil {
		return entity.AllocationResult{}, err
	}

	if err := u.notifier.Notify(houseNumber, fmt.Sprintf(
		"payment of %s %s confirmed after review", deposit.Amount, deposit.Currency)); err != nil {
		log.Warnf("[ManualReview] notification for house %d failed: %v", houseNumber, err)
	}

	log.Infof("[ManualReview] case %d approved by %s (voucher %d, house %d)", caseID, approver, voucherID, houseNumber)
	return result, nil
}

// pendingCase loads a case and enforces the single-writer rule: a case
// that already has an approval row, or whose status left requires_manual,
// cannot be resolved again.
func (u *manualReviewUsecase) pendingCase(caseID int64) (model.TransactionStatus, error) {
	st, err := u.dao.GetTransactionStatusByID(caseID)
	if err != nil {
		return st, err
	}
	if st.ValidationStatus != consts.ValidationRequiresManual {
		return st, entity.NewConflictError("case %d is already resolved (%s)", caseID, st.ValidationStatus)
	}
	if _, err := u.dao.GetApprovalByStatusID(st.ID); err == nil {
		return st, entity.NewConflictError("case %d already has a resolution record", caseID)
	} else {
		var nf *entity.NotFoundError
		if !errors.As(err, &nf) {
			return st, err
		}
	}
	return st, nil
}

func findCandidate(st model.TransactionStatus, voucherID int64) (entity.Candidate, error) {
	var candidates []entity.Candidate
	if st.CandidatesJSON != "" {
		if err := json.Unmarshal([]byte(st.CandidatesJSON), &candidates); err != nil {
			return entity.Candidate{}, fmt.Errorf("failed to decode case candidates: %w", err)
		}
	}
	for _, c := range candidates {
		if c.VoucherID == voucherID {
			return c, nil
		}
	}
	return entity.Candidate{}, entity.NewValidationError(
		"voucher %d is not a candidate of case %d", voucherID, st.ID)
}

func (u *manualReviewUsecase) unwindApproval(deposit model.BankTransaction, voucher model.Voucher, st model.TransactionStatus) {
	now := time.Now().Unix()
	voucher.Confirmed = false
	voucher.BankTransactionID = nil
	voucher.UpdateTime = now
	if err := u.dao.UpdateVoucher(voucher); err != nil {
		log.Errorf("[ManualReview] failed to unwind voucher %d: %v", voucher.ID, err)
	}
	deposit.Confirmed = false
	deposit.UpdateTime = now
	if err := u.dao.UpdateBankTransaction(deposit); err != nil {
		log.Errorf("[ManualReview] failed to unwind deposit %d: %v", deposit.ID, err)
	}
}

func (u *manualReviewUsecase) ensureHouse(number int) (model.House, error) {
	house, err := u.dao.GetHouseByNumber(number)
	if err == nil {
		return house, nil
	}
	var nf *entity.NotFoundError
	if !errors.As(err, &nf) {
		return house, err
	}
	house = model.House{
		Number:      number,
		OwnerUserID: consts.SystemUserID,
		CreateTime:  time.Now().Unix(),
	}
	if err := u.dao.CreateHouse(&house); err != nil {
		return house, err
	}
	return house, nil
}
