package reconciliation

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
	"github.com/rvalenzuela/condo-reconciliation/usecase/allocation"
)

func (u *reconciliationUsecase) GetUnclaimedDeposits(f entity.ListFilters) ([]UnclaimedDeposit, int, error) {
	rows, total, err := u.dao.GetUnclaimedDeposits(f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]UnclaimedDeposit, 0, len(rows))
	for _, st := range rows {
		out = append(out, UnclaimedDeposit{
			BankTransactionID:    st.BankTransactionID,
			ValidationStatus:     st.ValidationStatus,
			Reason:               st.Reason,
			SuggestedHouseNumber: st.CentsHouseNumber,
			ConceptHouseNumber:   st.ConceptHouseNumber,
			TopScore:             st.TopScore,
			CandidateCount:       st.CandidateCount,
		})
	}
	return out, total, nil
}

func (u *reconciliationUsecase) GetUnfundedVouchers(f entity.ListFilters) ([]model.Voucher, int, error) {
	return u.dao.GetUnfundedVouchers(f)
}

// AssignHouse resolves an unclaimed deposit by operator decision. No
// voucher is involved: the money goes straight to the house's charges.
func (u *reconciliationUsecase) AssignHouse(ctx context.Context, depositID int64, houseNumber int, operator, notes string) (entity.AllocationResult, error) {
	if houseNumber < consts.MinHouseNumber {
		return entity.AllocationResult{}, entity.NewValidationError("house number %d out of range", houseNumber)
	}

	deposit, err := u.dao.GetBankTransactionByID(depositID)
	if err != nil {
		return entity.AllocationResult{}, err
	}
	if deposit.Confirmed {
		return entity.AllocationResult{}, entity.NewConflictError("deposit %d is already confirmed", depositID)
	}
	if !deposit.IsDeposit {
		return entity.AllocationResult{}, entity.NewValidationError("transaction %d is not a deposit", depositID)
	}

	house, err := u.ensureHouse(houseNumber)
	if err != nil {
		return entity.AllocationResult{}, err
	}

	deposit.Confirmed = true
	deposit.UpdateTime = time.Now().Unix()
	if err := u.dao.UpdateBankTransaction(deposit); err != nil {
		return entity.AllocationResult{}, err
	}

	st := model.TransactionStatus{
		BankTransactionID:     deposit.ID,
		ValidationStatus:      consts.ValidationConfirmed,
		Reason:                fmt.Sprintf("house %d assigned by %s: %s", houseNumber, operator, notes),
		IdentifiedHouseNumber: &houseNumber,
	}
	if _, err := u.dao.SaveTransactionStatus(st); err != nil {
		return entity.AllocationResult{}, err
	}

	result, err := u.allocator.Allocate(ctx, allocation.AllocateRequest{
		HouseID:       house.ID,
		Amount:        deposit.Amount,
		RecordType:    consts.RecordTypeManual,
		RecordID:      deposit.ID,
		AsOf:          deposit.TxDate,
		AllowOverfill: true,
	})
	if err != nil {
		u.unwindConfirmation(deposit, model.Voucher{ID: 0}, err)
		return entity.AllocationResult{}, err
	}

	log.Infof("[Reconcile] deposit %d assigned to house %d by %s", depositID, houseNumber, operator)
	return result, nil
}

// MatchVoucherToDeposit links a previously-unfunded voucher to a deposit
// by operator decision and allocates the deposit amount.
func (u *reconciliationUsecase) MatchVoucherToDeposit(ctx context.Context, voucherID, depositID int64, houseNumber int, operator, notes string) (entity.AllocationResult, error) {
	if houseNumber < consts.MinHouseNumber {
		return entity.AllocationResult{}, entity.NewValidationError("house number %d out of range", houseNumber)
	}

	voucher, err := u.dao.GetVoucherByID(voucherID)
	if err != nil {
		return entity.AllocationResult{}, err
	}
	if voucher.Confirmed {
		return entity.AllocationResult{}, entity.NewConflictError("voucher %d is already confirmed", voucherID)
	}
	deposit, err := u.dao.GetBankTransactionByID(depositID)
	if err != nil {
		return entity.AllocationResult{}, err
	}
	if deposit.Confirmed {
		return entity.AllocationResult{}, entity.NewConflictError("deposit %d is already confirmed", depositID)
	}

	house, err := u.ensureHouse(houseNumber)
	if err != nil {
		return entity.AllocationResult{}, err
	}

	now := time.Now().Unix()
	voucher.Confirmed = true
	voucher.BankTransactionID = &deposit.ID
	if voucher.HouseNumber == nil {
		voucher.HouseNumber = &houseNumber
	}
	voucher.UpdateTime = now
	if err := u.dao.UpdateVoucher(voucher); err != nil {
		return entity.AllocationResult{}, err
	}
	deposit.Confirmed = true
	deposit.UpdateTime = now
	if err := u.dao.UpdateBankTransaction(deposit); err != nil {
		return entity.AllocationResult{}, err
	}

	st := model.TransactionStatus{
		BankTransactionID:     deposit.ID,
		ValidationStatus:      consts.ValidationConfirmed,
		Reason:                fmt.Sprintf("voucher %d matched by %s: %s", voucherID, operator, notes),
		IdentifiedHouseNumber: &houseNumber,
	}
	if _, err := u.dao.SaveTransactionStatus(st); err != nil {
		return entity.AllocationResult{}, err
	}

	result, err := u.allocator.Allocate(ctx, allocation.AllocateRequest{
		HouseID:    house.ID,
		Amount:     deposit.Amount,
		RecordType: consts.RecordTypeManual,
		RecordID:   deposit.ID,
		AsOf:       deposit.TxDate,
	})
	if err != nil {
		u.unwindConfirmation(deposit, voucher, err)
		return entity.AllocationResult{}, err
	}

	log.Infof("[Reconcile] voucher %d matched to deposit %d (house %d) by %s",
		voucherID, depositID, houseNumber, operator)
	return result, nil
}
