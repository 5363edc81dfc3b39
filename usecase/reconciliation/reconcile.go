package reconciliation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
	"github.com/rvalenzuela/condo-reconciliation/usecase/allocation"
)

func (u *reconciliationUsecase) Reconcile(ctx context.Context, r entity.DateRange, operator string) (entity.ReconcileSummary, error) {
	log.Infof("[Reconcile] Starting batch (operator: %s)", operator)

	summary := entity.ReconcileSummary{}
	afterID := int64(0)
	for {
		deposits, err := u.dao.GetUnconfirmedDeposits(r, afterID, consts.DefaultBatchSize)
		if err != nil {
			return summary, fmt.Errorf("failed to load deposits: %w", err)
		}
		if len(deposits) == 0 {
			break
		}
		afterID = deposits[len(deposits)-1].ID

		for _, deposit := range deposits {
			summary.Processed++
			decision, err := u.processDeposit(ctx, deposit)
			if err != nil {
				log.Errorf("[Reconcile] deposit %d failed: %v", deposit.ID, err)
				summary.Failures = append(summary.Failures, entity.ItemFailure{
					BankTransactionID: deposit.ID,
					Error:             err.Error(),
				})
				continue
			}
			switch decision.Kind {
			case entity.DecideAutoConfirm:
				summary.Matched++
			case entity.DecideRequiresManual:
				summary.ManualCases++
			default:
				summary.Unclaimed++
			}
		}
	}

	_, unfunded, err := u.GetUnfundedVouchers(entity.ListFilters{Range: r, PageSize: 1})
	if err != nil {
		return summary, fmt.Errorf("failed to count unfunded vouchers: %w", err)
	}
	summary.Unfunded = unfunded

	log.Infof("[Reconcile] Batch done: processed=%d matched=%d manual=%d unclaimed=%d unfunded=%d failures=%d",
		summary.Processed, summary.Matched, summary.ManualCases, summary.Unclaimed,
		summary.Unfunded, len(summary.Failures))
	return summary, nil
}

// processDeposit runs the identifier and matcher for one deposit and
// persists the verdict. Auto-confirm links the voucher and allocates.
func (u *reconciliationUsecase) processDeposit(ctx context.Context, deposit model.BankTransaction) (entity.Decision, error) {
	hint := u.identifier.Identify(deposit.Amount, deposit.Concept)

	vouchers, err := u.dao.GetUnconfirmedVouchersByAmount(deposit.Amount)
	if err != nil {
		return entity.Decision{}, err
	}
	candidates := scoreCandidates(deposit.TxDate, hint.House(), vouchers)
	decision := decide(hint, candidates)

	if err := u.saveDecision(deposit, hint, decision); err != nil {
		return decision, err
	}

	if decision.Kind == entity.DecideAutoConfirm {
		if err := u.confirmMatch(ctx, deposit, decision.Winner.VoucherID, hint.House()); err != nil {
			return decision, err
		}
	}
	return decision, nil
}

func (u *reconciliationUsecase) saveDecision(deposit model.BankTransaction, hint entity.HouseHint, decision entity.Decision) error {
	st := model.TransactionStatus{
		BankTransactionID:  deposit.ID,
		Reason:             decision.Reason,
		CentsHouseNumber:   hint.CentsHouse,
		ConceptHouseNumber: hint.ConceptHouse,
		CandidateCount:     len(decision.Candidates),
	}
	switch decision.Kind {
	case entity.DecideAutoConfirm:
		st.ValidationStatus = consts.ValidationConfirmed
	case entity.DecideRequiresManual:
		st.ValidationStatus = consts.ValidationRequiresManual
	case entity.DecideConflict:
		st.ValidationStatus = consts.ValidationConflict
	default:
		st.ValidationStatus = consts.ValidationNotFound
	}
	st.IdentifiedHouseNumber = hint.House()
	if len(decision.Candidates) > 0 {
		st.TopScore = decision.Candidates[0].Score
		raw, err := json.Marshal(decision.Candidates)
		if err != nil {
			return fmt.Errorf("failed to marshal candidates: %w", err)
		}
		st.CandidatesJSON = string(raw)
	}
	_, err := u.dao.SaveTransactionStatus(st)
	return err
}

// confirmMatch links voucher and deposit, marks both confirmed and runs
// the allocation. A failed allocation unwinds the confirmation so the
// deposit stays reprocessable instead of sitting confirmed but unbooked.
func (u *reconciliationUsecase) confirmMatch(ctx context.Context, deposit model.BankTransaction, voucherID int64, hintHouse *int) error {
	voucher, err := u.dao.GetVoucherByID(voucherID)
	if err != nil {
		return err
	}

	houseNumber := 0
	if voucher.HouseNumber != nil {
		houseNumber = *voucher.HouseNumber
	} else if hintHouse != nil {
		houseNumber = *hintHouse
	}
	if houseNumber == 0 {
		return entity.NewValidationError("no house number for deposit %d", deposit.ID)
	}
	house, err := u.ensureHouse(houseNumber)
	if err != nil {
		return err
	}

	now := time.Now().Unix()
	voucher.Confirmed = true
	voucher.BankTransactionID = &deposit.ID
	voucher.UpdateTime = now
	if err := u.dao.UpdateVoucher(voucher); err != nil {
		return err
	}
	deposit.Confirmed = true
	deposit.UpdateTime = now
	if err := u.dao.UpdateBankTransaction(deposit); err != nil {
		return err
	}

	_, err = u.allocator.Allocate(ctx, allocation.AllocateRequest{
		HouseID:    house.ID,
		Amount:     deposit.Amount,
		RecordType: consts.RecordTypeDeposit,
		RecordID:   deposit.ID,
		AsOf:       deposit.TxDate,
	})
	if err != nil {
		u.unwindConfirmation(deposit, voucher, err)
		return err
	}

	if err := u.notifier.Notify(houseNumber, fmt.Sprintf(
		"payment of %s %s confirmed", deposit.Amount, deposit.Currency)); err != nil {
		log.Warnf("[Reconcile] notification for house %d failed: %v", houseNumber, err)
	}
	return nil
}

func (u *reconciliationUsecase) unwindConfirmation(deposit model.BankTransaction, voucher model.Voucher, cause error) {
	now := time.Now().Unix()
	if voucher.ID != 0 {
		voucher.Confirmed = false
		voucher.BankTransactionID = nil
		voucher.UpdateTime = now
		if err := u.dao.UpdateVoucher(voucher); err != nil {
			log.Errorf("[Reconcile] failed to unwind voucher %d: %v", voucher.ID, err)
		}
	}
	deposit.Confirmed = false
	deposit.UpdateTime = now
	if err := u.dao.UpdateBankTransaction(deposit); err != nil {
		log.Errorf("[Reconcile] failed to unwind deposit %d: %v", deposit.ID, err)
	}
	// Downgrade the saved verdict in place so the hint and candidate
	// fields survive into the unclaimed queue.
	st, err := u.dao.GetTransactionStatusByTransactionID(deposit.ID)
	if err != nil {
		log.Errorf("[Reconcile] failed to load status for deposit %d: %v", deposit.ID, err)
		st = model.TransactionStatus{BankTransactionID: deposit.ID}
	}
	st.ValidationStatus = consts.ValidationNotFound
	st.Reason = fmt.Sprintf("allocation failed: %v", cause)
	if _, err := u.dao.SaveTransactionStatus(st); err != nil {
		log.Errorf("[Reconcile] failed to unwind status for deposit %d: %v", deposit.ID, err)
	}
}

func (u *reconciliationUsecase) ensureHouse(number int) (model.House, error) {
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
	log.Infof("[Reconcile] auto-created house %d under system owner", number)
	return house, nil
}
