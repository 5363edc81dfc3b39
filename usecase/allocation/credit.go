package allocation

import (
	"context"
	"errors"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/dao"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

// ApplyCreditToPeriods converts accumulated credit into maintenance
// prepayments for upcoming periods. Idempotent per (house, period): a
// period that already carries a sentinel credit allocation is skipped, so
// a second sweep cannot double-apply.
func (u *allocationUsecase) ApplyCreditToPeriods(ctx context.Context, houseID int64) (entity.AllocationResult, error) {
	result := entity.AllocationResult{HouseID: houseID}

	u.locker.Lock(houseID)
	defer u.locker.Unlock(houseID)

	err := u.dao.Transaction(func(tx dao.DaoMethod) error {
		if _, err := tx.GetHouseByID(houseID); err != nil {
			return err
		}
		balance, err := u.loadOrInitBalance(tx, houseID)
		if err != nil {
			return err
		}

		now := time.Now()
		cfg, err := tx.GetActivePeriodConfig(now)
		if err != nil {
			var nf *entity.NotFoundError
			if errors.As(err, &nf) {
				return entity.NewAllocationInvariantError("no period config effective at %s", now.Format("2006-01-02"))
			}
			return err
		}

		if balance.CreditBalance.LessThan(cfg.CentsCreditThreshold) {
			return nil
		}
		result.Amount = balance.CreditBalance

		period, err := u.ensurePeriod(tx, now.Year(), int(now.Month()))
		if err != nil {
			return err
		}

		for i := 0; i < consts.CarryLookaheadPeriods; i++ {
			if balance.CreditBalance.LessThan(cfg.CentsCreditThreshold) {
				break
			}
			applied, err := u.applyCreditToPeriod(tx, houseID, period, now, &balance)
			if err != nil {
				return err
			}
			if applied != nil {
				result.Allocations = append(result.Allocations, *applied)
			}
			period, err = u.ensureNextPeriod(tx, period)
			if err != nil {
				return err
			}
		}

		balance.UpdateTime = time.Now().Unix()
		return tx.SaveHouseBalance(balance)
	})
	if err != nil {
		return entity.AllocationResult{HouseID: houseID}, err
	}

	if len(result.Allocations) > 0 {
		log.Infof("[CreditApply] house %d: applied %s across %d periods",
			houseID, result.Distributed(), len(result.Allocations))
	}
	return result, nil
}

func (u *allocationUsecase) applyCreditToPeriod(
	tx dao.DaoMethod,
	houseID int64,
	period model.Period,
	asOf time.Time,
	balance *model.HouseBalance,
) (*entity.ConceptAllocation, error) {
	// Idempotence guard.
	if _, err := tx.GetCreditAllocation(houseID, period.ID); err == nil {
		return nil, nil
	}

	charges, err := u.materializeCharges(tx, houseID, period, period, asOf)
	if err != nil {
		return nil, err
	}
	var maintenance *model.HousePeriodCharge
	for i := range charges {
		if charges[i].ConceptType == consts.ConceptMaintenance {
			maintenance = &charges[i]
			break
		}
	}
	if maintenance == nil {
		return nil, nil
	}

	allocations, err := tx.GetAllocationsByHousePeriod(houseID, period.ID)
	if err != nil {
		return nil, err
	}
	paid := decimal.Zero
	for _, a := range allocations {
		if a.ConceptType == consts.ConceptMaintenance {
			paid = paid.Add(a.AllocatedAmount)
		}
	}
	due := maintenance.ExpectedAmount.Sub(paid)
	if !due.IsPositive() {
		return nil, nil
	}

	apply := decimal.Min(balance.CreditBalance, due)
	newTotal := paid.Add(apply)
	status := consts.AllocationPartial
	if newTotal.GreaterThanOrEqual(maintenance.ExpectedAmount) {
		status = consts.AllocationComplete
	}

	row := model.PaymentAllocation{
		RecordType:      consts.RecordTypeCredit,
		RecordID:        consts.SystemCreditRecordID,
		HouseID:         houseID,
		PeriodID:        period.ID,
		ConceptType:     consts.ConceptMaintenance,
		AllocatedAmount: apply,
		ExpectedAmount:  maintenance.ExpectedAmount,
		Status:          status,
		CreateTime:      time.Now().Unix(),
	}
	if err := tx.CreatePaymentAllocation(&row); err != nil {
		return nil, err
	}

	balance.CreditBalance = balance.CreditBalance.Sub(apply)
	return &entity.ConceptAllocation{
		PeriodID:    period.ID,
		ConceptType: consts.ConceptMaintenance,
		Allocated:   apply,
		Expected:    maintenance.ExpectedAmount,
		Status:      status,
	}, nil
}
