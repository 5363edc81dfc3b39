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

var one = decimal.NewFromInt(1)

func (u *allocationUsecase) Allocate(ctx context.Context, req AllocateRequest) (entity.AllocationResult, error) {
	result := entity.AllocationResult{HouseID: req.HouseID, Amount: req.Amount}

	if !req.Amount.IsPositive() {
		return result, entity.NewAllocationInvariantError("amount %s is not positive", req.Amount)
	}
	if req.AsOf.IsZero() {
		req.AsOf = time.Now()
	}

	u.locker.Lock(req.HouseID)
	defer u.locker.Unlock(req.HouseID)

	err := u.dao.Transaction(func(tx dao.DaoMethod) error {
		if _, err := tx.GetHouseByID(req.HouseID); err != nil {
			return err
		}

		target, err := u.resolveTargetPeriod(tx, req)
		if err != nil {
			return err
		}

		remaining := req.Amount
		period := target
		fracCarry := decimal.Zero
		for i := 0; i < consts.CarryLookaheadPeriods && remaining.IsPositive(); i++ {
			allocated, err := u.distributeInPeriod(tx, req, period, target, remaining)
			if err != nil {
				return err
			}
			result.Allocations = append(result.Allocations, allocated...)
			for _, a := range allocated {
				remaining = remaining.Sub(a.Allocated)
			}
			if i == 0 {
				// Only whole units carry past the target period. The
				// sub-unit remainder is the cents encoding, not money
				// owed to a future charge.
				fracCarry = remaining.Sub(remaining.Floor())
				remaining = remaining.Floor()
			}
			if !remaining.IsPositive() {
				break
			}
			period, err = u.ensureNextPeriod(tx, period)
			if err != nil {
				return err
			}
		}

		if req.AllowOverfill && remaining.IsPositive() {
			over, err := u.overfillTarget(tx, req, target, remaining)
			if err != nil {
				return err
			}
			result.Allocations = append(result.Allocations, over)
			remaining = decimal.Zero
		}

		toCredit, extracted, carry, err := u.settleRemainder(tx, req.HouseID, target, remaining.Add(fracCarry))
		if err != nil {
			return err
		}
		result.ToCredit = toCredit
		result.CentsExtracted = extracted
		result.CentsCarry = carry
		return nil
	})
	if err != nil {
		return entity.AllocationResult{HouseID: req.HouseID, Amount: req.Amount}, err
	}

	log.Infof("[Allocate] house %d: distributed %s over %d concepts, credit %s, cents %s",
		req.HouseID, result.Distributed(), len(result.Allocations), result.ToCredit, result.CentsCarry)
	return result, nil
}

func (u *allocationUsecase) resolveTargetPeriod(tx dao.DaoMethod, req AllocateRequest) (model.Period, error) {
	if req.PeriodID != nil {
		period, err := tx.GetPeriodByID(*req.PeriodID)
		if err != nil {
			var nf *entity.NotFoundError
			if errors.As(err, &nf) {
				return period, entity.NewValidationError("unknown period %d", *req.PeriodID)
			}
			return period, err
		}
		return period, nil
	}
	return u.ensurePeriod(tx, req.AsOf.Year(), int(req.AsOf.Month()))
}

// distributeInPeriod fills the period's concepts in fixed priority order,
// capping each concept at its remaining expected amount so excess always
// routes onward.
func (u *allocationUsecase) distributeInPeriod(
	tx dao.DaoMethod,
	req AllocateRequest,
	period model.Period,
	target model.Period,
	remaining decimal.Decimal,
) ([]entity.ConceptAllocation, error) {
	charges, err := u.materializeCharges(tx, req.HouseID, period, target, req.AsOf)
	if err != nil {
		return nil, err
	}

	existing, err := tx.GetAllocationsByHousePeriod(req.HouseID, period.ID)
	if err != nil {
		return nil, err
	}
	allocatedByConcept := make(map[string]decimal.Decimal)
	for _, a := range existing {
		allocatedByConcept[a.ConceptType] = allocatedByConcept[a.ConceptType].Add(a.AllocatedAmount)
	}

	chargeByConcept := make(map[string]model.HousePeriodCharge, len(charges))
	for _, c := range charges {
		chargeByConcept[c.ConceptType] = c
	}

	var out []entity.ConceptAllocation
	for _, concept := range consts.ConceptPriority {
		if !remaining.IsPositive() {
			break
		}
		charge, ok := chargeByConcept[concept]
		if !ok {
			continue
		}
		already := allocatedByConcept[concept]
		due := charge.ExpectedAmount.Sub(already)
		if !due.IsPositive() {
			continue
		}
		pay := decimal.Min(remaining, due)
		newTotal := already.Add(pay)

		status := consts.AllocationPartial
		if newTotal.GreaterThanOrEqual(charge.ExpectedAmount) {
			status = consts.AllocationComplete
		}

		row := model.PaymentAllocation{
			RecordType:      req.RecordType,
			RecordID:        req.RecordID,
			HouseID:         req.HouseID,
			PeriodID:        period.ID,
			ConceptType:     concept,
			AllocatedAmount: pay,
			ExpectedAmount:  charge.ExpectedAmount,
			Status:          status,
			CreateTime:      time.Now().Unix(),
		}
		if err := tx.CreatePaymentAllocation(&row); err != nil {
			return nil, err
		}
		out = append(out, entity.ConceptAllocation{
			PeriodID:    period.ID,
			ConceptType: concept,
			Allocated:   pay,
			Expected:    charge.ExpectedAmount,
			Status:      status,
		})
		remaining = remaining.Sub(pay)
	}
	return out, nil
}

// overfillTarget books surplus from a direct assignment against the
// target period's maintenance charge. The extra allocation pushes the
// concept past its expected amount, so it reads overpaid.
func (u *allocationUsecase) overfillTarget(
	tx dao.DaoMethod,
	req AllocateRequest,
	target model.Period,
	surplus decimal.Decimal,
) (entity.ConceptAllocation, error) {
	charges, err := tx.GetHousePeriodCharges(req.HouseID, target.ID)
	if err != nil {
		return entity.ConceptAllocation{}, err
	}
	expected := decimal.Zero
	for _, c := range charges {
		if c.ConceptType == consts.ConceptMaintenance {
			expected = c.ExpectedAmount
			break
		}
	}

	row := model.PaymentAllocation{
		RecordType:      req.RecordType,
		RecordID:        req.RecordID,
		HouseID:         req.HouseID,
		PeriodID:        target.ID,
		ConceptType:     consts.ConceptMaintenance,
		AllocatedAmount: surplus,
		ExpectedAmount:  expected,
		Status:          consts.AllocationOverpaid,
		CreateTime:      time.Now().Unix(),
	}
	if err := tx.CreatePaymentAllocation(&row); err != nil {
		return entity.ConceptAllocation{}, err
	}
	return entity.ConceptAllocation{
		PeriodID:    target.ID,
		ConceptType: consts.ConceptMaintenance,
		Allocated:   surplus,
		Expected:    expected,
		Status:      consts.AllocationOverpaid,
	}, nil
}

// settleRemainder books whatever survived the lookahead: whole units to
// credit, sub-unit remainder to accumulated cents, then recomputes the
// debit from every charge due by the target period. The whole unit
// extracted when accumulated cents cross 1.00 is returned separately
// from this allocation's own credit.
func (u *allocationUsecase) settleRemainder(
	tx dao.DaoMethod,
	houseID int64,
	target model.Period,
	remaining decimal.Decimal,
) (toCredit, extracted, frac decimal.Decimal, err error) {
	balance, err := u.loadOrInitBalance(tx, houseID)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}

	whole := remaining.Floor()
	frac = remaining.Sub(whole)

	extracted = decimal.Zero
	balance.AccumulatedCents = balance.AccumulatedCents.Add(frac)
	if balance.AccumulatedCents.GreaterThanOrEqual(one) {
		extracted = balance.AccumulatedCents.Floor()
		balance.CreditBalance = balance.CreditBalance.Add(extracted)
		balance.AccumulatedCents = balance.AccumulatedCents.Sub(extracted)
	}
	balance.CreditBalance = balance.CreditBalance.Add(whole)

	debit, err := u.computeDebit(tx, houseID, target.StartDate)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	balance.DebitBalance = debit
	balance.UpdateTime = time.Now().Unix()

	if err := tx.SaveHouseBalance(balance); err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	return whole, extracted, frac, nil
}

// computeDebit derives the debit from materialized charges instead of
// adjusting it incrementally, so the balance stays replayable. Only
// charges due by upTo count: carry into future periods is prepayment,
// not debt.
func (u *allocationUsecase) computeDebit(tx dao.DaoMethod, houseID int64, upTo time.Time) (decimal.Decimal, error) {
	charges, err := tx.GetAllHousePeriodCharges(houseID)
	if err != nil {
		return decimal.Zero, err
	}
	allocations, err := tx.GetAllocationsByHouse(houseID)
	if err != nil {
		return decimal.Zero, err
	}

	allocatedByKey := make(map[[2]int64]map[string]decimal.Decimal)
	for _, a := range allocations {
		key := [2]int64{a.HouseID, a.PeriodID}
		if allocatedByKey[key] == nil {
			allocatedByKey[key] = make(map[string]decimal.Decimal)
		}
		allocatedByKey[key][a.ConceptType] = allocatedByKey[key][a.ConceptType].Add(a.AllocatedAmount)
	}

	debit := decimal.Zero
	for _, c := range charges {
		period, err := tx.GetPeriodByID(c.PeriodID)
		if err != nil {
			return decimal.Zero, err
		}
		if period.StartDate.After(upTo) {
			continue
		}
		allocated := allocatedByKey[[2]int64{c.HouseID, c.PeriodID}][c.ConceptType]
		if shortfall := c.ExpectedAmount.Sub(allocated); shortfall.IsPositive() {
			debit = debit.Add(shortfall)
		}
	}
	return debit, nil
}

func (u *allocationUsecase) loadOrInitBalance(tx dao.DaoMethod, houseID int64) (model.HouseBalance, error) {
	balance, err := tx.GetHouseBalance(houseID)
	if err != nil {
		var nf *entity.NotFoundError
		if errors.As(err, &nf) {
			return model.HouseBalance{
				HouseID:          houseID,
				AccumulatedCents: decimal.Zero,
				CreditBalance:    decimal.Zero,
				DebitBalance:     decimal.Zero,
			}, nil
		}
		return balance, err
	}
	return balance, nil
}
