package allocation

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
)

func (u *allocationUsecase) GetHouseBalance(houseID int64) (entity.BalanceView, error) {
	house, err := u.dao.GetHouseByID(houseID)
	if err != nil {
		return entity.BalanceView{}, err
	}

	view := entity.BalanceView{
		HouseID:          house.ID,
		HouseNumber:      house.Number,
		AccumulatedCents: decimal.Zero,
		CreditBalance:    decimal.Zero,
		DebitBalance:     decimal.Zero,
	}

	balance, err := u.dao.GetHouseBalance(houseID)
	if err != nil {
		var nf *entity.NotFoundError
		if !errors.As(err, &nf) {
			return view, err
		}
		// No balance row yet: the house never received an allocation.
	} else {
		view.AccumulatedCents = balance.AccumulatedCents
		view.CreditBalance = balance.CreditBalance
		view.DebitBalance = balance.DebitBalance
	}

	view.NetBalance = view.CreditBalance.Sub(view.DebitBalance)
	switch {
	case view.DebitBalance.IsPositive():
		view.Status = consts.BalanceInDebt
	case view.CreditBalance.IsPositive():
		view.Status = consts.BalanceCredited
	default:
		view.Status = consts.BalanceBalanced
	}
	return view, nil
}
