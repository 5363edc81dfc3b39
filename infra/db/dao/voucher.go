package dao

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

func (d *dao) GetVoucherByID(id int64) (model.Voucher, error) {
	var v model.Voucher
	if err := d.db.First(&v, id).Error; err != nil {
		return v, notFound(err, "voucher", id)
	}
	return v, nil
}

func (d *dao) GetUnconfirmedVouchersByAmount(amount decimal.Decimal) ([]model.Voucher, error) {
	var vouchers []model.Voucher
	if err := d.db.
		Where("confirmed = ? AND amount = ?", false, amount).
		Order("voucher_date ASC, id ASC").
		Find(&vouchers).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch voucher candidates: %w", err)
	}
	return vouchers, nil
}

func (d *dao) GetUnfundedVouchers(f entity.ListFilters) ([]model.Voucher, int, error) {
	f = f.Normalize()
	q := d.db.Model(&model.Voucher{}).Where("confirmed = ? AND bank_transaction_id IS NULL", false)
	if !f.Range.Start.IsZero() {
		q = q.Where("voucher_date >= ?", f.Range.Start)
	}
	if !f.Range.End.IsZero() {
		q = q.Where("voucher_date <= ?", f.Range.End)
	}
	if f.HouseNumber != nil {
		q = q.Where("house_number = ?", *f.HouseNumber)
	}

	var total int
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count unfunded vouchers: %w", err)
	}

	var vouchers []model.Voucher
	if err := q.Order("voucher_date ASC, id ASC").
		Offset(f.Offset()).Limit(f.PageSize).
		Find(&vouchers).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch unfunded vouchers: %w", err)
	}
	return vouchers, total, nil
}

func (d *dao) UpdateVoucher(v model.Voucher) error {
	if err := d.db.Save(&v).Error; err != nil {
		return fmt.Errorf("failed to update voucher %d: %w", v.ID, err)
	}
	return nil
}
