package dao

import (
	"fmt"

	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

func (d *dao) GetBankTransactionByID(id int64) (model.BankTransaction, error) {
	var tx model.BankTransaction
	if err := d.db.First(&tx, id).Error; err != nil {
		return tx, notFound(err, "bank_transaction", id)
	}
	return tx, nil
}

// GetUnconfirmedDeposits pages by id cursor so large ranges load in
// bounded chunks. Rows that stay unconfirmed (manual, unclaimed) are
// behind the cursor and not re-fetched within the same batch.
func (d *dao) GetUnconfirmedDeposits(r entity.DateRange, afterID int64, limit int) ([]model.BankTransaction, error) {
	var txs []model.BankTransaction
	q := d.db.Where("is_deposit = ? AND confirmed = ? AND id > ?", true, false, afterID)
	if !r.Start.IsZero() {
		q = q.Where("tx_date >= ?", r.Start)
	}
	if !r.End.IsZero() {
		q = q.Where("tx_date <= ?", r.End)
	}
	if err := q.Order("id ASC").Limit(limit).Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch unconfirmed deposits: %w", err)
	}
	return txs, nil
}

func (d *dao) UpdateBankTransaction(tx model.BankTransaction) error {
	if err := d.db.Save(&tx).Error; err != nil {
		return fmt.Errorf("failed to update bank transaction %d: %w", tx.ID, err)
	}
	return nil
}
