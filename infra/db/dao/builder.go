package dao

import (
	"time"

	"github.com/jinzhu/gorm"
	"github.com/shopspring/decimal"

	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

type DaoMethod interface {
	// Bank transactions
	GetBankTransactionByID(id int64) (model.BankTransaction, error)
	GetUnconfirmedDeposits(r entity.DateRange, afterID int64, limit int) ([]model.BankTransaction, error)
	UpdateBankTransaction(tx model.BankTransaction) error

	// Vouchers
	GetVoucherByID(id int64) (model.Voucher, error)
	GetUnconfirmedVouchersByAmount(amount decimal.Decimal) ([]model.Voucher, error)
	GetUnfundedVouchers(f entity.ListFilters) ([]model.Voucher, int, error)
	UpdateVoucher(v model.Voucher) error

	// Transaction statuses / manual cases
	GetTransactionStatusByID(id int64) (model.TransactionStatus, error)
	GetTransactionStatusByTransactionID(txID int64) (model.TransactionStatus, error)
	SaveTransactionStatus(st model.TransactionStatus) (model.TransactionStatus, error)
	GetUnclaimedDeposits(f entity.ListFilters) ([]model.TransactionStatus, int, error)
	GetManualCases(f entity.ListFilters) ([]model.TransactionStatus, int, error)
	GetStatusCountsByValidation() (map[string]int, error)

	// Manual validation approvals
	CreateManualValidationApproval(a *model.ManualValidationApproval) error
	GetApprovalByStatusID(statusID int64) (model.ManualValidationApproval, error)
	GetApprovals() ([]model.ManualValidationApproval, error)

	// Houses and balances
	GetHouseByID(id int64) (model.House, error)
	GetHouseByNumber(number int) (model.House, error)
	GetHouses() ([]model.House, error)
	CreateHouse(h *model.House) error
	GetHouseBalance(houseID int64) (model.HouseBalance, error)
	SaveHouseBalance(b model.HouseBalance) error

	// Periods, configs, charges
	GetPeriodByID(id int64) (model.Period, error)
	GetPeriodByYearMonth(year, month int) (model.Period, error)
	CreatePeriod(p *model.Period) error
	GetActivePeriodConfig(at time.Time) (model.PeriodConfig, error)
	GetOpenEndedPeriodConfig() (model.PeriodConfig, error)
	CreatePeriodConfig(cfg *model.PeriodConfig) error
	UpdatePeriodConfig(cfg model.PeriodConfig) error
	GetChargeOverride(houseID int64, conceptType string) (model.ChargeOverride, error)
	GetHousePeriodCharges(houseID, periodID int64) ([]model.HousePeriodCharge, error)
	GetAllHousePeriodCharges(houseID int64) ([]model.HousePeriodCharge, error)
	CreateHousePeriodCharge(c *model.HousePeriodCharge) error

	// Payment allocations
	CreatePaymentAllocation(a *model.PaymentAllocation) error
	GetAllocationsByHousePeriod(houseID, periodID int64) ([]model.PaymentAllocation, error)
	GetAllocationsByHouse(houseID int64) ([]model.PaymentAllocation, error)
	GetCreditAllocation(houseID, periodID int64) (model.PaymentAllocation, error)

	// Reconcile runs
	CreateReconcileRun(run *model.ReconcileRun) error
	GetPendingReconcileRuns() ([]model.ReconcileRun, error)
	GetReconcileRunByID(id int64) (model.ReconcileRun, error)
	UpdateReconcileRun(run model.ReconcileRun) error

	// Transaction runs fn against a dao bound to a single database
	// transaction; fn returning an error rolls everything back.
	Transaction(fn func(DaoMethod) error) error
}

type dao struct {
	db *gorm.DB
}

func NewDaoMethod(db *gorm.DB) DaoMethod {
	return &dao{db: db}
}

func (d *dao) Transaction(fn func(DaoMethod) error) error {
	return d.db.Transaction(func(tx *gorm.DB) error {
		return fn(&dao{db: tx})
	})
}

// notFound converts gorm's record-not-found into the typed error the
// usecases branch on; other errors pass through.
func notFound(err error, entityName string, id int64) error {
	if gorm.IsRecordNotFoundError(err) {
		return &entity.NotFoundError{Entity: entityName, ID: id}
	}
	return err
}
