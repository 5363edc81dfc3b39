package allocation

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/dao"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
	"github.com/rvalenzuela/condo-reconciliation/infra/locker"
)

// AllocationUsecase distributes confirmed amounts across a house's
// outstanding charges and keeps the balance row consistent. Every
// Allocate call is one atomic unit under the house's lock.
type AllocationUsecase interface {
	Allocate(ctx context.Context, req AllocateRequest) (entity.AllocationResult, error)
	GetHouseBalance(houseID int64) (entity.BalanceView, error)
	ApplyCreditToPeriods(ctx context.Context, houseID int64) (entity.AllocationResult, error)
	CreatePeriodConfig(cfg model.PeriodConfig) (model.PeriodConfig, error)
}

// AllocateRequest names the money source for the audit trail. PeriodID
// nil targets the period containing AsOf; AsOf zero means now.
// AllowOverfill pins surplus that survives the whole lookahead onto the
// target period's maintenance charge as an overpaid allocation instead
// of converting it to credit; only direct operator assignment sets it.
type AllocateRequest struct {
	HouseID       int64
	Amount        decimal.Decimal
	PeriodID      *int64
	RecordType    string
	RecordID      int64
	AsOf          time.Time
	AllowOverfill bool
}

type allocationUsecase struct {
	dao    dao.DaoMethod
	locker *locker.HouseLocker
}

func NewAllocationUsecase(d dao.DaoMethod, l *locker.HouseLocker) AllocationUsecase {
	return &allocationUsecase{dao: d, locker: l}
}
