package allocation

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/dao"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

// materializeCharges returns the period's expected charges, creating any
// missing HousePeriodCharge rows from the config effective at the period
// start. Precedence per concept: house override, then config default,
// then the hardcoded maintenance fallback.
func (u *allocationUsecase) materializeCharges(
	tx dao.DaoMethod,
	houseID int64,
	period model.Period,
	target model.Period,
	asOf time.Time,
) ([]model.HousePeriodCharge, error) {
	existing, err := tx.GetHousePeriodCharges(houseID, period.ID)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c.ConceptType] = true
	}

	cfg, err := tx.GetActivePeriodConfig(period.StartDate)
	if err != nil {
		var nf *entity.NotFoundError
		if errors.As(err, &nf) {
			return nil, entity.NewAllocationInvariantError(
				"no period config effective at %s", period.StartDate.Format("2006-01-02"))
		}
		return nil, err
	}

	wanted := u.expectedConcepts(tx, houseID, period, target, cfg, asOf, have)
	for _, w := range wanted {
		if have[w.concept] {
			continue
		}
		row := model.HousePeriodCharge{
			HouseID:        houseID,
			PeriodID:       period.ID,
			ConceptType:    w.concept,
			ExpectedAmount: w.amount,
			Source:         w.source,
			CreateTime:     time.Now().Unix(),
		}
		if err := tx.CreateHousePeriodCharge(&row); err != nil {
			return nil, err
		}
		existing = append(existing, row)
	}
	return existing, nil
}

type conceptCharge struct {
	concept string
	amount  decimal.Decimal
	source  string
}

func (u *allocationUsecase) expectedConcepts(
	tx dao.DaoMethod,
	houseID int64,
	period model.Period,
	target model.Period,
	cfg model.PeriodConfig,
	asOf time.Time,
	have map[string]bool,
) []conceptCharge {
	var out []conceptCharge

	// Late penalty only applies to the allocation's own period, and only
	// when paying past the due day with maintenance still open.
	if period.ID == target.ID && cfg.LatePenaltyAmount.IsPositive() && !have[consts.ConceptPenalty] {
		due := time.Date(period.Year, time.Month(period.Month), cfg.PaymentDueDay, 23, 59, 59, 0, time.UTC)
		if asOf.After(due) && u.maintenanceOutstanding(tx, houseID, period) {
			out = append(out, u.resolveAmount(tx, houseID, consts.ConceptPenalty, cfg.LatePenaltyAmount))
		}
	}

	maintenance := cfg.MaintenanceAmount
	source := consts.ChargeSourceConfig
	if !maintenance.IsPositive() {
		maintenance, _ = decimal.NewFromString(consts.FallbackMaintenanceAmount)
		source = consts.ChargeSourceFallback
	}
	m := u.resolveAmount(tx, houseID, consts.ConceptMaintenance, maintenance)
	if m.source == consts.ChargeSourceConfig {
		m.source = source
	}
	out = append(out, m)

	if period.WaterActive && cfg.WaterAmount.IsPositive() {
		out = append(out, u.resolveAmount(tx, houseID, consts.ConceptWater, cfg.WaterAmount))
	}
	if period.ExtraordinaryActive && cfg.ExtraordinaryAmount.IsPositive() {
		out = append(out, u.resolveAmount(tx, houseID, consts.ConceptExtraordinary, cfg.ExtraordinaryAmount))
	}
	return out
}

// maintenanceOutstanding reports whether the period's maintenance charge
// is still (partly) unpaid. An unmaterialized charge counts as unpaid.
func (u *allocationUsecase) maintenanceOutstanding(tx dao.DaoMethod, houseID int64, period model.Period) bool {
	charges, err := tx.GetHousePeriodCharges(houseID, period.ID)
	if err != nil {
		return false
	}
	var expected decimal.Decimal
	found := false
	for _, c := range charges {
		if c.ConceptType == consts.ConceptMaintenance {
			expected = c.ExpectedAmount
			found = true
		}
	}
	if !found {
		return true
	}
	allocations, err := tx.GetAllocationsByHousePeriod(houseID, period.ID)
	if err != nil {
		return false
	}
	paid := decimal.Zero
	for _, a := range allocations {
		if a.ConceptType == consts.ConceptMaintenance {
			paid = paid.Add(a.AllocatedAmount)
		}
	}
	return paid.LessThan(expected)
}

// resolveAmount applies the per-house override when one exists.
func (u *allocationUsecase) resolveAmount(tx dao.DaoMethod, houseID int64, concept string, configAmount decimal.Decimal) conceptCharge {
	if o, err := tx.GetChargeOverride(houseID, concept); err == nil {
		return conceptCharge{concept: concept, amount: o.Amount, source: consts.ChargeSourceOverride}
	}
	return conceptCharge{concept: concept, amount: configAmount, source: consts.ChargeSourceConfig}
}

// ensurePeriod finds or lazily creates the period row for a month.
// Auto-created periods only carry maintenance; water and extraordinary
// need explicit activation.
func (u *allocationUsecase) ensurePeriod(tx dao.DaoMethod, year, month int) (model.Period, error) {
	period, err := tx.GetPeriodByYearMonth(year, month)
	if err == nil {
		return period, nil
	}
	var nf *entity.NotFoundError
	if !errors.As(err, &nf) {
		return period, err
	}

	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	period = model.Period{
		Year:      year,
		Month:     month,
		StartDate: start,
		EndDate:   start.AddDate(0, 1, -1),
	}
	if err := tx.CreatePeriod(&period); err != nil {
		return period, err
	}
	return period, nil
}

func (u *allocationUsecase) ensureNextPeriod(tx dao.DaoMethod, p model.Period) (model.Period, error) {
	year, month := p.Year, p.Month+1
	if month > 12 {
		year, month = year+1, 1
	}
	return u.ensurePeriod(tx, year, month)
}
