package dao

import (
	"fmt"
	"time"

	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

func (d *dao) GetPeriodByID(id int64) (model.Period, error) {
	var p model.Period
	if err := d.db.First(&p, id).Error; err != nil {
		return p, notFound(err, "period", id)
	}
	return p, nil
}

func (d *dao) GetPeriodByYearMonth(year, month int) (model.Period, error) {
	var p model.Period
	if err := d.db.Where("year = ? AND month = ?", year, month).First(&p).Error; err != nil {
		return p, notFound(err, "period", int64(year*100+month))
	}
	return p, nil
}

func (d *dao) CreatePeriod(p *model.Period) error {
	if err := d.db.Create(p).Error; err != nil {
		return fmt.Errorf("failed to create period %d-%02d: %w", p.Year, p.Month, err)
	}
	return nil
}

func (d *dao) GetActivePeriodConfig(at time.Time) (model.PeriodConfig, error) {
	var cfg model.PeriodConfig
	if err := d.db.
		Where("effective_from <= ? AND (effective_until IS NULL OR effective_until >= ?)", at, at).
		Order("effective_from DESC").
		First(&cfg).Error; err != nil {
		return cfg, notFound(err, "period_config", 0)
	}
	return cfg, nil
}

func (d *dao) GetOpenEndedPeriodConfig() (model.PeriodConfig, error) {
	var cfg model.PeriodConfig
	if err := d.db.Where("effective_until IS NULL").First(&cfg).Error; err != nil {
		return cfg, notFound(err, "period_config", 0)
	}
	return cfg, nil
}

func (d *dao) CreatePeriodConfig(cfg *model.PeriodConfig) error {
	if err := d.db.Create(cfg).Error; err != nil {
		return fmt.Errorf("failed to create period config: %w", err)
	}
	return nil
}

func (d *dao) UpdatePeriodConfig(cfg model.PeriodConfig) error {
	if err := d.db.Save(&cfg).Error; err != nil {
		return fmt.Errorf("failed to update period config %d: %w", cfg.ID, err)
	}
	return nil
}

func (d *dao) GetChargeOverride(houseID int64, conceptType string) (model.ChargeOverride, error) {
	var o model.ChargeOverride
	if err := d.db.
		Where("house_id = ? AND concept_type = ?", houseID, conceptType).
		First(&o).Error; err != nil {
		return o, notFound(err, "charge_override", houseID)
	}
	return o, nil
}

func (d *dao) GetHousePeriodCharges(houseID, periodID int64) ([]model.HousePeriodCharge, error) {
	var charges []model.HousePeriodCharge
	if err := d.db.
		Where("house_id = ? AND period_id = ?", houseID, periodID).
		Find(&charges).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch charges: %w", err)
	}
	return charges, nil
}

func (d *dao) GetAllHousePeriodCharges(houseID int64) ([]model.HousePeriodCharge, error) {
	var charges []model.HousePeriodCharge
	if err := d.db.Where("house_id = ?", houseID).Find(&charges).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch house charges: %w", err)
	}
	return charges, nil
}

func (d *dao) CreateHousePeriodCharge(c *model.HousePeriodCharge) error {
	if err := d.db.Create(c).Error; err != nil {
		return fmt.Errorf("failed to materialize charge: %w", err)
	}
	return nil
}
