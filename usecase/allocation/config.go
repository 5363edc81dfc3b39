package allocation

import (
	"errors"
	"time"

	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/dao"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

// CreatePeriodConfig activates a new effective-dated config. The prior
// open-ended config, if any, is closed to the day before the new
// effective-from so at most one open-ended config exists.
func (u *allocationUsecase) CreatePeriodConfig(cfg model.PeriodConfig) (model.PeriodConfig, error) {
	if cfg.EffectiveFrom.IsZero() {
		return cfg, entity.NewValidationError("effective_from is required")
	}
	if !cfg.MaintenanceAmount.IsPositive() {
		return cfg, entity.NewValidationError("maintenance amount must be positive")
	}
	if cfg.PaymentDueDay < 1 || cfg.PaymentDueDay > 28 {
		return cfg, entity.NewValidationError("payment due day %d out of range", cfg.PaymentDueDay)
	}
	if cfg.CentsCreditThreshold.IsNegative() {
		return cfg, entity.NewValidationError("credit threshold must not be negative")
	}

	err := u.dao.Transaction(func(tx dao.DaoMethod) error {
		prior, err := tx.GetOpenEndedPeriodConfig()
		switch {
		case err == nil:
			if !prior.EffectiveFrom.Before(cfg.EffectiveFrom) {
				return entity.NewConflictError(
					"new config must start after the active config's effective_from")
			}
			until := cfg.EffectiveFrom.AddDate(0, 0, -1)
			prior.EffectiveUntil = &until
			if err := tx.UpdatePeriodConfig(prior); err != nil {
				return err
			}
		default:
			var nf *entity.NotFoundError
			if !errors.As(err, &nf) {
				return err
			}
		}

		cfg.CreateTime = time.Now().Unix()
		return tx.CreatePeriodConfig(&cfg)
	})
	if err != nil {
		return model.PeriodConfig{}, err
	}
	return cfg, nil
}
