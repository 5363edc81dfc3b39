package allocation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

func TestCreatePeriodConfigClosesPrior(t *testing.T) {
	uc, m := newTestAllocator(t)

	first, err := uc.CreatePeriodConfig(model.PeriodConfig{
		EffectiveFrom:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		MaintenanceAmount: dec("800.00"),
		PaymentDueDay:     10,
	})
	require.NoError(t, err)
	assert.Nil(t, first.EffectiveUntil)

	second, err := uc.CreatePeriodConfig(model.PeriodConfig{
		EffectiveFrom:     time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		MaintenanceAmount: dec("900.00"),
		PaymentDueDay:     10,
	})
	require.NoError(t, err)
	assert.Nil(t, second.EffectiveUntil)

	// The prior config now ends the day before the new one starts.
	closed, err := m.GetActivePeriodConfig(time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, first.ID, closed.ID)
	require.NotNil(t, closed.EffectiveUntil)
	assert.Equal(t, time.Date(2026, time.May, 31, 0, 0, 0, 0, time.UTC), *closed.EffectiveUntil)

	// Only the new config is open-ended.
	open, err := m.GetOpenEndedPeriodConfig()
	require.NoError(t, err)
	assert.Equal(t, second.ID, open.ID)

	active, err := m.GetActivePeriodConfig(time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, active.MaintenanceAmount.Equal(dec("900.00")))
}

func TestCreatePeriodConfigRejectsEarlierStart(t *testing.T) {
	uc, _ := newTestAllocator(t)

	_, err := uc.CreatePeriodConfig(model.PeriodConfig{
		EffectiveFrom:     time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC),
		MaintenanceAmount: dec("800.00"),
		PaymentDueDay:     10,
	})
	require.NoError(t, err)

	_, err = uc.CreatePeriodConfig(model.PeriodConfig{
		EffectiveFrom:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		MaintenanceAmount: dec("900.00"),
		PaymentDueDay:     10,
	})
	var cErr *entity.ConflictError
	require.ErrorAs(t, err, &cErr)
}

func TestCreatePeriodConfigValidation(t *testing.T) {
	uc, _ := newTestAllocator(t)

	tests := []struct {
		name string
		cfg  model.PeriodConfig
	}{
		{
			name: "missing effective_from",
			cfg: model.PeriodConfig{
				MaintenanceAmount: dec("800.00"),
				PaymentDueDay:     10,
			},
		},
		{
			name: "non-positive maintenance",
			cfg: model.PeriodConfig{
				EffectiveFrom: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
				PaymentDueDay: 10,
			},
		},
		{
			name: "due day out of range",
			cfg: model.PeriodConfig{
				EffectiveFrom:     time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
				MaintenanceAmount: dec("800.00"),
				PaymentDueDay:     31,
			},
		},
		{
			name: "negative credit threshold",
			cfg: model.PeriodConfig{
				EffectiveFrom:        time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
				MaintenanceAmount:    dec("800.00"),
				PaymentDueDay:        10,
				CentsCreditThreshold: dec("-1"),
			},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreatePeriodConfig(tc.cfg)
			var vErr *entity.ValidationError
			require.ErrorAs(t, err, &vErr)
		})
	}
}
