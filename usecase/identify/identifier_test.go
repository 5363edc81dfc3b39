package identify

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromAmount(t *testing.T) {
	h := NewHouseIdentifier(120)

	tests := []struct {
		name   string
		amount string
		want   *int
	}{
		{name: "one fractional digit scales by ten", amount: "800.2", want: intPtr(20)},
		{name: "two fractional digits literal", amount: "800.15", want: intPtr(15)},
		{name: "two digit single house", amount: "800.05", want: intPtr(5)},
		{name: "three fractional digits literal", amount: "800.115", want: intPtr(115)},
		{name: "no fractional part", amount: "800", want: nil},
		{name: "zero cents", amount: "800.00", want: nil},
		{name: "zero tenths", amount: "800.0", want: nil},
		{name: "above max house", amount: "800.121", want: nil},
		{name: "nine scales to ninety", amount: "800.9", want: intPtr(90)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := h.FromAmount(decimal.RequireFromString(tc.amount))
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestFromConcept(t *testing.T) {
	h := NewHouseIdentifier(120)

	tests := []struct {
		name string
		text string
		want *int
	}{
		{name: "casa keyword", text: "pago casa 15 enero", want: intPtr(15)},
		{name: "casa keyword with hash", text: "CASA #7 mantenimiento", want: intPtr(7)},
		{name: "compact cs form", text: "cs15 feb", want: intPtr(15)},
		{name: "house keyword", text: "house 42 maintenance", want: intPtr(42)},
		{name: "leading zeros stripped", text: "casa 015", want: intPtr(15)},
		{name: "bare number fallback", text: "DEPOSITO 15 ENERO", want: intPtr(15)},
		{name: "keyword wins over bare number", text: "recibo 99 casa 12", want: intPtr(12)},
		{name: "out of range number ignored", text: "casa 500", want: nil},
		{name: "no number at all", text: "transferencia mantenimiento", want: nil},
		{name: "zero is not a house", text: "folio 0", want: nil},
		{name: "empty text", text: "", want: nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := h.FromConcept(tc.text)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestIdentify(t *testing.T) {
	h := NewHouseIdentifier(120)

	t.Run("agreeing signals", func(t *testing.T) {
		hint := h.Identify(decimal.RequireFromString("800.15"), "casa 15")
		require.NotNil(t, hint.CentsHouse)
		require.NotNil(t, hint.ConceptHouse)
		assert.Equal(t, 15, *hint.CentsHouse)
		assert.Equal(t, 15, *hint.ConceptHouse)
		assert.False(t, hint.Conflict)
		require.NotNil(t, hint.House())
		assert.Equal(t, 15, *hint.House())
	})

	t.Run("disagreeing signals conflict", func(t *testing.T) {
		hint := h.Identify(decimal.RequireFromString("800.15"), "casa 20")
		assert.True(t, hint.Conflict)
		assert.Nil(t, hint.House())
	})

	t.Run("single signal is enough", func(t *testing.T) {
		hint := h.Identify(decimal.RequireFromString("800.00"), "casa 20")
		assert.Nil(t, hint.CentsHouse)
		require.NotNil(t, hint.House())
		assert.Equal(t, 20, *hint.House())
	})

	t.Run("no signal", func(t *testing.T) {
		hint := h.Identify(decimal.RequireFromString("800.00"), "transferencia")
		assert.Nil(t, hint.House())
		assert.False(t, hint.Conflict)
	})
}

func intPtr(n int) *int { return &n }
