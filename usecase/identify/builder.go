package identify

import (
	"github.com/shopspring/decimal"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
)

// HouseIdentifier extracts candidate house numbers from a deposit. The
// two signals (cents encoding and concept text) stay independent; the
// matcher decides what to do when they disagree.
type HouseIdentifier interface {
	FromAmount(amount decimal.Decimal) *int
	FromConcept(text string) *int
	Identify(amount decimal.Decimal, concept string) entity.HouseHint
}

type houseIdentifier struct {
	minHouse int
	maxHouse int
}

func NewHouseIdentifier(maxHouse int) HouseIdentifier {
	if maxHouse <= 0 {
		maxHouse = consts.DefaultMaxHouseNumber
	}
	return &houseIdentifier{
		minHouse: consts.MinHouseNumber,
		maxHouse: maxHouse,
	}
}
