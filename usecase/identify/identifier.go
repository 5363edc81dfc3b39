package identify

import (
	"regexp"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/rvalenzuela/condo-reconciliation/entity"
)

var (
	// "casa 15", "cs15", "house #7"
	keywordHousePattern = regexp.MustCompile(`(?i)\b(?:casa|house|cs|c)\s*#?\s*0*([1-9]\d{0,3})\b`)
	// bare short number in the description, e.g. "DEPOSITO 15 ENERO"
	bareHousePattern = regexp.MustCompile(`\b0*([1-9]\d{0,2})\b`)
)

// FromAmount reads the house number encoded in the fractional digits of
// the deposit amount. One digit d means house d*10 (residents type ".2"
// for house 20); two or more digits are taken literally. Zero or an
// out-of-range result yields no hint.
func (h *houseIdentifier) FromAmount(amount decimal.Decimal) *int {
	amount = amount.Abs()
	digits := int(-amount.Exponent())
	if digits <= 0 {
		return nil
	}

	frac := amount.Sub(amount.Truncate(0)).Shift(int32(digits))
	if !frac.IsInteger() {
		return nil
	}
	house := int(frac.IntPart())
	if digits == 1 {
		house *= 10
	}
	return h.bounded(house)
}

// FromConcept pattern-extracts an explicit house number from free text.
func (h *houseIdentifier) FromConcept(text string) *int {
	if m := keywordHousePattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			if house := h.bounded(n); house != nil {
				return house
			}
		}
	}
	if m := bareHousePattern.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return h.bounded(n)
		}
	}
	return nil
}

// Identify combines both signals without merging them: agreement or a
// single signal produces a usable hint, disagreement is a conflict.
func (h *houseIdentifier) Identify(amount decimal.Decimal, concept string) entity.HouseHint {
	hint := entity.HouseHint{
		CentsHouse:   h.FromAmount(amount),
		ConceptHouse: h.FromConcept(concept),
	}
	if hint.CentsHouse != nil && hint.ConceptHouse != nil && *hint.CentsHouse != *hint.ConceptHouse {
		hint.Conflict = true
	}
	return hint
}

func (h *houseIdentifier) bounded(n int) *int {
	if n < h.minHouse || n > h.maxHouse {
		return nil
	}
	return &n
}
