package entity

// HouseHint carries the two identification signals for a deposit. The
// signals are independent and never merged: when both are present and
// disagree the deposit is a conflict.
type HouseHint struct {
	CentsHouse   *int
	ConceptHouse *int
	Conflict     bool
}

// House returns the single agreed-upon hint, or nil when there is none
// or the signals conflict.
func (h HouseHint) House() *int {
	if h.Conflict {
		return nil
	}
	if h.CentsHouse != nil {
		return h.CentsHouse
	}
	return h.ConceptHouse
}
