package entity

import "github.com/shopspring/decimal"

// BalanceView is the read model returned by GetHouseBalance.
type BalanceView struct {
	HouseID          int64           `json:"house_id"`
	HouseNumber      int             `json:"house_number"`
	AccumulatedCents decimal.Decimal `json:"accumulated_cents"`
	CreditBalance    decimal.Decimal `json:"credit_balance"`
	DebitBalance     decimal.Decimal `json:"debit_balance"`
	NetBalance       decimal.Decimal `json:"net_balance"`
	Status           string          `json:"status"`
}

// ConceptAllocation is one concept's share of a distributed amount.
type ConceptAllocation struct {
	PeriodID    int64           `json:"period_id"`
	ConceptType string          `json:"concept_type"`
	Allocated   decimal.Decimal `json:"allocated"`
	Expected    decimal.Decimal `json:"expected"`
	Status      string          `json:"status"`
}

// AllocationResult reports how one confirmed amount was distributed.
// ToCredit and CentsCarry come out of this allocation's amount;
// CentsExtracted is the whole unit pulled from previously accumulated
// cents when they cross 1.00, reported separately for the audit trail.
type AllocationResult struct {
	HouseID        int64               `json:"house_id"`
	Amount         decimal.Decimal     `json:"amount"`
	Allocations    []ConceptAllocation `json:"allocations"`
	ToCredit       decimal.Decimal     `json:"to_credit"`
	CentsExtracted decimal.Decimal     `json:"cents_extracted"`
	CentsCarry     decimal.Decimal     `json:"cents_carry"`
}

// Distributed sums the concept allocations.
func (r AllocationResult) Distributed() decimal.Decimal {
	total := decimal.Zero
	for _, a := range r.Allocations {
		total = total.Add(a.Allocated)
	}
	return total
}
