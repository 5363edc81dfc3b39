package entity

import "time"

// Candidate is a scored voucher considered for one deposit. Retained in
// TransactionStatus metadata so manual review and audits can replay the
// ranking.
type Candidate struct {
	VoucherID   int64     `json:"voucher_id"`
	HouseNumber *int      `json:"house_number,omitempty"`
	Score       float64   `json:"score"`
	SameDay     bool      `json:"same_day"`
	DaysApart   int       `json:"days_apart"`
	HouseAgrees bool      `json:"house_agrees"`
	VoucherDate time.Time `json:"voucher_date"`
}

// DecisionKind is the matcher's verdict for one deposit.
type DecisionKind int

const (
	DecideNotFound DecisionKind = iota
	DecideAutoConfirm
	DecideRequiresManual
	DecideConflict
)

// Decision is the outcome of matching one deposit against the voucher
// corpus.
type Decision struct {
	Kind       DecisionKind
	Winner     *Candidate
	Candidates []Candidate
	Reason     string
}
