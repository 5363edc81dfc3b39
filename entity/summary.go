package entity

// ItemFailure records a single deposit that failed during a batch without
// aborting the batch.
type ItemFailure struct {
	BankTransactionID int64  `json:"bank_transaction_id"`
	Error             string `json:"error"`
}

// ReconcileSummary is the result of one Reconcile batch.
type ReconcileSummary struct {
	Processed   int           `json:"processed"`
	Matched     int           `json:"matched"`
	Unclaimed   int           `json:"unclaimed"`
	Unfunded    int           `json:"unfunded"`
	ManualCases int           `json:"manual_cases"`
	Failures    []ItemFailure `json:"failures,omitempty"`
}
