package entity

// ManualReviewStats aggregates the manual validation workload.
type ManualReviewStats struct {
	Pending        int            `json:"pending"`
	Approved       int            `json:"approved"`
	Rejected       int            `json:"rejected"`
	ApprovalRate   float64        `json:"approval_rate"`
	MeanLatencySec float64        `json:"mean_latency_sec"`
	ByHouseRange   map[string]int `json:"by_house_range"`
}
