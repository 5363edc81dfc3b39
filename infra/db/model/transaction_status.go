package model

// TransactionStatus is the matcher verdict for one deposit. A row in
// requires_manual is a manual-validation case; its ID is the case id.
type TransactionStatus struct {
	ID                    int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	BankTransactionID     int64   `gorm:"not null;unique_index" json:"bank_transaction_id"`
	ValidationStatus      string  `gorm:"size:20;not null;index" json:"validation_status"`
	Reason                string  `gorm:"type:text" json:"reason"`
	IdentifiedHouseNumber *int    `json:"identified_house_number,omitempty"`
	CentsHouseNumber      *int    `json:"cents_house_number,omitempty"`
	ConceptHouseNumber    *int    `json:"concept_house_number,omitempty"`
	CandidatesJSON        string  `gorm:"type:text" json:"candidates_json"`
	CandidateCount        int     `gorm:"not null" json:"candidate_count"`
	TopScore              float64 `gorm:"not null" json:"top_score"`
	CreateTime            int64   `gorm:"not null" json:"create_time"`
	UpdateTime            int64   `gorm:"not null" json:"update_time"`
}
