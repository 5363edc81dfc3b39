package manualreview

import (
	"encoding/json"
	"fmt"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

func (u *manualReviewUsecase) ListCases(f entity.ListFilters) ([]Case, int, error) {
	rows, total, err := u.dao.GetManualCases(f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]Case, 0, len(rows))
	for _, st := range rows {
		c, err := toCase(st)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, nil
}

func toCase(st model.TransactionStatus) (Case, error) {
	c := Case{
		CaseID:             st.ID,
		BankTransactionID:  st.BankTransactionID,
		Reason:             st.Reason,
		CentsHouseNumber:   st.CentsHouseNumber,
		ConceptHouseNumber: st.ConceptHouseNumber,
		TopScore:           st.TopScore,
		CreateTime:         st.CreateTime,
	}
	if st.CandidatesJSON != "" {
		if err := json.Unmarshal([]byte(st.CandidatesJSON), &c.Candidates); err != nil {
			return c, fmt.Errorf("failed to decode candidates of case %d: %w", st.ID, err)
		}
	}
	return c, nil
}

// Stats aggregates workload counters for the review dashboard.
func (u *manualReviewUsecase) Stats() (entity.ManualReviewStats, error) {
	stats := entity.ManualReviewStats{ByHouseRange: make(map[string]int)}

	counts, err := u.dao.GetStatusCountsByValidation()
	if err != nil {
		return stats, err
	}
	stats.Pending = counts[consts.ValidationRequiresManual]

	approvals, err := u.dao.GetApprovals()
	if err != nil {
		return stats, err
	}

	var latencySum float64
	var latencyCount int
	for _, a := range approvals {
		if a.Approved {
			stats.Approved++
		} else {
			stats.Rejected++
		}

		st, err := u.dao.GetTransactionStatusByID(a.StatusID)
		if err != nil {
			continue
		}
		if a.Approved && a.CreateTime >= st.CreateTime {
			latencySum += float64(a.CreateTime - st.CreateTime)
			latencyCount++
		}
		if house := caseHouse(st); house > 0 {
			stats.ByHouseRange[houseRangeBucket(house)]++
		}
	}

	if resolved := stats.Approved + stats.Rejected; resolved > 0 {
		stats.ApprovalRate = float64(stats.Approved) / float64(resolved)
	}
	if latencyCount > 0 {
		stats.MeanLatencySec = latencySum / float64(latencyCount)
	}
	return stats, nil
}

func caseHouse(st model.TransactionStatus) int {
	for _, n := range []*int{st.IdentifiedHouseNumber, st.CentsHouseNumber, st.ConceptHouseNumber} {
		if n != nil {
			return *n
		}
	}
	return 0
}

// houseRangeBucket groups houses into ranges of 20 for the distribution.
func houseRangeBucket(house int) string {
	lo := ((house - 1) / 20 * 20) + 1
	return fmt.Sprintf("%d-%d", lo, lo+19)
}
