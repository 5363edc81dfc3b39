package reconciliation

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rvalenzuela/condo-reconciliation/consts"
	"github.com/rvalenzuela/condo-reconciliation/entity"
	"github.com/rvalenzuela/condo-reconciliation/infra/db/model"
)

// scoreCandidates ranks same-amount vouchers for one deposit. Amount is
// the join key and has already filtered the set; the score orders the
// survivors by date proximity, hint agreement and tie size.
func scoreCandidates(depositDate time.Time, hint *int, vouchers []model.Voucher) []entity.Candidate {
	candidates := make([]entity.Candidate, 0, len(vouchers))
	tieScore := 1.0 / float64(len(vouchers))

	for _, v := range vouchers {
		days := daysBetween(depositDate, v.VoucherDate)
		sameDay := days == 0

		dateScore := 1.0 - float64(days)/float64(consts.DateProximityWindowDays)
		if dateScore < 0 {
			dateScore = 0
		}

		houseScore := 0.5
		houseAgrees := false
		if hint != nil && v.HouseNumber != nil {
			if *hint == *v.HouseNumber {
				houseScore = 1.0
				houseAgrees = true
			} else {
				houseScore = 0
			}
		}

		score := consts.WeightDateProximity*dateScore +
			consts.WeightHouseHint*houseScore +
			consts.WeightTieSize*tieScore

		candidates = append(candidates, entity.Candidate{
			VoucherID:   v.ID,
			HouseNumber: v.HouseNumber,
			Score:       round3(score),
			SameDay:     sameDay,
			DaysApart:   days,
			HouseAgrees: houseAgrees,
			VoucherDate: v.VoucherDate,
		})
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Score != candidates[j].Score {
			return candidates[i].Score > candidates[j].Score
		}
		return candidates[i].VoucherID < candidates[j].VoucherID
	})
	return candidates
}

// decide turns the hint and the ranked candidates into a matcher verdict.
func decide(hint entity.HouseHint, candidates []entity.Candidate) entity.Decision {
	if hint.Conflict {
		return entity.Decision{
			Kind:       entity.DecideConflict,
			Candidates: candidates,
			Reason: fmt.Sprintf("cents encoding says house %d but concept text says house %d",
				*hint.CentsHouse, *hint.ConceptHouse),
		}
	}

	switch len(candidates) {
	case 0:
		return entity.Decision{
			Kind:   entity.DecideNotFound,
			Reason: "no voucher with matching amount",
		}
	case 1:
		c := candidates[0]
		if c.Score >= consts.AutoConfirmThreshold {
			return entity.Decision{
				Kind:       entity.DecideAutoConfirm,
				Winner:     &c,
				Candidates: candidates,
				Reason:     fmt.Sprintf("single candidate with score %.3f", c.Score),
			}
		}
		return entity.Decision{
			Kind:       entity.DecideRequiresManual,
			Candidates: candidates,
			Reason:     fmt.Sprintf("single candidate with low score %.3f", c.Score),
		}
	}

	top, second := candidates[0], candidates[1]
	if top.Score-second.Score >= consts.DominanceGap {
		return entity.Decision{
			Kind:       entity.DecideAutoConfirm,
			Winner:     &top,
			Candidates: candidates,
			Reason: fmt.Sprintf("dominant candidate: %.3f vs %.3f among %d",
				top.Score, second.Score, len(candidates)),
		}
	}
	return entity.Decision{
		Kind:       entity.DecideRequiresManual,
		Candidates: candidates,
		Reason: fmt.Sprintf("%d candidates within %.3f of the leader",
			len(candidates), consts.DominanceGap),
	}
}

func daysBetween(a, b time.Time) int {
	a = a.Truncate(24 * time.Hour)
	b = b.Truncate(24 * time.Hour)
	return int(math.Abs(a.Sub(b).Hours()) / 24)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
