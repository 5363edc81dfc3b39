package entity

import "time"

// DateRange bounds a reconcile batch or a listing. Zero values mean
// unbounded on that side.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && t.After(r.End) {
		return false
	}
	return true
}

// Sort keys accepted by case listings.
const (
	SortByDate           = "date"
	SortBySimilarity     = "similarity"
	SortByCandidateCount = "candidate_count"
)

// ListFilters is shared by the queue and manual-case listings.
type ListFilters struct {
	Range       DateRange
	HouseNumber *int
	Page        int
	PageSize    int
	SortBy      string
}

// Normalize clamps paging to sane defaults.
func (f ListFilters) Normalize() ListFilters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 200 {
		f.PageSize = 50
	}
	return f
}

// Offset returns the row offset for the normalized page.
func (f ListFilters) Offset() int {
	return (f.Page - 1) * f.PageSize
}
