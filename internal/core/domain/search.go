package domain

import "time"

// Sort keys accepted by the repository search endpoint.
const (
	SortBestMatch = ""
	SortStars     = "stars"
	SortForks     = "forks"
	SortUpdated   = "updated"
)

// Sort orders.
const (
	OrderDesc = "desc"
	OrderAsc  = "asc"
)

// HotWindow is how far back the hot repositories listing looks.
const HotWindow = 7 * 24 * time.Hour

// SearchCriteria describes a repository search.
type SearchCriteria struct {
	Query string
	Sort  string
	Order string
}

// HotCriteria returns the criteria for repositories created within the last
// week, most starred first.
func HotCriteria(now time.Time) SearchCriteria {
	since := now.Add(-HotWindow).UTC().Format("2006-01-02")
	return SearchCriteria{
		Query: "created:>" + since,
		Sort:  SortStars,
		Order: OrderDesc,
	}
}

// Validate checks the criteria.
func (c SearchCriteria) Validate() error {
	if c.Query == "" {
		return &ValidationError{Field: "query", Message: "must not be empty"}
	}
	switch c.Sort {
	case SortBestMatch, SortStars, SortForks, SortUpdated, "help-wanted-issues":
	default:
		return &ValidationError{Field: "sort", Message: "unsupported sort " + c.Sort}
	}
	switch c.Order {
	case "", OrderAsc, OrderDesc:
	default:
		return &ValidationError{Field: "order", Message: "must be asc or desc"}
	}
	return nil
}
