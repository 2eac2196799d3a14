package qa

import "time"

// Search modes.
const (
	ModeDay   = "day"
	ModeRange = "range"
)

// FilterAll is the neutral value for the dropdown filters.
const FilterAll = "all"

const dateLayout = "2006-01-02"

// ValidationError is a client-side precondition failure. It is raised before
// any network request fires and is never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// SearchParams describes one search submission. Construct, validate, send;
// the struct is not mutated after the request goes out.
type SearchParams struct {
	Mode              string `json:"mode"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date,omitempty"`
	MatchFilter       string `json:"match_filter"`
	EmailFilter       string `json:"email_filter"`
	ReflectionFilter  string `json:"reflection_filter"`
	ChatSessionFilter string `json:"chat_session_filter"`
}

// DefaultParams returns a day-mode search for today with neutral filters.
func DefaultParams(now time.Time) SearchParams {
	return SearchParams{
		Mode:             ModeDay,
		StartDate:        now.Format(dateLayout),
		MatchFilter:      FilterAll,
		EmailFilter:      FilterAll,
		ReflectionFilter: FilterAll,
	}
}

// DefaultRangeParams returns a range-mode search covering the last week.
func DefaultRangeParams(now time.Time) SearchParams {
	p := DefaultParams(now)
	p.Mode = ModeRange
	p.StartDate = now.AddDate(0, 0, -7).Format(dateLayout)
	p.EndDate = now.Format(dateLayout)
	return p
}

// Validate checks the params and normalizes day mode (end date mirrors the
// start date). A *ValidationError here must block the backend call.
func (p *SearchParams) Validate() error {
	switch p.Mode {
	case ModeDay:
		if p.StartDate == "" {
			return &ValidationError{Msg: "date is required for day mode"}
		}
		if _, err := time.Parse(dateLayout, p.StartDate); err != nil {
			return &ValidationError{Msg: "date must be YYYY-MM-DD"}
		}
		p.EndDate = p.StartDate
	case ModeRange:
		if p.StartDate == "" {
			return &ValidationError{Msg: "start date is required for range mode"}
		}
		if p.EndDate == "" {
			return &ValidationError{Msg: "end date is required for range mode"}
		}
		start, err := time.Parse(dateLayout, p.StartDate)
		if err != nil {
			return &ValidationError{Msg: "start date must be YYYY-MM-DD"}
		}
		end, err := time.Parse(dateLayout, p.EndDate)
		if err != nil {
			return &ValidationError{Msg: "end date must be YYYY-MM-DD"}
		}
		if end.Before(start) {
			return &ValidationError{Msg: "end date is before start date"}
		}
	default:
		return &ValidationError{Msg: "mode must be day or range"}
	}
	return nil
}
