package qa

import "math"

// Statistics is the review-state breakdown for a search window, computed by
// the backend.
type Statistics struct {
	TotalUsers      int `json:"total_users"`
	Match           int `json:"match"`
	NoMatch         int `json:"no_match"`
	NeedImprovement int `json:"need_improvement"`
	NotEvaluated    int `json:"not_evaluated"`
}

// Percent returns part as a percentage of the total user count, rounded to
// one decimal. Zero when there are no users.
func (s Statistics) Percent(part int) float64 {
	if s.TotalUsers <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(s.TotalUsers)*100*10) / 10
}
