// Package rules implements the client-side view of instruction rules: the
// types, the keyword parsing used by the forms, and a local match preview.
// The backend's matcher is authoritative at inference time; the preview here
// exists so an operator can dry-run a question without touching live data.
package rules

import "strings"

// Rule is a stored directive surfaced to the answering process when a
// question satisfies its applicability predicate. Lower priority numbers are
// applied first.
type Rule struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Priority    int      `json:"priority"`
	Instruction string   `json:"instruction"`
	ApplyToAll  bool     `json:"apply_to_all"`
	Keywords    []string `json:"keywords"`
	IsActive    bool     `json:"is_active"`
	SourceFile  string   `json:"source_file"`
	CreatedAt   string   `json:"created_at,omitempty"`
	UpdatedAt   string   `json:"updated_at,omitempty"`
}

// ParseKeywords splits comma-separated form input into trimmed keywords,
// dropping empties.
func ParseKeywords(input string) []string {
	var keywords []string
	for _, part := range strings.Split(input, ",") {
		if kw := strings.TrimSpace(part); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	return keywords
}

// CanEverMatch reports whether the rule has any applicability predicate.
// A rule with apply_to_all unset and no keywords never matches; the forms
// warn about this but the backend does not reject it.
func (r Rule) CanEverMatch() bool {
	return r.ApplyToAll || len(r.Keywords) > 0
}

// Summary aggregates a rule listing for overview output.
type Summary struct {
	Total       int     `json:"total"`
	Active      int     `json:"active"`
	Inactive    int     `json:"inactive"`
	AvgPriority float64 `json:"avg_priority"`
}

// Summarize computes listing totals and the average priority.
func Summarize(list []Rule) Summary {
	s := Summary{Total: len(list)}
	sum := 0
	for _, r := range list {
		if r.IsActive {
			s.Active++
		} else {
			s.Inactive++
		}
		sum += r.Priority
	}
	if s.Total > 0 {
		s.AvgPriority = float64(sum) / float64(s.Total)
	}
	return s
}
