package rules

import (
	"fmt"
	"sort"
	"strings"
)

// Matches reports whether the rule applies to the question, and why.
// Keyword matching is case-insensitive substring containment.
func (r Rule) Matches(question string) (bool, string) {
	if r.ApplyToAll {
		return true, "applies to all questions"
	}
	lowered := strings.ToLower(question)
	for _, kw := range r.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(kw)) {
			return true, fmt.Sprintf("keyword %q", kw)
		}
	}
	return false, ""
}

// Match is one rule that applied to the test question.
type Match struct {
	Rule
	Reason string `json:"match_reason"`
}

// Result is the outcome of a dry-run test.
type Result struct {
	// Matched holds the active rules that apply, sorted ascending by
	// priority; ties keep the original listing order.
	Matched []Match `json:"matched"`
	// InactiveMatches holds rules that would apply but are disabled,
	// in listing order. Shown as an operator warning.
	InactiveMatches []Match `json:"inactive_matches"`
}

// Test evaluates the question against every rule independently. A question
// may match zero, one, or many rules.
func Test(question string, list []Rule) Result {
	var res Result
	for _, r := range list {
		ok, reason := r.Matches(question)
		if !ok {
			continue
		}
		m := Match{Rule: r, Reason: reason}
		if r.IsActive {
			res.Matched = append(res.Matched, m)
		} else {
			res.InactiveMatches = append(res.InactiveMatches, m)
		}
	}

	sort.SliceStable(res.Matched, func(i, j int) bool {
		return res.Matched[i].Priority < res.Matched[j].Priority
	})
	return res
}
