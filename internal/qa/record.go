package qa

import "fmt"

// Match status values assigned by an operator. The backend stores them as
// numbers; nil means the record has not been reviewed yet.
const (
	MatchStatusMatched    = 1.0
	MatchStatusNotMatched = 0.0
	MatchStatusNeedsWork  = 0.5
)

// QARecord is one reviewed question/answer pair as returned by the backend.
// The client holds a read-mostly copy per search; the backend owns the data.
type QARecord struct {
	ID                  string         `json:"id"`
	ChatID              string         `json:"chat_id"`
	Question            string         `json:"question"`
	Answer              string         `json:"answer"`
	Timestamp           string         `json:"timestamp"`
	MatchStatus         *float64       `json:"match_status"`
	ReflectionCompleted bool           `json:"reflection_completed"`
	IsSent              bool           `json:"is_sent"`
	SessionCount        int            `json:"session_count"`
	SourceIcon          string         `json:"source_icon"`
	SourceDesc          string         `json:"source_desc"`
	Metadata            map[string]any `json:"metadata,omitempty"`
}

// MatchStatusLabel returns the operator-facing name for a match status value.
func MatchStatusLabel(v *float64) string {
	if v == nil {
		return "unreviewed"
	}
	switch *v {
	case MatchStatusMatched:
		return "matched"
	case MatchStatusNotMatched:
		return "not-matched"
	case MatchStatusNeedsWork:
		return "needs-reinforcement"
	}
	return fmt.Sprintf("%.1f", *v)
}

// ParseMatchStatus converts an operator-facing name back to a status value.
// "unreviewed" parses to nil.
func ParseMatchStatus(s string) (*float64, error) {
	switch s {
	case "matched":
		v := MatchStatusMatched
		return &v, nil
	case "not-matched":
		v := MatchStatusNotMatched
		return &v, nil
	case "needs-reinforcement":
		v := MatchStatusNeedsWork
		return &v, nil
	case "unreviewed":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown match status %q (want matched, not-matched, needs-reinforcement, or unreviewed)", s)
}
