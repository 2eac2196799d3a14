package qa

import (
	"errors"
	"testing"
	"time"
)

func TestValidate_DayModeCopiesEndDate(t *testing.T) {
	p := SearchParams{Mode: ModeDay, StartDate: "2026-08-31"}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if p.EndDate != "2026-08-31" {
		t.Errorf("EndDate = %q, want start date", p.EndDate)
	}
}

func TestValidate_RangeMissingEndDate(t *testing.T) {
	p := SearchParams{Mode: ModeRange, StartDate: "2026-08-01"}
	err := p.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("error type = %T, want *ValidationError", err)
	}
}

func TestValidate_RangeEndBeforeStart(t *testing.T) {
	p := SearchParams{Mode: ModeRange, StartDate: "2026-08-10", EndDate: "2026-08-01"}
	if p.Validate() == nil {
		t.Error("Validate() = nil, want error for inverted range")
	}
}

func TestValidate_BadMode(t *testing.T) {
	p := SearchParams{Mode: "weekly", StartDate: "2026-08-01"}
	if p.Validate() == nil {
		t.Error("Validate() = nil, want error for unknown mode")
	}
}

func TestDefaultParams(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)

	p := DefaultParams(now)
	if p.Mode != ModeDay || p.StartDate != "2026-09-01" {
		t.Errorf("DefaultParams = %+v", p)
	}

	r := DefaultRangeParams(now)
	if r.Mode != ModeRange || r.StartDate != "2026-08-25" || r.EndDate != "2026-09-01" {
		t.Errorf("DefaultRangeParams = %+v", r)
	}
}

func TestMatchStatusRoundTrip(t *testing.T) {
	for _, label := range []string{"matched", "not-matched", "needs-reinforcement", "unreviewed"} {
		v, err := ParseMatchStatus(label)
		if err != nil {
			t.Fatalf("ParseMatchStatus(%q): %v", label, err)
		}
		if got := MatchStatusLabel(v); got != label {
			t.Errorf("MatchStatusLabel(ParseMatchStatus(%q)) = %q", label, got)
		}
	}

	if _, err := ParseMatchStatus("maybe"); err == nil {
		t.Error("ParseMatchStatus(maybe) = nil error, want error")
	}
}

func TestStatisticsPercent(t *testing.T) {
	s := Statistics{TotalUsers: 3, Match: 1}
	if got := s.Percent(s.Match); got != 33.3 {
		t.Errorf("Percent(1 of 3) = %v, want 33.3", got)
	}

	var empty Statistics
	if got := empty.Percent(5); got != 0 {
		t.Errorf("Percent with zero total = %v, want 0", got)
	}
}
