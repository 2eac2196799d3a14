package store

import (
	"errors"
	"testing"
	"time"

	"qaboard/internal/qa"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleSnapshot() Snapshot {
	matched := qa.MatchStatusMatched
	return Snapshot{
		Params: qa.SearchParams{
			Mode:      qa.ModeDay,
			StartDate: "2026-08-31",
			EndDate:   "2026-08-31",
		},
		Statistics: qa.Statistics{
			TotalUsers:      12,
			Match:           7,
			NoMatch:         3,
			NeedImprovement: 1,
			NotEvaluated:    1,
		},
		Records: []qa.QARecord{
			{
				ID:                  "qa-1",
				ChatID:              "chat-1",
				Question:            "How do I reset my password?",
				Answer:              "Use the reset link on the login page.",
				Timestamp:           "2026-08-31T09:12:00Z",
				MatchStatus:         &matched,
				ReflectionCompleted: true,
				IsSent:              true,
				SessionCount:        3,
				SourceIcon:          "W",
				SourceDesc:          "web chat",
			},
			{
				ID:        "qa-2",
				ChatID:    "chat-2",
				Question:  "What are your opening hours?",
				Answer:    "Weekdays 9 to 5.",
				Timestamp: "2026-08-31T10:40:00Z",
			},
		},
		FetchedAt: time.Date(2026, 8, 31, 11, 0, 0, 0, time.UTC),
	}
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

// TestLastSearchEmpty verifies a fresh cache reports ErrNoSearch.
func TestLastSearchEmpty(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.LastSearch(); !errors.Is(err, ErrNoSearch) {
		t.Errorf("LastSearch on empty cache: got %v, want ErrNoSearch", err)
	}
}

// TestSaveAndLoadSearch round-trips a snapshot through the cache.
func TestSaveAndLoadSearch(t *testing.T) {
	s := openTestStore(t)

	want := sampleSnapshot()
	if err := s.SaveSearch(want); err != nil {
		t.Fatalf("SaveSearch: %v", err)
	}

	got, err := s.LastSearch()
	if err != nil {
		t.Fatalf("LastSearch: %v", err)
	}

	if got.Params != want.Params {
		t.Errorf("params mismatch: got %+v, want %+v", got.Params, want.Params)
	}
	if got.Statistics != want.Statistics {
		t.Errorf("statistics mismatch: got %+v, want %+v", got.Statistics, want.Statistics)
	}
	if !got.FetchedAt.Equal(want.FetchedAt) {
		t.Errorf("fetched_at mismatch: got %v, want %v", got.FetchedAt, want.FetchedAt)
	}
	if len(got.Records) != len(want.Records) {
		t.Fatalf("record count: got %d, want %d", len(got.Records), len(want.Records))
	}
	for i := range want.Records {
		w, g := want.Records[i], got.Records[i]
		if g.ID != w.ID || g.Question != w.Question || g.Answer != w.Answer || g.Timestamp != w.Timestamp {
			t.Errorf("record %d mismatch: got %+v, want %+v", i, g, w)
		}
		if (g.MatchStatus == nil) != (w.MatchStatus == nil) {
			t.Errorf("record %d match status presence mismatch", i)
		} else if w.MatchStatus != nil && *g.MatchStatus != *w.MatchStatus {
			t.Errorf("record %d match status: got %v, want %v", i, *g.MatchStatus, *w.MatchStatus)
		}
		if g.ReflectionCompleted != w.ReflectionCompleted || g.IsSent != w.IsSent || g.SessionCount != w.SessionCount {
			t.Errorf("record %d flags mismatch: got %+v, want %+v", i, g, w)
		}
	}
}

// TestSaveReplacesWholesale verifies a second save fully replaces the first,
// including records no longer present.
func TestSaveReplacesWholesale(t *testing.T) {
	s := openTestStore(t)

	first := sampleSnapshot()
	if err := s.SaveSearch(first); err != nil {
		t.Fatalf("first SaveSearch: %v", err)
	}

	second := Snapshot{
		Params:     qa.SearchParams{Mode: qa.ModeRange, StartDate: "2026-08-01", EndDate: "2026-08-31"},
		Statistics: qa.Statistics{TotalUsers: 1, NotEvaluated: 1},
		Records: []qa.QARecord{
			{ID: "qa-9", ChatID: "chat-9", Question: "q", Answer: "a", Timestamp: "2026-08-15T00:00:00Z"},
		},
		FetchedAt: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := s.SaveSearch(second); err != nil {
		t.Fatalf("second SaveSearch: %v", err)
	}

	got, err := s.LastSearch()
	if err != nil {
		t.Fatalf("LastSearch: %v", err)
	}
	if got.Params.Mode != qa.ModeRange {
		t.Errorf("mode: got %q, want %q", got.Params.Mode, qa.ModeRange)
	}
	if len(got.Records) != 1 || got.Records[0].ID != "qa-9" {
		t.Errorf("records not replaced: got %+v", got.Records)
	}

	if _, err := s.Record("qa-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old record still present after replace: err = %v", err)
	}
}

// TestRecordLookup fetches one cached record by id.
func TestRecordLookup(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveSearch(sampleSnapshot()); err != nil {
		t.Fatalf("SaveSearch: %v", err)
	}

	rec, err := s.Record("qa-2")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.Question != "What are your opening hours?" {
		t.Errorf("question: got %q", rec.Question)
	}
	if rec.MatchStatus != nil {
		t.Errorf("expected nil match status, got %v", *rec.MatchStatus)
	}

	if _, err := s.Record("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing record: got %v, want ErrNotFound", err)
	}
}

// TestPersistsAcrossReopen saves to a file-backed store and reads it back
// through a fresh Open.
func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s1.SaveSearch(sampleSnapshot()); err != nil {
		t.Fatalf("SaveSearch: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.LastSearch()
	if err != nil {
		t.Fatalf("LastSearch after reopen: %v", err)
	}
	if len(got.Records) != 2 {
		t.Errorf("record count after reopen: got %d, want 2", len(got.Records))
	}
}
