package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// fastPolicy is the default policy with the waits recorded instead of slept.
func fastPolicy(waits *[]time.Duration) RetryPolicy {
	p := DefaultRetryPolicy()
	p.sleep = func(_ context.Context, d time.Duration) error {
		*waits = append(*waits, d)
		return nil
	}
	return p
}

func TestDo_SucceedsWithinBudget(t *testing.T) {
	var waits []time.Duration
	p := fastPolicy(&waits)

	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		if calls < 3 {
			return &NetworkError{Err: errors.New("connection refused")}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3 (two retries)", calls)
	}

	// Linear backoff: 1s before the first retry, 2s before the second.
	if len(waits) != 2 || waits[0] != time.Second || waits[1] != 2*time.Second {
		t.Errorf("waits = %v, want [1s 2s]", waits)
	}
}

func TestDo_BudgetExhausted(t *testing.T) {
	var waits []time.Duration
	p := fastPolicy(&waits)

	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		return &TimeoutError{Err: errors.New("deadline")}
	})
	var te *TimeoutError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *TimeoutError", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want first attempt + 2 retries", calls)
	}
}

func TestDo_UnauthorizedNeverRetried(t *testing.T) {
	var waits []time.Duration
	p := fastPolicy(&waits)

	calls := 0
	err := p.Do(ctx, func(context.Context) error {
		calls++
		return &HTTPError{Status: http.StatusUnauthorized, Message: "session expired"}
	})
	if !IsUnauthorized(err) {
		t.Fatalf("error = %v, want 401", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (401 is permanent)", calls)
	}
}

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"network", &NetworkError{Err: errors.New("refused")}, true},
		{"timeout", &TimeoutError{Err: errors.New("deadline")}, true},
		{"500", &HTTPError{Status: 500}, true},
		{"503", &HTTPError{Status: 503}, true},
		{"401", &HTTPError{Status: 401}, false},
		{"404", &HTTPError{Status: 404}, false},
		{"cancelled", context.Canceled, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Transient(tt.err); got != tt.want {
				t.Errorf("Transient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"message":"warming up"}`))
			return
		}
		w.Write([]byte(`{"authenticated":true}`))
	}))
	defer srv.Close()

	var waits []time.Duration
	p := fastPolicy(&waits)
	c := New(srv.URL, Options{Retry: &p})

	ok, err := c.AuthCheck(ctx)
	if err != nil {
		t.Fatalf("AuthCheck: %v", err)
	}
	if !ok {
		t.Error("AuthCheck = false after retries")
	}
	if got := hits.Load(); got != 3 {
		t.Errorf("server hits = %d, want 3", got)
	}
}

func TestClient_DoesNotRetryUnauthorized(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	var waits []time.Duration
	p := fastPolicy(&waits)
	c := New(srv.URL, Options{Retry: &p})

	if _, err := c.AuthCheck(ctx); !IsUnauthorized(err) {
		t.Fatalf("error = %v, want 401", err)
	}
	if got := hits.Load(); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}
}
