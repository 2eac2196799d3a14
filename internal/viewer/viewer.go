// Package viewer serves the last cached search over local HTTP and exposes
// the same data to MCP clients. It never talks to the review backend on its
// own; search_qa is the one tool that does, and it refreshes the cache.
package viewer

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"qaboard/internal/keywords"
	"qaboard/internal/qa"
	"qaboard/internal/store"
)

type Deps struct {
	Store *store.Store
}

// NewHandler returns the read-only HTTP surface over the cached search.
func NewHandler(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Get("/api/summary", handleSummary(deps))
	r.Get("/api/qa", handleListQA(deps))
	r.Get("/api/qa/{id}", handleGetQA(deps))
	r.Get("/api/keywords", handleKeywords(deps))

	return r
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type summaryResponse struct {
	Params      qa.SearchParams `json:"params"`
	Statistics  qa.Statistics   `json:"statistics"`
	RecordCount int             `json:"record_count"`
	FetchedAt   string          `json:"fetched_at"`
}

func handleSummary(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := deps.Store.LastSearch()
		if errors.Is(err, store.ErrNoSearch) {
			httpError(w, http.StatusNotFound, "not_found", "no cached search; run a search first")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load cached search: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summaryResponse{
			Params:      snap.Params,
			Statistics:  snap.Statistics,
			RecordCount: len(snap.Records),
			FetchedAt:   snap.FetchedAt.UTC().Format(time.RFC3339),
		})
	}
}

func handleListQA(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := deps.Store.LastSearch()
		if errors.Is(err, store.ErrNoSearch) {
			httpError(w, http.StatusNotFound, "not_found", "no cached search; run a search first")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load cached search: %v", err)
			return
		}

		limit := parseIntParam(r, "limit", 20, 100)
		offset := parseIntParam(r, "offset", 0, 0)

		records := snap.Records
		if offset >= len(records) {
			records = nil
		} else {
			records = records[offset:]
		}
		if len(records) > limit {
			records = records[:limit]
		}
		if records == nil {
			records = []qa.QARecord{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(records)
	}
}

func handleGetQA(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		rec, err := deps.Store.Record(id)
		if errors.Is(err, store.ErrNotFound) {
			httpError(w, http.StatusNotFound, "not_found", "record not in cached search")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load record: %v", err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(rec)
	}
}

func handleKeywords(deps Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := deps.Store.LastSearch()
		if errors.Is(err, store.ErrNoSearch) {
			httpError(w, http.StatusNotFound, "not_found", "no cached search; run a search first")
			return
		}
		if err != nil {
			httpError(w, http.StatusInternalServerError, "api_error", "failed to load cached search: %v", err)
			return
		}

		limit := parseIntParam(r, "limit", 20, keywords.TopN)

		questions := make([]string, len(snap.Records))
		for i, rec := range snap.Records {
			questions[i] = rec.Question
		}
		stats := keywords.Analyze(questions)
		if len(stats) > limit {
			stats = stats[:limit]
		}
		if stats == nil {
			stats = []keywords.Stat{}
		}

		slog.Debug("keyword analysis served", "questions", len(questions), "keywords", len(stats))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(stats)
	}
}

func parseIntParam(r *http.Request, key string, defaultVal, maxVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return defaultVal
	}
	if maxVal > 0 && v > maxVal {
		return maxVal
	}
	return v
}

func httpError(w http.ResponseWriter, code int, errType string, format string, args ...any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	msg := fmt.Sprintf(format, args...)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": msg,
			"type":    errType,
		},
	})
}
