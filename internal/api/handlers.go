package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"
	"github.com/madara4356/zama-rank-checker/internal/leaderboard"
	"github.com/madara4356/zama-rank-checker/internal/models"
	"github.com/sirupsen/logrus"
)

// Aggregator is the slice of the leaderboard service the HTTP layer needs.
type Aggregator interface {
	FetchAllPages(ctx context.Context, timeframeKey string) []models.LeaderboardEntry
	GetMetrics() string
}

// Handler serves the rank-check API
type Handler struct {
	agg Aggregator
}

// NewHandler creates the HTTP handler over the given aggregator.
func NewHandler(agg Aggregator) *Handler {
	return &Handler{agg: agg}
}

// Router builds the route table.
func (h *Handler) Router() *mux.Router {
	router := mux.NewRouter()
	router.Use(recoverMiddleware)
	router.HandleFunc("/check", h.handleCheck).Methods("GET")
	router.HandleFunc("/health", h.handleHealth).Methods("GET")
	router.HandleFunc("/metrics", h.handleMetrics).Methods("GET")
	return router
}

type timeframeResult struct {
	key    string
	result models.CheckResult
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.URL.Query().Get("username"))
	username = strings.TrimPrefix(username, "@")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username is required")
		return
	}
	target := strings.ToLower(username)

	// One slow timeframe must not serialize the others; each aggregation
	// absorbs its own upstream failures.
	ctx := r.Context()
	var wg sync.WaitGroup
	resultsChan := make(chan timeframeResult, len(models.Timeframes))
	panicsChan := make(chan any, len(models.Timeframes))

	for _, tf := range models.Timeframes {
		wg.Add(1)
		go func(tf models.Timeframe) {
			defer wg.Done()
			// Re-raised on the request goroutine so the recover
			// middleware can turn it into a 500.
			defer func() {
				if rec := recover(); rec != nil {
					panicsChan <- rec
				}
			}()
			entries := h.agg.FetchAllPages(ctx, tf.Key)
			resultsChan <- timeframeResult{key: tf.Key, result: leaderboard.Evaluate(entries, target)}
		}(tf)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make(map[string]models.CheckResult, len(models.Timeframes))
	for res := range resultsChan {
		results[res.key] = res.result
	}

	select {
	case rec := <-panicsChan:
		panic(rec)
	default:
	}

	writeJSON(w, http.StatusOK, models.CheckResponse{Username: target, Results: results})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(h.agg.GetMetrics()))
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logrus.Errorf("Panic handling %s: %v", r.URL.Path, rec)
				writeError(w, http.StatusInternalServerError, fmt.Sprintf("%v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
