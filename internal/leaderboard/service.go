package leaderboard

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/madara4356/zama-rank-checker/internal/cache"
	"github.com/madara4356/zama-rank-checker/internal/config"
	"github.com/madara4356/zama-rank-checker/internal/models"
	"github.com/madara4356/zama-rank-checker/internal/upstream"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// PageFetcher retrieves one raw leaderboard page. Satisfied by
// upstream.Client; tests substitute their own.
type PageFetcher interface {
	FetchPage(ctx context.Context, timeframeKey string, page int) (any, error)
}

// Metrics tracks data-quality signals the API response itself hides:
// silently dropped records, heuristic normalizations and truncated
// pagination walks.
type Metrics struct {
	PagesFetched      int                  `json:"pages_fetched"`
	DroppedRecords    int                  `json:"dropped_records"`
	HeuristicRecords  int                  `json:"heuristic_records"`
	Truncations       map[string]int       `json:"truncations"`
	LastFetch         map[string]time.Time `json:"last_fetch"`
	LastFetchDuration map[string]string    `json:"last_fetch_duration"`
}

// Service drives per-timeframe pagination and owns the snapshot cache.
type Service struct {
	cfg     *config.Config
	fetcher PageFetcher
	cache   cache.SnapshotCache
	group   singleflight.Group
	metrics *Metrics
	mu      sync.RWMutex
}

// NewService creates an aggregator over the given fetcher and cache.
func NewService(cfg *config.Config, fetcher PageFetcher, snapshots cache.SnapshotCache) *Service {
	return &Service{
		cfg:     cfg,
		fetcher: fetcher,
		cache:   snapshots,
		metrics: &Metrics{
			Truncations:       make(map[string]int),
			LastFetch:         make(map[string]time.Time),
			LastFetchDuration: make(map[string]string),
		},
	}
}

// FetchAllPages returns the entry sequence for timeframeKey, served from
// cache while the snapshot is fresh. Concurrent misses on the same key are
// coalesced into a single pagination walk.
func (s *Service) FetchAllPages(ctx context.Context, timeframeKey string) []models.LeaderboardEntry {
	if snap, ok := s.cache.Get(timeframeKey); ok {
		return snap.Entries
	}

	v, _, _ := s.group.Do(timeframeKey, func() (any, error) {
		if snap, ok := s.cache.Get(timeframeKey); ok {
			return snap.Entries, nil
		}
		return s.refresh(ctx, timeframeKey), nil
	})

	entries, _ := v.([]models.LeaderboardEntry)
	return entries
}

// Refresh re-fetches timeframeKey unconditionally and stores the result,
// bypassing the freshness check. Used by the snapshot warmer.
func (s *Service) Refresh(ctx context.Context, timeframeKey string) []models.LeaderboardEntry {
	return s.refresh(ctx, timeframeKey)
}

func (s *Service) refresh(ctx context.Context, timeframeKey string) []models.LeaderboardEntry {
	start := time.Now()
	logrus.Debugf("Fetching leaderboard for timeframe %s", timeframeKey)

	var entries []models.LeaderboardEntry
	pages, dropped, heuristic := 0, 0, 0
	truncated := false

	// Page N+1 is only requested after page N came back non-empty;
	// pagination is data-dependent, never speculative.
	for page := 1; page <= s.cfg.MaxPages; page++ {
		raw, err := s.fetcher.FetchPage(ctx, timeframeKey, page)
		if err != nil {
			// Partial data beats no data: keep what was accumulated.
			logrus.Errorf("Stopping pagination for timeframe %s at page %d: %v", timeframeKey, page, err)
			truncated = true
			break
		}
		pages++

		rows := upstream.ExtractArray(raw)
		if len(rows) == 0 {
			break
		}

		for i, row := range rows {
			n := Normalize(row, page, i, s.cfg.PageSizeHint)
			if !n.OK || n.Entry.Username == "" {
				dropped++
				continue
			}
			if n.Heuristic {
				heuristic++
				logrus.Debugf("Heuristic normalization for timeframe %s page %d row %d", timeframeKey, page, i)
			}
			entries = append(entries, n.Entry)
		}
	}

	// Stored regardless of how the loop ended; a truncated snapshot is
	// still the best available data for the next TTL window.
	s.cache.Set(timeframeKey, &cache.Snapshot{
		TimeframeKey: timeframeKey,
		Entries:      entries,
		FetchedAt:    time.Now(),
	})

	s.updateMetrics(timeframeKey, pages, dropped, heuristic, truncated, time.Since(start))
	logrus.Infof("Fetched %d entries for timeframe %s across %d pages (%d dropped, %d heuristic)",
		len(entries), timeframeKey, pages, dropped, heuristic)

	return entries
}

func (s *Service) updateMetrics(timeframeKey string, pages, dropped, heuristic int, truncated bool, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.PagesFetched += pages
	s.metrics.DroppedRecords += dropped
	s.metrics.HeuristicRecords += heuristic
	if truncated {
		s.metrics.Truncations[timeframeKey]++
	}
	s.metrics.LastFetch[timeframeKey] = time.Now()
	s.metrics.LastFetchDuration[timeframeKey] = duration.String()
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}
