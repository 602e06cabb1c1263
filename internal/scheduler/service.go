package scheduler

import (
	"context"
	"time"

	"github.com/madara4356/zama-rank-checker/internal/leaderboard"
	"github.com/madara4356/zama-rank-checker/internal/models"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Service periodically refreshes timeframe snapshots so interactive checks
// mostly land on a warm cache.
type Service struct {
	aggregator *leaderboard.Service
	cron       *cron.Cron
}

// NewService creates a new snapshot warmer
func NewService(aggregator *leaderboard.Service) *Service {
	return &Service{
		aggregator: aggregator,
		cron:       cron.New(cron.WithSeconds()),
	}
}

// Start begins the scheduled snapshot refreshes
func (s *Service) Start() error {
	// Every 4 minutes, just inside the 300-second snapshot TTL.
	_, err := s.cron.AddFunc("0 */4 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		for _, tf := range models.Timeframes {
			entries := s.aggregator.Refresh(ctx, tf.Key)
			logrus.Debugf("Warmed snapshot for timeframe %s with %d entries", tf.Key, len(entries))
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Info("Snapshot warmer started (every 4 minutes)")
	return nil
}

// Stop stops the warmer
func (s *Service) Stop() {
	if s.cron != nil {
		s.cron.Stop()
		logrus.Info("Snapshot warmer stopped")
	}
}
