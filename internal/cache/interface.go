package cache

import (
	"time"

	"github.com/madara4356/zama-rank-checker/internal/models"
)

// Snapshot is the fully-paginated entry sequence for one timeframe.
// Entry order is upstream page/row order.
type Snapshot struct {
	TimeframeKey string
	Entries      []models.LeaderboardEntry
	FetchedAt    time.Time
}

// SnapshotCache defines the contract for snapshot storage. The aggregator
// only ever needs get and set-with-TTL; expiry is the implementation's job.
type SnapshotCache interface {
	Get(key string) (*Snapshot, bool)
	Set(key string, snap *Snapshot)
}
