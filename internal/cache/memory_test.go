package cache

import (
	"testing"
	"time"

	"github.com/madara4356/zama-rank-checker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(key string, usernames ...string) *Snapshot {
	snap := &Snapshot{TimeframeKey: key, FetchedAt: time.Now()}
	for i, u := range usernames {
		snap.Entries = append(snap.Entries, models.LeaderboardEntry{Rank: i + 1, Username: u})
	}
	return snap
}

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache(300 * time.Second)

	_, ok := c.Get("24h")
	assert.False(t, ok)

	stored := snapshot("24h", "alice", "bob")
	c.Set("24h", stored)

	got, ok := c.Get("24h")
	require.True(t, ok)
	assert.Equal(t, stored, got)
	assert.Len(t, got.Entries, 2)
}

func TestMemoryCache_KeysAreIndependent(t *testing.T) {
	c := NewMemoryCache(300 * time.Second)
	c.Set("24h", snapshot("24h", "alice"))

	_, ok := c.Get("7d")
	assert.False(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	now := time.Now()
	c := NewMemoryCache(300 * time.Second)
	c.now = func() time.Time { return now }

	c.Set("7d", snapshot("7d", "alice"))

	// Just inside the TTL.
	now = now.Add(299 * time.Second)
	_, ok := c.Get("7d")
	assert.True(t, ok)

	// Just past it.
	now = now.Add(2 * time.Second)
	_, ok = c.Get("7d")
	assert.False(t, ok)
}

func TestMemoryCache_OverwriteResetsTTL(t *testing.T) {
	now := time.Now()
	c := NewMemoryCache(300 * time.Second)
	c.now = func() time.Time { return now }

	c.Set("month", snapshot("month", "alice"))
	now = now.Add(200 * time.Second)
	c.Set("month", snapshot("month", "bob"))
	now = now.Add(200 * time.Second)

	got, ok := c.Get("month")
	require.True(t, ok)
	assert.Equal(t, "bob", got.Entries[0].Username)
}
