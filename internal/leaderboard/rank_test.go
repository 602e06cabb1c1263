package leaderboard

import (
	"fmt"
	"testing"

	"github.com/madara4356/zama-rank-checker/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(rank int, username string, mindshare *float64) models.LeaderboardEntry {
	return models.LeaderboardEntry{Rank: rank, Username: username, Mindshare: mindshare}
}

func TestEvaluate_FoundCaseInsensitive(t *testing.T) {
	entries := []models.LeaderboardEntry{
		entry(1, "alice", floatPtr(90)),
	}

	result := Evaluate(entries, "alice")
	require.True(t, result.Found)
	assert.Equal(t, 1, result.TotalFetched)
	require.NotNil(t, result.Rank)
	assert.Equal(t, 1, *result.Rank)
	require.NotNil(t, result.Mindshare)
	assert.Equal(t, 90.0, *result.Mindshare)
}

func TestEvaluate_NotFound(t *testing.T) {
	entries := []models.LeaderboardEntry{
		entry(1, "alice", floatPtr(90)),
		entry(2, "bob", floatPtr(80)),
	}

	result := Evaluate(entries, "carol")
	assert.False(t, result.Found)
	assert.Equal(t, 2, result.TotalFetched)
	assert.Nil(t, result.Rank)
	assert.Nil(t, result.Mindshare)
	assert.Nil(t, result.NeededMindshare)
}

func TestEvaluate_NeededMindshare(t *testing.T) {
	entries := []models.LeaderboardEntry{
		entry(100, "threshold", floatPtr(50)),
		entry(150, "bob", floatPtr(30)),
	}

	result := Evaluate(entries, "bob")
	require.True(t, result.Found)
	require.NotNil(t, result.Rank100Mindshare)
	assert.Equal(t, 50.0, *result.Rank100Mindshare)
	require.NotNil(t, result.NeededMindshare)
	assert.Equal(t, 20.0, *result.NeededMindshare)
}

func TestEvaluate_NeededMindshareClampedAtZero(t *testing.T) {
	entries := []models.LeaderboardEntry{
		entry(100, "threshold", floatPtr(50)),
		entry(42, "alice", floatPtr(75)),
	}

	result := Evaluate(entries, "alice")
	require.True(t, result.Found)
	require.NotNil(t, result.NeededMindshare)
	assert.Equal(t, 0.0, *result.NeededMindshare)
}

func TestEvaluate_SmallBoardHasNoThreshold(t *testing.T) {
	entries := []models.LeaderboardEntry{
		entry(1, "alice", floatPtr(90)),
		entry(2, "bob", floatPtr(80)),
	}

	result := Evaluate(entries, "alice")
	require.True(t, result.Found)
	assert.Nil(t, result.Rank100Mindshare)
	assert.Nil(t, result.NeededMindshare)
}

func TestEvaluate_Rank100ByMindshareFallback(t *testing.T) {
	// No explicit rank 100: ranks start above it, every entry scored.
	// The threshold is the 100th highest mindshare.
	var entries []models.LeaderboardEntry
	for i := 0; i < 120; i++ {
		entries = append(entries, entry(1000+i, fmt.Sprintf("user%d", i), floatPtr(float64(1000-i))))
	}

	result := Evaluate(entries, "user0")
	require.True(t, result.Found)
	require.NotNil(t, result.Rank100Mindshare)
	assert.Equal(t, 901.0, *result.Rank100Mindshare)
}

func TestEvaluate_Rank100ByRankOrderFallback(t *testing.T) {
	// Too few scored entries for the mindshare fallback; the 100th entry
	// by ascending rank supplies the threshold.
	var entries []models.LeaderboardEntry
	for i := 0; i < 120; i++ {
		var ms *float64
		if 201+i == 300 {
			ms = floatPtr(42)
		}
		entries = append(entries, entry(201+i, fmt.Sprintf("user%d", i), ms))
	}

	result := Evaluate(entries, "nobody")
	assert.False(t, result.Found)
	require.NotNil(t, result.Rank100Mindshare)
	assert.Equal(t, 42.0, *result.Rank100Mindshare)
}

func TestEvaluate_NotFoundStillReportsThreshold(t *testing.T) {
	entries := []models.LeaderboardEntry{
		entry(100, "threshold", floatPtr(50)),
	}

	result := Evaluate(entries, "ghost")
	assert.False(t, result.Found)
	require.NotNil(t, result.Rank100Mindshare)
	assert.Equal(t, 50.0, *result.Rank100Mindshare)
}

func TestEvaluate_EmptyEntries(t *testing.T) {
	result := Evaluate(nil, "anyone")
	assert.False(t, result.Found)
	assert.Zero(t, result.TotalFetched)
	assert.Nil(t, result.Rank100Mindshare)
}

func TestEvaluate_UppercaseQueryNormalizedByCaller(t *testing.T) {
	entries := []models.LeaderboardEntry{
		entry(1, "Alice", floatPtr(90)),
	}

	// The caller lowercases the query; entry usernames are lowercased
	// during comparison here.
	result := Evaluate(entries, "alice")
	assert.True(t, result.Found)
}
