package models

// Timeframe is one of the fixed leaderboard windows the upstream exposes.
type Timeframe struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Timeframes is the full set of windows checked per request. Defined once
// at process start; the upstream does not advertise other windows.
var Timeframes = []Timeframe{
	{Key: "24h", Label: "Last 24 Hours"},
	{Key: "7d", Label: "Last 7 Days"},
	{Key: "month", Label: "Last 30 Days"},
}

// LeaderboardEntry is one normalized upstream record. Rank is always set,
// either from an explicit field or synthesized from page position.
// Username may be empty; entries without a username are dropped by the
// aggregator, not by the normalizer. Mindshare is nil when the record
// carried no parseable score.
type LeaderboardEntry struct {
	Rank      int      `json:"rank"`
	Username  string   `json:"username,omitempty"`
	Mindshare *float64 `json:"mindshare,omitempty"`
	Raw       any      `json:"-"`
}

// CheckResult is the per-timeframe outcome for one queried username.
// Derived from the current snapshot on every request, never stored.
type CheckResult struct {
	TotalFetched     int      `json:"totalFetched"`
	Found            bool     `json:"found"`
	Rank             *int     `json:"rank,omitempty"`
	Mindshare        *float64 `json:"mindshare,omitempty"`
	Rank100Mindshare *float64 `json:"rank100_mindshare,omitempty"`
	NeededMindshare  *float64 `json:"needed_mindshare,omitempty"`
}

// CheckResponse is the /check payload: one result bucket per timeframe key.
type CheckResponse struct {
	Username string                 `json:"username"`
	Results  map[string]CheckResult `json:"results"`
}
