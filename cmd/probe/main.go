package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/madara4356/zama-rank-checker/internal/config"
	"github.com/madara4356/zama-rank-checker/internal/leaderboard"
	"github.com/madara4356/zama-rank-checker/internal/models"
	"github.com/madara4356/zama-rank-checker/internal/upstream"
)

// probe fetches the first page of each timeframe and reports how well the
// normalizer copes with whatever shape the upstream currently returns.
func main() {
	fmt.Println("Zama Rank Checker - Upstream Probe")
	fmt.Println("==================================")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.FetchTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Printf("\nUpstream: %s\n\n", cfg.UpstreamBaseURL)

	for _, tf := range models.Timeframes {
		probeTimeframe(ctx, client, tf, cfg.PageSizeHint)
	}
}

func probeTimeframe(ctx context.Context, client *upstream.Client, tf models.Timeframe, pageSizeHint int) {
	fmt.Printf("Timeframe %s (%s)... ", tf.Key, tf.Label)

	raw, err := client.FetchPage(ctx, tf.Key, 1)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return
	}

	rows := upstream.ExtractArray(raw)
	if len(rows) == 0 {
		fmt.Println("OK, but no rows extracted from the envelope")
		return
	}

	normalized, heuristic, dropped := 0, 0, 0
	var sample *models.LeaderboardEntry
	for i, row := range rows {
		n := leaderboard.Normalize(row, 1, i, pageSizeHint)
		if !n.OK || n.Entry.Username == "" {
			dropped++
			continue
		}
		normalized++
		if n.Heuristic {
			heuristic++
		}
		if sample == nil {
			entry := n.Entry
			sample = &entry
		}
	}

	fmt.Printf("OK (%d rows, %d normalized, %d heuristic, %d dropped)\n",
		len(rows), normalized, heuristic, dropped)
	if sample != nil {
		if sample.Mindshare != nil {
			fmt.Printf("   Sample: rank %d, @%s, mindshare %.4f\n", sample.Rank, sample.Username, *sample.Mindshare)
		} else {
			fmt.Printf("   Sample: rank %d, @%s, no mindshare\n", sample.Rank, sample.Username)
		}
	}
}
