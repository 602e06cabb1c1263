package leaderboard

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/madara4356/zama-rank-checker/internal/models"
	"github.com/madara4356/zama-rank-checker/internal/upstream"
)

// Schema maps one known upstream response shape onto canonical fields.
// Schemas are tried before any substring matching so that a rename
// upstream shows up as a rise in heuristic normalizations instead of
// silently changing which field wins.
type Schema struct {
	Name      string
	Username  string
	Mindshare string
	Rank      string
}

// knownSchemas lists the upstream shapes observed so far, most recent
// first.
var knownSchemas = []Schema{
	{Name: "leaderboard/v2", Username: "username", Mindshare: "mindshare", Rank: "rank"},
	{Name: "leaderboard/v1", Username: "twitterUsername", Mindshare: "mindshareScore", Rank: "position"},
	{Name: "creators/v1", Username: "creatorHandle", Mindshare: "score", Rank: "rank"},
}

var usernameHints = []string{"username", "user", "handle", "twitter", "name", "creator"}
var mindshareHints = []string{"mindshare", "score", "ms", "value", "points"}
var rankHints = []string{"rank", "position"}

// Normalized is the outcome of normalizing one raw record. OK is false
// only when the record is not a structured object. Heuristic reports that
// at least one field was resolved by substring matching rather than a
// known schema, which is the signal for upstream schema drift.
type Normalized struct {
	Entry     models.LeaderboardEntry
	OK        bool
	Schema    string
	Heuristic bool
}

// Normalize maps one raw upstream record into a canonical entry. It never
// fails on odd field contents; a record without a resolvable username is
// returned as-is and dropped by the aggregator. Rank is synthesized from
// page position when no explicit field parses.
func Normalize(record any, pageIndex, indexInPage, pageSizeHint int) Normalized {
	obj, ok := record.(*upstream.Object)
	if !ok {
		return Normalized{}
	}

	n := Normalized{OK: true}
	schema, matched := matchSchema(obj)
	if matched {
		n.Schema = schema.Name
	}

	// Username
	var username string
	var haveUser bool
	if matched {
		if v, ok := obj.Get(schema.Username); ok {
			username, haveUser = stringify(v)
		}
	}
	if !haveUser {
		if username, haveUser = heuristicUsername(obj); haveUser {
			n.Heuristic = true
		}
	}
	if haveUser {
		username = strings.TrimSpace(username)
		username = strings.TrimPrefix(username, "@")
	}

	// Mindshare
	var mindshare *float64
	if matched {
		if v, ok := obj.Get(schema.Mindshare); ok {
			if f, ok := parseFinite(v); ok {
				mindshare = &f
			}
		}
	}
	if mindshare == nil {
		if f, ok := heuristicNumber(obj, mindshareHints); ok {
			mindshare = &f
			n.Heuristic = true
		}
	}

	// Rank
	rank, haveRank := 0, false
	if matched {
		if v, ok := obj.Get(schema.Rank); ok {
			if f, ok := parseFinite(v); ok {
				rank, haveRank = int(f), true
			}
		}
	}
	if !haveRank {
		if f, ok := heuristicNumber(obj, rankHints); ok {
			rank, haveRank = int(f), true
			n.Heuristic = true
		}
	}
	if !haveRank {
		rank = (pageIndex-1)*pageSizeHint + indexInPage + 1
	}

	n.Entry = models.LeaderboardEntry{
		Rank:      rank,
		Username:  username,
		Mindshare: mindshare,
		Raw:       record,
	}
	return n
}

// matchSchema returns the first known schema whose username field is
// present on the record with a stringifiable value.
func matchSchema(obj *upstream.Object) (Schema, bool) {
	for _, schema := range knownSchemas {
		if v, ok := obj.Get(schema.Username); ok {
			if _, ok := stringify(v); ok {
				return schema, true
			}
		}
	}
	return Schema{}, false
}

// heuristicUsername scans fields in declaration order for a name hinting
// at a username; failing that, it falls back to any string value with a
// leading @.
func heuristicUsername(obj *upstream.Object) (string, bool) {
	for _, key := range obj.Keys() {
		lower := strings.ToLower(key)
		for _, hint := range usernameHints {
			if strings.Contains(lower, hint) {
				v, _ := obj.Get(key)
				if s, ok := stringify(v); ok {
					return s, true
				}
			}
		}
	}

	for _, key := range obj.Keys() {
		v, _ := obj.Get(key)
		if s, ok := v.(string); ok && strings.HasPrefix(s, "@") {
			return s, true
		}
	}

	return "", false
}

// heuristicNumber returns the first field whose lowercased name contains
// one of hints and whose value parses to a finite number.
func heuristicNumber(obj *upstream.Object, hints []string) (float64, bool) {
	for _, key := range obj.Keys() {
		lower := strings.ToLower(key)
		for _, hint := range hints {
			if strings.Contains(lower, hint) {
				v, _ := obj.Get(key)
				if f, ok := parseFinite(v); ok {
					return f, true
				}
			}
		}
	}
	return 0, false
}

func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	default:
		return "", false
	}
}

func parseFinite(v any) (float64, bool) {
	var f float64
	var err error

	switch t := v.(type) {
	case json.Number:
		f, err = t.Float64()
	case string:
		f, err = strconv.ParseFloat(strings.TrimSpace(t), 64)
	case float64:
		f = t
	default:
		return 0, false
	}

	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
