/* picks.go
 * Contains the pick normalization and merge logic. Raw pick documents arrive in two
 * storage generations (array of picks, or a legacy map keyed by match id) with loosely
 * typed fields; everything is converted to canonical Pick records here and the ambiguous
 * shapes never propagate past this boundary
 * Authors: Zachary Bower
 */

package logic

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"prediction-league/api/shared"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NormalizePickDocs converts a collection of raw per-user pick documents into one
// canonical list of well-typed picks, at most one per (user, match) pair.
// Malformed fields are dropped rather than guessed at; this function never fails.
// Preconditions: Receives a slice of raw pick documents in either storage shape
// Postconditions: Returns canonical picks sorted by (user id, match id) for stable output
func NormalizePickDocs(docs []shared.RawPickDoc) []shared.Pick {
	latest := make(map[[2]string]shared.Pick)

	for _, doc := range docs {
		userID := NormalizeKey(doc.UserID)
		if userID == "" {
			// A pick that cannot be attributed to anyone is excluded, not guessed at
			continue
		}
		for _, pick := range decodeRawPicks(userID, doc.Picks) {
			key := [2]string{pick.UserID, pick.MatchID}
			existing, ok := latest[key]
			// Ties on updatedAt resolve to the later-encountered record within one pass
			if !ok || !pick.UpdatedAt.Before(existing.UpdatedAt) {
				latest[key] = pick
			}
		}
	}

	picks := make([]shared.Pick, 0, len(latest))
	for _, pick := range latest {
		picks = append(picks, pick)
	}
	sort.Slice(picks, func(i, j int) bool {
		if picks[i].UserID != picks[j].UserID {
			return picks[i].UserID < picks[j].UserID
		}
		return picks[i].MatchID < picks[j].MatchID
	})
	return picks
}

// MergePickSets combines an authoritative server-stored pick set with a locally
// cached pick set for the same user. For each match the strictly newer pick wins;
// at timestamp parity the server copy wins because the server is canonical.
// Preconditions: Receives two canonical pick slices for the same user
// Postconditions: Returns the merged set sorted by match id; inputs are not mutated
func MergePickSets(server []shared.Pick, local []shared.Pick) []shared.Pick {
	merged := make(map[string]shared.Pick, len(server))
	for _, pick := range server {
		merged[pick.MatchID] = pick
	}
	for _, pick := range local {
		existing, ok := merged[pick.MatchID]
		if !ok || pick.UpdatedAt.After(existing.UpdatedAt) {
			merged[pick.MatchID] = pick
		}
	}

	picks := make([]shared.Pick, 0, len(merged))
	for _, pick := range merged {
		picks = append(picks, pick)
	}
	sort.Slice(picks, func(i, j int) bool {
		return picks[i].MatchID < picks[j].MatchID
	})
	return picks
}

// IsPickComplete reports whether a pick is scoreable for the given match.
// Both scores must be present, and a predicted knockout tie additionally needs
// an advancing side (group-stage ties need no tie break field).
func IsPickComplete(pick shared.Pick, match shared.Match) bool {
	if pick.HomeScore == nil || pick.AwayScore == nil {
		return false
	}
	if *pick.HomeScore == *pick.AwayScore && match.Stage.IsKnockout() {
		return pick.Advancing != nil || pick.Winner != nil
	}
	return true
}

// LatestPickPerMatch deduplicates a pick slice down to the most recently updated
// pick per match. Used where callers hold picks gathered across several aliases.
func LatestPickPerMatch(picks []shared.Pick) map[string]shared.Pick {
	latest := make(map[string]shared.Pick, len(picks))
	for _, pick := range picks {
		existing, ok := latest[pick.MatchID]
		if !ok || !pick.UpdatedAt.Before(existing.UpdatedAt) {
			latest[pick.MatchID] = pick
		}
	}
	return latest
}

// decodeRawPicks is the tagged-union step: it accepts the picks payload in either
// storage shape and emits raw picks with the match id derived from the record
// itself, falling back to the storage key for the legacy map shape
func decodeRawPicks(userID string, raw interface{}) []shared.Pick {
	var picks []shared.Pick
	switch shaped := raw.(type) {
	case []interface{}:
		for _, entry := range shaped {
			fields, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			if pick, ok := decodeOnePick(userID, "", fields); ok {
				picks = append(picks, pick)
			}
		}
	case map[string]interface{}:
		// Legacy shape: iterate keys in sorted order so one malformed document
		// normalizes identically on every pass
		keys := make([]string, 0, len(shaped))
		for key := range shaped {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fields, ok := shaped[key].(map[string]interface{})
			if !ok {
				continue
			}
			if pick, ok := decodeOnePick(userID, key, fields); ok {
				picks = append(picks, pick)
			}
		}
	}
	return picks
}

// decodeOnePick converts one loosely typed pick record into a canonical Pick.
// Numeric fields parse leniently, enumerated fields must match a recognised
// value exactly or are treated as unset. A record without a match id is dropped.
func decodeOnePick(userID string, fallbackMatchID string, fields map[string]interface{}) (shared.Pick, bool) {
	matchID := strings.TrimSpace(stringField(fields, "matchId", "matchid", "match_id"))
	if matchID == "" {
		matchID = strings.TrimSpace(fallbackMatchID)
	}
	if matchID == "" {
		return shared.Pick{}, false
	}

	pick := shared.Pick{
		UserID:    userID,
		MatchID:   matchID,
		HomeScore: parseOptionalScore(fieldValue(fields, "homeScore", "homescore", "home_score")),
		AwayScore: parseOptionalScore(fieldValue(fields, "awayScore", "awayscore", "away_score")),
		UpdatedAt: parseTimestamp(fieldValue(fields, "updatedAt", "updatedat", "updated_at")),
	}

	if outcome, ok := shared.ParseOutcome(stringField(fields, "outcome")); ok {
		pick.Outcome = &outcome
	}
	if side, ok := shared.ParseSide(stringField(fields, "advancing", "advancingSide", "advancingside")); ok {
		pick.Advancing = &side
	}
	if side, ok := shared.ParseSide(stringField(fields, "winner")); ok {
		pick.Winner = &side
	}

	return pick, true
}

// stringField returns the first of the named fields that holds a string
func stringField(fields map[string]interface{}, names ...string) string {
	value := fieldValue(fields, names...)
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

// fieldValue returns the first of the named fields present in the record
func fieldValue(fields map[string]interface{}, names ...string) interface{} {
	for _, name := range names {
		if value, ok := fields[name]; ok {
			return value
		}
	}
	return nil
}

// parseOptionalScore parses a score field leniently: integers, integral floats
// (the JSON decoder hands numbers over as float64) and numeric-looking strings
// are accepted; anything else, including negative values, is treated as absent
func parseOptionalScore(value interface{}) *int {
	switch v := value.(type) {
	case int:
		return nonNegative(v)
	case int32:
		return nonNegative(int(v))
	case int64:
		return nonNegative(int(v))
	case float64:
		if v != float64(int(v)) {
			return nil
		}
		return nonNegative(int(v))
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		return nonNegative(n)
	}
	return nil
}

func nonNegative(n int) *int {
	if n < 0 {
		return nil
	}
	return &n
}

// parseTimestamp accepts the timestamp encodings the storage generations produced:
// native time values, Mongo datetimes, epoch milliseconds and RFC 3339 strings.
// Unparseable values collapse to the zero time, which loses every recency contest.
func parseTimestamp(value interface{}) time.Time {
	switch v := value.(type) {
	case time.Time:
		return v
	case primitive.DateTime:
		return v.Time()
	case int64:
		return time.UnixMilli(v).UTC()
	case float64:
		return time.UnixMilli(int64(v)).UTC()
	case string:
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(v)); err == nil {
			return ts
		}
	}
	return time.Time{}
}
