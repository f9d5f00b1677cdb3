/* leaderboard.go
 * Contains the leaderboard aggregation logic: folding per-match scores across all
 * members and all finished matches into ranked totals with deterministic tie breaks
 * Authors: Zachary Bower
 */

package logic

import (
	"sort"
	"strings"

	"prediction-league/api/shared"
)

// PickBreakdown pairs one pick with the points it earned on its match, used for
// display and audit surfaces
type PickBreakdown struct {
	Match  shared.Match
	Pick   shared.Pick
	Points shared.ScoreBreakdown
	Scored bool // false while the match has not finished
}

// BuildLeaderboard computes the ranked leaderboard for all members.
// Every member appears, including those with zero picks. Matches that are not
// finished contribute nothing regardless of whether a pick exists. A single
// malformed pick or prediction never aborts the aggregation; only a missing
// stage entry in the scoring config does.
// Preconditions: Receives members, all matches, canonical picks, bracket predictions,
// the scoring config, the accepted best-third qualifier codes and the final group standings
// Postconditions: Returns fresh ranked entries sorted by total points desc, exact-both
// hits desc, then display name asc; ranks are strictly sequential
func BuildLeaderboard(
	members []shared.Member,
	matches []shared.Match,
	picks []shared.Pick,
	brackets []shared.BracketPrediction,
	cfg shared.ScoringConfig,
	bestThirds []string,
	standings []shared.GroupStanding,
) ([]shared.LeaderboardEntry, error) {
	entries := make([]shared.LeaderboardEntry, 0, len(members))

	for _, member := range members {
		keys := MemberKeys(member)
		memberPicks := LatestPickPerMatch(gatherPicks(keys, picks))

		entry := shared.LeaderboardEntry{
			UserID:         member.ID,
			Name:           member.Name,
			PicksSubmitted: len(memberPicks),
		}

		for _, match := range matches {
			if !match.Finished() {
				continue
			}
			pick, ok := memberPicks[match.ID]
			if !ok {
				continue
			}
			breakdown, err := ScorePick(match, pick, cfg)
			if err != nil {
				return nil, err
			}
			entry.ExactPoints += breakdown.Exact
			entry.ResultPoints += breakdown.Result
			entry.KnockoutPoints += breakdown.Knockout
			if isExactBothHit(match, pick) {
				entry.ExactBothHits++
			}
		}

		if bracket, ok := bracketForKeys(keys, brackets); ok {
			entry.BracketPoints = scoreBracket(bracket, cfg.Bracket, standings, bestThirds)
		}

		entry.TotalPoints = entry.ExactPoints + entry.ResultPoints + entry.KnockoutPoints + entry.BracketPoints
		entries = append(entries, entry)
	}

	rankEntries(entries)
	return entries, nil
}

// MemberPickBreakdowns returns the per-pick point breakdown for one member across
// all matches they picked, for display/audit. Unfinished matches are reported with
// Scored=false and zero points.
func MemberPickBreakdowns(member shared.Member, matches []shared.Match, picks []shared.Pick, cfg shared.ScoringConfig) ([]PickBreakdown, error) {
	keys := MemberKeys(member)
	memberPicks := LatestPickPerMatch(gatherPicks(keys, picks))

	var breakdowns []PickBreakdown
	for _, match := range matches {
		pick, ok := memberPicks[match.ID]
		if !ok {
			continue
		}
		report := PickBreakdown{Match: match, Pick: pick}
		if match.Finished() {
			points, err := ScorePick(match, pick, cfg)
			if err != nil {
				return nil, err
			}
			report.Points = points
			report.Scored = true
		}
		breakdowns = append(breakdowns, report)
	}
	return breakdowns, nil
}

// gatherPicks collects every pick recorded under any of the member's keys
func gatherPicks(keys []string, picks []shared.Pick) []shared.Pick {
	var gathered []shared.Pick
	for _, pick := range picks {
		if KeysContain(keys, pick.UserID) {
			gathered = append(gathered, pick)
		}
	}
	return gathered
}

// bracketForKeys finds the bracket prediction belonging to the key set, keeping
// the most recently updated one if aliases recorded several
func bracketForKeys(keys []string, brackets []shared.BracketPrediction) (shared.BracketPrediction, bool) {
	var found shared.BracketPrediction
	var ok bool
	for _, bracket := range brackets {
		if !KeysContain(keys, bracket.UserID) {
			continue
		}
		if !ok || !bracket.UpdatedAt.Before(found.UpdatedAt) {
			found = bracket
			ok = true
		}
	}
	return found, ok
}

// scoreBracket computes the match-independent bracket contribution: predicted
// group winners/runners-up against the final standings of completed groups, and
// predicted best-third qualifiers against the accepted qualifier codes
func scoreBracket(bracket shared.BracketPrediction, rules shared.BracketRules, standings []shared.GroupStanding, bestThirds []string) int {
	points := 0

	for _, standing := range standings {
		pred, ok := bracket.Groups[standing.Group]
		if !ok {
			continue
		}
		if sameTeam(pred.Winner, standing.Winner) {
			points += rules.GroupWinner
		}
		if sameTeam(pred.RunnerUp, standing.RunnerUp) {
			points += rules.GroupRunnerUp
		}
	}

	accepted := make(map[string]bool, len(bestThirds))
	for _, code := range bestThirds {
		accepted[NormalizeKey(code)] = true
	}
	counted := make(map[string]bool, len(bracket.BestThirds))
	for _, code := range bracket.BestThirds {
		normalized := NormalizeKey(code)
		if normalized == "" || counted[normalized] {
			continue
		}
		counted[normalized] = true
		if accepted[normalized] {
			points += rules.BestThird
		}
	}

	return points
}

// sameTeam compares two team codes case-insensitively; blanks never match
func sameTeam(a string, b string) bool {
	na, nb := NormalizeKey(a), NormalizeKey(b)
	return na != "" && na == nb
}

// isExactBothHit reports whether a pick hit the final score on both sides,
// tracked separately from points because it is the first ranking tie break
func isExactBothHit(match shared.Match, pick shared.Pick) bool {
	if !match.Finished() || !match.HasFinalScore() || !IsPickComplete(pick, match) {
		return false
	}
	return *pick.HomeScore == *match.HomeScore && *pick.AwayScore == *match.AwayScore
}

// rankEntries sorts entries into their final order and assigns strictly
// sequential rank numbers. Ties in points fall back to exact-both hits, then to
// the display name, so the order is always fully determined.
func rankEntries(entries []shared.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].TotalPoints != entries[j].TotalPoints {
			return entries[i].TotalPoints > entries[j].TotalPoints
		}
		if entries[i].ExactBothHits != entries[j].ExactBothHits {
			return entries[i].ExactBothHits > entries[j].ExactBothHits
		}
		ni, nj := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if ni != nj {
			return ni < nj
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
