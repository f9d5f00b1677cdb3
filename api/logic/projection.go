/* projection.go
 * Contains the what-if projector: hypothetical standings under simulated outcomes for
 * not-yet-decided matches. The real leaderboard entries are the baseline and are never
 * mutated; this computation is read-only by contract
 * Authors: Zachary Bower
 */

package logic

import (
	"sort"
	"strings"

	"prediction-league/api/shared"
)

// BuildProjectedLeaderboard computes the leaderboard members would have if the
// simulated outcomes occurred. History is not recomputed: each member's current
// total is the baseline and only the simulated matches contribute deltas.
// Simulations for matches that are already finished are ignored; finished
// matches are ground truth and must not be overridden.
// Preconditions: Receives the already-computed real entries, the member records (for
// identity resolution), all matches, canonical picks, the scoring config and a map of
// match id to simulated outcome
// Postconditions: Returns fresh projected rows ranked by projected total desc, current
// total desc, then display name asc; no input is mutated
func BuildProjectedLeaderboard(
	entries []shared.LeaderboardEntry,
	members []shared.Member,
	matches []shared.Match,
	picks []shared.Pick,
	cfg shared.ScoringConfig,
	outcomes map[string]shared.SimulatedOutcome,
) ([]shared.ProjectedRow, error) {
	simulated := simulatedMatches(matches, outcomes)

	membersByID := make(map[string]shared.Member, len(members))
	for _, member := range members {
		membersByID[NormalizeKey(member.ID)] = member
	}

	rows := make([]shared.ProjectedRow, 0, len(entries))
	for _, entry := range entries {
		keys := []string{NormalizeKey(entry.UserID)}
		if member, ok := membersByID[NormalizeKey(entry.UserID)]; ok {
			keys = MemberKeys(member)
		}
		memberPicks := LatestPickPerMatch(gatherPicks(keys, picks))

		delta := 0
		for _, match := range simulated {
			pick, ok := memberPicks[match.ID]
			if !ok {
				continue
			}
			breakdown, err := ScorePick(match, pick, cfg)
			if err != nil {
				return nil, err
			}
			delta += breakdown.Total()
		}

		rows = append(rows, shared.ProjectedRow{
			UserID:          entry.UserID,
			Name:            entry.Name,
			CurrentRank:     entry.Rank,
			CurrentPoints:   entry.TotalPoints,
			ProjectedDelta:  delta,
			ProjectedPoints: entry.TotalPoints + delta,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ProjectedPoints != rows[j].ProjectedPoints {
			return rows[i].ProjectedPoints > rows[j].ProjectedPoints
		}
		if rows[i].CurrentPoints != rows[j].CurrentPoints {
			return rows[i].CurrentPoints > rows[j].CurrentPoints
		}
		ni, nj := strings.ToLower(rows[i].Name), strings.ToLower(rows[j].Name)
		if ni != nj {
			return ni < nj
		}
		return rows[i].UserID < rows[j].UserID
	})
	for i := range rows {
		rows[i].ProjectedRank = i + 1
	}

	return rows, nil
}

// simulatedMatches builds finished copies of the not-yet-decided matches named in
// the outcome map, carrying the hypothetical score in place of a real one. A tied
// simulated knockout score with an advancing side is treated as decided on
// penalties so the knockout-winner category applies.
func simulatedMatches(matches []shared.Match, outcomes map[string]shared.SimulatedOutcome) []shared.Match {
	var simulated []shared.Match
	for _, match := range matches {
		outcome, ok := outcomes[match.ID]
		if !ok || match.Finished() {
			continue
		}

		sim := match
		home, away := outcome.HomeScore, outcome.AwayScore
		sim.Status = shared.StatusFinished
		sim.HomeScore = &home
		sim.AwayScore = &away
		sim.Winner = nil
		sim.DecidedBy = nil

		if sim.Stage.IsKnockout() {
			if home == away && outcome.Advancing != nil {
				side := *outcome.Advancing
				decided := shared.DecidedPenalties
				sim.Winner = &side
				sim.DecidedBy = &decided
			} else if home != away {
				side := shared.SideHome
				if away > home {
					side = shared.SideAway
				}
				decided := shared.DecidedRegulation
				sim.Winner = &side
				sim.DecidedBy = &decided
			}
			// A tied simulation without an advancing side stays undecided: scores
			// count, the knockout-winner category simply cannot fire
		}

		simulated = append(simulated, sim)
	}

	sort.Slice(simulated, func(i, j int) bool {
		return simulated[i].ID < simulated[j].ID
	})
	return simulated
}
