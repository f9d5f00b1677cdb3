/* helpers_test.go
 * Contains shared builders used by the logic package tests
 * Authors: Zachary Bower
 */

package logic

import (
	"time"

	"prediction-league/api/shared"
)

func intp(n int) *int {
	return &n
}

func sidep(s shared.Side) *shared.Side {
	return &s
}

func outcomep(o shared.Outcome) *shared.Outcome {
	return &o
}

func decidedp(d shared.DecidedBy) *shared.DecidedBy {
	return &d
}

// testConfig returns the rule table used across the logic tests
func testConfig() shared.ScoringConfig {
	knockout := make(map[shared.Stage]shared.StageRules)
	for _, stage := range shared.KnockoutStages {
		knockout[stage] = shared.StageRules{ExactScoreBoth: 5, ExactScoreOne: 2, Result: 3, KnockoutWinner: 2}
	}
	return shared.ScoringConfig{
		Group:    shared.StageRules{ExactScoreBoth: 5, ExactScoreOne: 2, Result: 3},
		Knockout: knockout,
		Bracket:  shared.BracketRules{GroupWinner: 3, GroupRunnerUp: 2, BestThird: 1},
	}
}

// finishedGroupMatch builds a finished group-stage match with the given score
func finishedGroupMatch(id string, home int, away int) shared.Match {
	return shared.Match{
		ID:        id,
		Stage:     shared.StageGroup,
		Status:    shared.StatusFinished,
		Home:      shared.Team{Code: "NED", Name: "Netherlands"},
		Away:      shared.Team{Code: "ARG", Name: "Argentina"},
		HomeScore: intp(home),
		AwayScore: intp(away),
	}
}

// finishedKnockoutMatch builds a finished knockout match settled by the given tie break
func finishedKnockoutMatch(id string, home int, away int, winner shared.Side, decided shared.DecidedBy) shared.Match {
	return shared.Match{
		ID:        id,
		Stage:     shared.StageQuarterFinal,
		Status:    shared.StatusFinished,
		Home:      shared.Team{Code: "NED", Name: "Netherlands"},
		Away:      shared.Team{Code: "ARG", Name: "Argentina"},
		HomeScore: intp(home),
		AwayScore: intp(away),
		Winner:    sidep(winner),
		DecidedBy: decidedp(decided),
	}
}

// scorePickAt builds a pick with the given predicted score
func scorePickAt(userID string, matchID string, home int, away int, updated time.Time) shared.Pick {
	return shared.Pick{
		UserID:    userID,
		MatchID:   matchID,
		HomeScore: intp(home),
		AwayScore: intp(away),
		UpdatedAt: updated,
	}
}
