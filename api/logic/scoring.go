/* scoring.go
 * Contains the scoring rule engine: awarding points for one pick against one match
 * result under the configured rule table. All functions here are pure; the same
 * (match, pick, config) triple always yields the same breakdown
 * Authors: Zachary Bower
 */

package logic

import (
	"errors"
	"fmt"

	"prediction-league/api/shared"
)

// ErrNoStageRules is returned when the scoring configuration has no entry for a
// match's stage. This is a caller/config bug, not dirty data, so it surfaces as
// an explicit error instead of degrading silently.
var ErrNoStageRules = errors.New("no scoring rules configured for stage")

// RulesFor resolves the applicable rule sub-table for a stage.
// Preconditions: Receives the scoring config and a stage
// Postconditions: Returns the stage's rule table, or ErrNoStageRules if the config has no entry
func RulesFor(cfg shared.ScoringConfig, stage shared.Stage) (shared.StageRules, error) {
	if stage == shared.StageGroup {
		return cfg.Group, nil
	}
	rules, ok := cfg.Knockout[stage]
	if !ok {
		return shared.StageRules{}, fmt.Errorf("%w: %s", ErrNoStageRules, stage)
	}
	return rules, nil
}

// ScorePick computes the points awarded to one pick for one match.
// Preconditions: Receives the match, the pick and the scoring config; none are mutated
// Postconditions: Returns the per-category breakdown, or ErrNoStageRules if the stage has
// no configured rules. The breakdown is all zero when the match is not finished, has no
// recorded final score, or the pick is incomplete for that match.
func ScorePick(match shared.Match, pick shared.Pick, cfg shared.ScoringConfig) (shared.ScoreBreakdown, error) {
	rules, err := RulesFor(cfg, match.Stage)
	if err != nil {
		return shared.ScoreBreakdown{}, err
	}

	if !match.Finished() || !match.HasFinalScore() || !IsPickComplete(pick, match) {
		return shared.ScoreBreakdown{}, nil
	}

	actualHome, actualAway := *match.HomeScore, *match.AwayScore
	predHome, predAway := *pick.HomeScore, *pick.AwayScore

	var breakdown shared.ScoreBreakdown

	// Exact-score category: both sides, or exactly one side (never both counted twice)
	homeExact := predHome == actualHome
	awayExact := predAway == actualAway
	switch {
	case homeExact && awayExact:
		breakdown.Exact = rules.ExactScoreBoth
	case homeExact || awayExact:
		breakdown.Exact = rules.ExactScoreOne
	}

	// Result category: the pick's explicit outcome takes precedence, otherwise the
	// outcome is derived from the predicted scores
	predicted := predictedOutcome(pick)
	if predicted == resultOf(actualHome, actualAway) {
		breakdown.Result = rules.Result
	}

	// Knockout-winner category: only for knockout stages with a non-zero rule value,
	// and only when the match was actually decided by a tie break
	if match.Stage.IsKnockout() && rules.KnockoutWinner != 0 && decidedByTieBreak(match) && match.Winner != nil {
		if side := predictedAdvancing(pick); side != nil && *side == *match.Winner {
			breakdown.Knockout = rules.KnockoutWinner
		}
	}

	return breakdown, nil
}

// resultOf derives the outcome category from a pair of scores
func resultOf(home int, away int) shared.Outcome {
	switch {
	case home > away:
		return shared.OutcomeHomeWin
	case home < away:
		return shared.OutcomeAwayWin
	default:
		return shared.OutcomeDraw
	}
}

// predictedOutcome derives the outcome a pick stands for. The explicit outcome
// field wins when present; otherwise the predicted scores decide.
// Callers must have established completeness (both scores present).
func predictedOutcome(pick shared.Pick) shared.Outcome {
	if pick.Outcome != nil {
		return *pick.Outcome
	}
	return resultOf(*pick.HomeScore, *pick.AwayScore)
}

// predictedAdvancing resolves which side a pick expects to advance. The current
// advancing field is preferred; the legacy winner field only fills the gap when
// the current field is absent, it never overrides it.
func predictedAdvancing(pick shared.Pick) *shared.Side {
	if pick.Advancing != nil {
		return pick.Advancing
	}
	return pick.Winner
}

// decidedByTieBreak reports whether a finished match was settled in extra time
// or on penalties, i.e. the regulation scores were tied
func decidedByTieBreak(match shared.Match) bool {
	if match.DecidedBy == nil {
		return false
	}
	return *match.DecidedBy == shared.DecidedExtraTime || *match.DecidedBy == shared.DecidedPenalties
}
