/* models.go
 * This file contains the domain types that are shared between sub packages: matches, picks,
 * members, scoring configuration and the leaderboard/projection outputs
 * Authors: Zachary Bower
 */

package shared

import (
	"strings"
	"time"
)

// Stage is the competition phase a match belongs to. It selects which scoring
// rule sub-table applies.
type Stage string

const (
	StageGroup        Stage = "group"
	StageRoundOf16    Stage = "round-of-16"
	StageQuarterFinal Stage = "quarter-final"
	StageSemiFinal    Stage = "semi-final"
	StageThirdPlace   Stage = "third-place"
	StageFinal        Stage = "final"
)

// KnockoutStages lists the non-group stages in tournament order
var KnockoutStages = []Stage{StageRoundOf16, StageQuarterFinal, StageSemiFinal, StageThirdPlace, StageFinal}

// ParseStage validates a raw stage string (case insensitive)
// Preconditions: Receives string containing candidate stage value
// Postconditions: Returns the Stage and true if it is recognised, or "" and false if not
func ParseStage(s string) (Stage, bool) {
	switch Stage(strings.ToLower(strings.TrimSpace(s))) {
	case StageGroup:
		return StageGroup, true
	case StageRoundOf16:
		return StageRoundOf16, true
	case StageQuarterFinal:
		return StageQuarterFinal, true
	case StageSemiFinal:
		return StageSemiFinal, true
	case StageThirdPlace:
		return StageThirdPlace, true
	case StageFinal:
		return StageFinal, true
	}
	return "", false
}

// IsKnockout reports whether the stage is any phase after the group stage
func (s Stage) IsKnockout() bool {
	return s != StageGroup && s != ""
}

// MatchStatus is the lifecycle state of a match
type MatchStatus string

const (
	StatusScheduled MatchStatus = "scheduled"
	StatusInPlay    MatchStatus = "in-play"
	StatusFinished  MatchStatus = "finished"
)

// ParseMatchStatus validates a raw status string (case insensitive)
func ParseMatchStatus(s string) (MatchStatus, bool) {
	switch MatchStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusScheduled:
		return StatusScheduled, true
	case StatusInPlay:
		return StatusInPlay, true
	case StatusFinished:
		return StatusFinished, true
	}
	return "", false
}

// Outcome is the coarse result category of a match, independent of the exact score
type Outcome string

const (
	OutcomeHomeWin Outcome = "home"
	OutcomeDraw    Outcome = "draw"
	OutcomeAwayWin Outcome = "away"
)

// ParseOutcome validates a raw outcome string (case insensitive)
func ParseOutcome(s string) (Outcome, bool) {
	switch Outcome(strings.ToLower(strings.TrimSpace(s))) {
	case OutcomeHomeWin:
		return OutcomeHomeWin, true
	case OutcomeDraw:
		return OutcomeDraw, true
	case OutcomeAwayWin:
		return OutcomeAwayWin, true
	}
	return "", false
}

// Side identifies one of the two teams in a match
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// ParseSide validates a raw side string (case insensitive)
func ParseSide(s string) (Side, bool) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideHome:
		return SideHome, true
	case SideAway:
		return SideAway, true
	}
	return "", false
}

// DecidedBy records how a finished knockout match was settled
type DecidedBy string

const (
	DecidedRegulation DecidedBy = "regulation"
	DecidedExtraTime  DecidedBy = "extra-time"
	DecidedPenalties  DecidedBy = "penalties"
)

// ParseDecidedBy validates a raw decided-by string (case insensitive)
func ParseDecidedBy(s string) (DecidedBy, bool) {
	switch DecidedBy(strings.ToLower(strings.TrimSpace(s))) {
	case DecidedRegulation:
		return DecidedRegulation, true
	case DecidedExtraTime:
		return DecidedExtraTime, true
	case DecidedPenalties:
		return DecidedPenalties, true
	}
	return "", false
}

// Team is one side of a fixture
type Team struct {
	Code string `bson:"code,omitempty" json:"code"`
	Name string `bson:"name,omitempty" json:"name"`
}

// Match is a single fixture. Matches are created and updated by the results
// feed and are immutable from the engine's point of view within one pass.
type Match struct {
	ID        string      `bson:"matchid,omitempty" json:"matchId"`
	Stage     Stage       `bson:"stage,omitempty" json:"stage"`
	Group     string      `bson:"group,omitempty" json:"group,omitempty"` // group letter, group stage only
	Kickoff   time.Time   `bson:"kickoff,omitempty" json:"kickoff"`
	Status    MatchStatus `bson:"status,omitempty" json:"status"`
	Home      Team        `bson:"home,omitempty" json:"home"`
	Away      Team        `bson:"away,omitempty" json:"away"`
	HomeScore *int        `bson:"homescore,omitempty" json:"homeScore,omitempty"`
	AwayScore *int        `bson:"awayscore,omitempty" json:"awayScore,omitempty"`
	Winner    *Side       `bson:"winner,omitempty" json:"winner,omitempty"`       // finished knockout matches only
	DecidedBy *DecidedBy  `bson:"decidedby,omitempty" json:"decidedBy,omitempty"` // finished knockout matches only
}

// Finished reports whether the match has reached its final state
func (m Match) Finished() bool {
	return m.Status == StatusFinished
}

// HasFinalScore reports whether both final score fields are recorded
func (m Match) HasFinalScore() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}

// Pick is one user's canonical prediction for one match. At most one Pick
// exists per (user, match) pair after normalization; the latest updatedAt wins.
type Pick struct {
	UserID    string    `bson:"userid,omitempty" json:"userId"`
	MatchID   string    `bson:"matchid,omitempty" json:"matchId"`
	HomeScore *int      `bson:"homescore,omitempty" json:"homeScore,omitempty"`
	AwayScore *int      `bson:"awayscore,omitempty" json:"awayScore,omitempty"`
	Outcome   *Outcome  `bson:"outcome,omitempty" json:"outcome,omitempty"`
	Advancing *Side     `bson:"advancing,omitempty" json:"advancing,omitempty"`
	Winner    *Side     `bson:"winner,omitempty" json:"winner,omitempty"` // legacy field, read only as a fallback
	UpdatedAt time.Time `bson:"updatedat,omitempty" json:"updatedAt"`
}

// RawPickDoc is one user's pick document exactly as a storage generation
// recorded it. Picks holds either an array of raw picks (current shape) or a
// map keyed by match id (legacy shape); the ambiguity is resolved by the pick
// normalizer and never propagates past it.
type RawPickDoc struct {
	UserID string      `bson:"userid,omitempty" json:"userId"`
	Picks  interface{} `bson:"picks,omitempty" json:"picks"`
}

// Member is a league member. A person can carry several aliases (internal id,
// email, external auth uid) accumulated across storage generations.
type Member struct {
	ID      string `bson:"memberid,omitempty" json:"memberId"`
	Name    string `bson:"name,omitempty" json:"name"`
	Email   string `bson:"email,omitempty" json:"email,omitempty"`
	AuthUID string `bson:"authuid,omitempty" json:"authUid,omitempty"`
}

// Viewer is the signed-in identity a caller supplies for comparisons against
// member key sets
type Viewer struct {
	UserID  string
	Email   string
	AuthUID string
}

// User is the identity pair the chat surface hands to the api layer
type User struct {
	UserID   string
	Username string
}

// ScoreBreakdown is the per-category points awarded for one pick on one match
type ScoreBreakdown struct {
	Exact    int `bson:"exact" json:"exact"`
	Result   int `bson:"result" json:"result"`
	Knockout int `bson:"knockout" json:"knockout"`
}

// Total sums the category subtotals
func (b ScoreBreakdown) Total() int {
	return b.Exact + b.Result + b.Knockout
}

// StageRules are the point values for one stage of the competition
type StageRules struct {
	ExactScoreBoth int `yaml:"exactScoreBoth" json:"exactScoreBoth"`
	ExactScoreOne  int `yaml:"exactScoreOne" json:"exactScoreOne"`
	Result         int `yaml:"result" json:"result"`
	KnockoutWinner int `yaml:"knockoutWinner" json:"knockoutWinner"`
}

// BracketRules are the point values for the match-independent bracket contribution
type BracketRules struct {
	GroupWinner   int `yaml:"groupWinner" json:"groupWinner"`
	GroupRunnerUp int `yaml:"groupRunnerUp" json:"groupRunnerUp"`
	BestThird     int `yaml:"bestThird" json:"bestThird"`
}

// ScoringConfig is the full rule table: one entry for the group stage and one
// per knockout stage, plus the bracket contribution values. Immutable input
// per computation.
type ScoringConfig struct {
	Group    StageRules           `yaml:"group" json:"group"`
	Knockout map[Stage]StageRules `yaml:"knockout" json:"knockout"`
	Bracket  BracketRules         `yaml:"bracket" json:"bracket"`
}

// GroupPrediction is a user's predicted top two for one group
type GroupPrediction struct {
	Winner   string `bson:"winner,omitempty" json:"winner"`
	RunnerUp string `bson:"runnerup,omitempty" json:"runnerUp"`
}

// BracketPrediction is a user's tournament-level prediction: group top twos,
// best-third qualifiers and per-knockout-match advancing sides
type BracketPrediction struct {
	UserID     string                     `bson:"userid,omitempty" json:"userId"`
	Groups     map[string]GroupPrediction `bson:"groups,omitempty" json:"groups,omitempty"`
	BestThirds []string                   `bson:"bestthirds,omitempty" json:"bestThirds,omitempty"`
	Advancing  map[string]Side            `bson:"advancing,omitempty" json:"advancing,omitempty"`
	UpdatedAt  time.Time                  `bson:"updatedat,omitempty" json:"updatedAt"`
}

// GroupStanding is the final top two of one completed group, used to score
// bracket predictions
type GroupStanding struct {
	Group    string `bson:"group,omitempty" json:"group"`
	Winner   string `bson:"winner,omitempty" json:"winner"`
	RunnerUp string `bson:"runnerup,omitempty" json:"runnerUp"`
}

// LeaderboardEntry is one member's row in the computed leaderboard. Entries
// are computed fresh on every aggregation call and never mutated in place.
type LeaderboardEntry struct {
	Rank           int    `bson:"rank" json:"rank"`
	UserID         string `bson:"userid,omitempty" json:"userId"`
	Name           string `bson:"name,omitempty" json:"name"`
	TotalPoints    int    `bson:"totalpoints" json:"totalPoints"`
	ExactPoints    int    `bson:"exactpoints" json:"exactPoints"`
	ResultPoints   int    `bson:"resultpoints" json:"resultPoints"`
	KnockoutPoints int    `bson:"knockoutpoints" json:"knockoutPoints"`
	BracketPoints  int    `bson:"bracketpoints" json:"bracketPoints"`
	PicksSubmitted int    `bson:"pickssubmitted" json:"picksSubmitted"`
	ExactBothHits  int    `bson:"exactbothhits" json:"exactBothHits"`
}

// SimulatedOutcome is a hypothetical final score for a not-yet-decided match
type SimulatedOutcome struct {
	HomeScore int   `json:"homeScore"`
	AwayScore int   `json:"awayScore"`
	Advancing *Side `json:"advancing,omitempty"` // required for a simulated knockout tie
}

// ProjectedRow is one member's row in a what-if leaderboard
type ProjectedRow struct {
	ProjectedRank   int    `json:"projectedRank"`
	UserID          string `json:"userId"`
	Name            string `json:"name"`
	CurrentRank     int    `json:"currentRank"`
	CurrentPoints   int    `json:"currentPoints"`
	ProjectedDelta  int    `json:"projectedDelta"`
	ProjectedPoints int    `json:"projectedPoints"`
}
