/* api_test.go
 * Contains unit tests for api.go - testing all public API methods
 * Authors: Zachary Bower
 */

package api

import (
	"fmt"
	"testing"
	"time"

	"prediction-league/api/logic"
	"prediction-league/api/shared"
	"prediction-league/api/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testConfig returns a small scoring config used across the service tests
func testConfig() shared.ScoringConfig {
	knockout := shared.StageRules{ExactScoreBoth: 5, ExactScoreOne: 2, Result: 3, KnockoutWinner: 2}
	cfg := shared.ScoringConfig{
		Group:    shared.StageRules{ExactScoreBoth: 5, ExactScoreOne: 2, Result: 3},
		Knockout: make(map[shared.Stage]shared.StageRules),
		Bracket:  shared.BracketRules{GroupWinner: 3, GroupRunnerUp: 2, BestThird: 1},
	}
	for _, stage := range shared.KnockoutStages {
		cfg.Knockout[stage] = knockout
	}
	return cfg
}

// newTestAPI builds an API wired to a fresh MockStore
func newTestAPI() (*API, *MockStore) {
	mock := NewMockStore("worldcup2026")
	return &API{Store: mock, Config: testConfig()}, mock
}

func scheduledMatch(id string, stage shared.Stage, home string, away string) shared.Match {
	return shared.Match{
		ID:      id,
		Stage:   stage,
		Status:  shared.StatusScheduled,
		Kickoff: time.Now().Add(24 * time.Hour).UTC(),
		Home:    shared.Team{Code: home[:3], Name: home},
		Away:    shared.Team{Code: away[:3], Name: away},
	}
}

func finishedMatch(id string, stage shared.Stage, home string, away string, homeScore int, awayScore int) shared.Match {
	match := scheduledMatch(id, stage, home, away)
	match.Status = shared.StatusFinished
	match.Kickoff = time.Now().Add(-24 * time.Hour).UTC()
	match.HomeScore = &homeScore
	match.AwayScore = &awayScore
	return match
}

// TestSetUserPick_StoresValidPick tests that a well-formed pick lands in the store and
// the member roster is updated
func TestSetUserPick_StoresValidPick(t *testing.T) {
	a, mock := newTestAPI()
	mock.Matches = []shared.Match{scheduledMatch("g1", shared.StageGroup, "Netherlands", "Ecuador")}

	err := a.SetUserPick(shared.User{UserID: "User-1", Username: "alice"}, PickSubmission{MatchID: "G1", Score: "2-1"})

	require.NoError(t, err)
	require.Len(t, mock.PickDocs, 1)
	picks := logic.NormalizePickDocs(mock.PickDocs)
	require.Len(t, picks, 1)
	assert.Equal(t, "user-1", picks[0].UserID)
	assert.Equal(t, "g1", picks[0].MatchID)
	require.NotNil(t, picks[0].HomeScore)
	assert.Equal(t, 2, *picks[0].HomeScore)
	require.Len(t, mock.Members, 1)
	assert.Equal(t, "user-1", mock.Members[0].ID)
}

// TestSetUserPick_InvalidScoreline tests rejection of malformed scorelines
func TestSetUserPick_InvalidScoreline(t *testing.T) {
	a, mock := newTestAPI()
	mock.Matches = []shared.Match{scheduledMatch("g1", shared.StageGroup, "Netherlands", "Ecuador")}

	err := a.SetUserPick(shared.User{UserID: "u1", Username: "alice"}, PickSubmission{MatchID: "g1", Score: "two-one"})

	require.Error(t, err)
	assert.Empty(t, mock.PickDocs)
}

// TestSetUserPick_UnknownMatch tests rejection of picks against missing fixtures
func TestSetUserPick_UnknownMatch(t *testing.T) {
	a, _ := newTestAPI()

	err := a.SetUserPick(shared.User{UserID: "u1", Username: "alice"}, PickSubmission{MatchID: "nope", Score: "1-0"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no match found")
}

// TestSetUserPick_FinishedMatchRejected tests that picks are locked once a match finishes
func TestSetUserPick_FinishedMatchRejected(t *testing.T) {
	a, mock := newTestAPI()
	mock.Matches = []shared.Match{finishedMatch("g1", shared.StageGroup, "Netherlands", "Ecuador", 2, 0)}

	err := a.SetUserPick(shared.User{UserID: "u1", Username: "alice"}, PickSubmission{MatchID: "g1", Score: "1-0"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

// TestSetUserPick_TiedKnockoutNeedsAdvancing tests that a drawn knockout scoreline
// without an advancing team is rejected
func TestSetUserPick_TiedKnockoutNeedsAdvancing(t *testing.T) {
	a, mock := newTestAPI()
	mock.Matches = []shared.Match{scheduledMatch("qf1", shared.StageQuarterFinal, "Netherlands", "Argentina")}

	err := a.SetUserPick(shared.User{UserID: "u1", Username: "alice"}, PickSubmission{MatchID: "qf1", Score: "1-1"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "advancing")
}

// TestSetUserPick_AdvancingTeamFuzzyResolved tests that a near-miss team spelling
// resolves to the correct side
func TestSetUserPick_AdvancingTeamFuzzyResolved(t *testing.T) {
	a, mock := newTestAPI()
	mock.Matches = []shared.Match{scheduledMatch("qf1", shared.StageQuarterFinal, "Netherlands", "Argentina")}

	err := a.SetUserPick(shared.User{UserID: "u1", Username: "alice"}, PickSubmission{MatchID: "qf1", Score: "1-1", Advancing: "argentna"})

	require.NoError(t, err)
	picks := logic.NormalizePickDocs(mock.PickDocs)
	require.Len(t, picks, 1)
	require.NotNil(t, picks[0].Advancing)
	assert.Equal(t, shared.SideAway, *picks[0].Advancing)
}

// TestSyncUserPicks_NewerLocalWins tests the merge semantics through the service layer
func TestSyncUserPicks_NewerLocalWins(t *testing.T) {
	a, mock := newTestAPI()
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	one, two := 1, 2
	mock.PickDocs = []shared.RawPickDoc{{
		UserID: "u1",
		Picks: []interface{}{map[string]interface{}{
			"matchId": "g1", "homeScore": 1, "awayScore": 0, "updatedAt": base,
		}},
	}}

	local := []shared.Pick{{
		MatchID:   "g1",
		HomeScore: &two,
		AwayScore: &one,
		UpdatedAt: base.Add(time.Hour),
	}}

	merged, err := a.SyncUserPicks(shared.User{UserID: "U1"}, local)

	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "u1", merged[0].UserID)
	require.NotNil(t, merged[0].HomeScore)
	assert.Equal(t, 2, *merged[0].HomeScore)

	stored := logic.NormalizePickDocs(mock.PickDocs)
	require.Len(t, stored, 1)
	assert.Equal(t, 2, *stored[0].HomeScore)
}

// TestSetBracketPrediction_DuplicateBestThirdRejected tests duplicate qualifier detection
func TestSetBracketPrediction_DuplicateBestThirdRejected(t *testing.T) {
	a, mock := newTestAPI()

	err := a.SetBracketPrediction(shared.User{UserID: "u1", Username: "alice"}, shared.BracketPrediction{
		BestThirds: []string{"NED", "ned"},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple times")
	assert.Empty(t, mock.Brackets)
}

// TestSetBracketPrediction_SameWinnerAndRunnerUpRejected tests group prediction validation
func TestSetBracketPrediction_SameWinnerAndRunnerUpRejected(t *testing.T) {
	a, _ := newTestAPI()

	err := a.SetBracketPrediction(shared.User{UserID: "u1", Username: "alice"}, shared.BracketPrediction{
		Groups: map[string]shared.GroupPrediction{"A": {Winner: "NED", RunnerUp: "ned"}},
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot be the same")
}

// TestSetBracketPrediction_ValidStored tests the happy path
func TestSetBracketPrediction_ValidStored(t *testing.T) {
	a, mock := newTestAPI()

	err := a.SetBracketPrediction(shared.User{UserID: "U1", Username: "alice"}, shared.BracketPrediction{
		Groups:     map[string]shared.GroupPrediction{"A": {Winner: "NED", RunnerUp: "ECU"}},
		BestThirds: []string{"POL", "AUS"},
	})

	require.NoError(t, err)
	require.Len(t, mock.Brackets, 1)
	assert.Equal(t, "u1", mock.Brackets[0].UserID)
	assert.False(t, mock.Brackets[0].UpdatedAt.IsZero())
}

// TestCheckPicks_ReportsScoredAndPending tests the pick report output
func TestCheckPicks_ReportsScoredAndPending(t *testing.T) {
	a, mock := newTestAPI()
	mock.Matches = []shared.Match{
		finishedMatch("g1", shared.StageGroup, "Netherlands", "Ecuador", 2, 1),
		scheduledMatch("g2", shared.StageGroup, "England", "Wales"),
	}
	mock.Members = []shared.Member{{ID: "u1", Name: "Alice"}}
	mock.PickDocs = []shared.RawPickDoc{{
		UserID: "u1",
		Picks: []interface{}{
			map[string]interface{}{"matchId": "g1", "homeScore": 2, "awayScore": 1},
			map[string]interface{}{"matchId": "g2", "homeScore": 0, "awayScore": 0},
		},
	}}

	report, err := a.CheckPicks(shared.User{UserID: "U1", Username: "Alice"})

	require.NoError(t, err)
	assert.Contains(t, report, "Picks for Alice")
	assert.Contains(t, report, "(8 pts)")
	assert.Contains(t, report, "(pending)")
	assert.Contains(t, report, "Total: 8 pts")
}

// TestCheckPicks_NoPicksStored tests the empty report path
func TestCheckPicks_NoPicksStored(t *testing.T) {
	a, _ := newTestAPI()

	report, err := a.CheckPicks(shared.User{UserID: "u1", Username: "Alice"})

	require.NoError(t, err)
	assert.Contains(t, report, "no picks")
}

// TestGenerateLeaderboard_StoresRankedEntries tests compute-and-persist
func TestGenerateLeaderboard_StoresRankedEntries(t *testing.T) {
	a, mock := newTestAPI()
	mock.Matches = []shared.Match{finishedMatch("g1", shared.StageGroup, "Netherlands", "Ecuador", 2, 1)}
	mock.Members = []shared.Member{{ID: "u1", Name: "Alice"}, {ID: "u2", Name: "Bob"}}
	mock.PickDocs = []shared.RawPickDoc{
		{UserID: "u1", Picks: []interface{}{map[string]interface{}{"matchId": "g1", "homeScore": 2, "awayScore": 1}}},
		{UserID: "u2", Picks: []interface{}{map[string]interface{}{"matchId": "g1", "homeScore": 0, "awayScore": 2}}},
	}

	err := a.GenerateLeaderboard()

	require.NoError(t, err)
	require.Len(t, mock.Leaderboard.Entries, 2)
	assert.Equal(t, "worldcup2026", mock.Leaderboard.Tournament)
	assert.Equal(t, 1, mock.Leaderboard.Entries[0].Rank)
	assert.Equal(t, "Alice", mock.Leaderboard.Entries[0].Name)
	assert.Equal(t, 8, mock.Leaderboard.Entries[0].TotalPoints)
}

// TestGetLeaderboard_FormatsStoredEntries tests the response string generation
func TestGetLeaderboard_FormatsStoredEntries(t *testing.T) {
	a, mock := newTestAPI()
	mock.Leaderboard = store.Leaderboard{
		Tournament: "worldcup2026",
		Entries: []shared.LeaderboardEntry{
			{Rank: 1, UserID: "u1", Name: "Alice", TotalPoints: 8, ExactPoints: 5, ResultPoints: 3},
			{Rank: 2, UserID: "u2", Name: "Bob", TotalPoints: 0},
		},
	}

	response, err := a.GetLeaderboard()

	require.NoError(t, err)
	assert.Contains(t, response, "1. Alice, 8 pts")
	assert.Contains(t, response, "2. Bob, 0 pts")
}

// TestProjectLeaderboard_AppliesSimulatedOutcomes tests the what-if path end to end
func TestProjectLeaderboard_AppliesSimulatedOutcomes(t *testing.T) {
	a, mock := newTestAPI()
	mock.Matches = []shared.Match{
		finishedMatch("g1", shared.StageGroup, "Netherlands", "Ecuador", 2, 1),
		scheduledMatch("g2", shared.StageGroup, "England", "Wales"),
	}
	mock.Members = []shared.Member{{ID: "u1", Name: "Alice"}}
	mock.PickDocs = []shared.RawPickDoc{{
		UserID: "u1",
		Picks: []interface{}{
			map[string]interface{}{"matchId": "g1", "homeScore": 2, "awayScore": 1},
			map[string]interface{}{"matchId": "g2", "homeScore": 1, "awayScore": 0},
		},
	}}

	rows, err := a.ProjectLeaderboard(map[string]shared.SimulatedOutcome{
		"g2": {HomeScore: 1, AwayScore: 0},
	})

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 8, rows[0].CurrentPoints)
	assert.Equal(t, 8, rows[0].ProjectedDelta)
	assert.Equal(t, 16, rows[0].ProjectedPoints)
}

// TestKnockoutActivation_InferredFromMatchState tests live-mode inference
func TestKnockoutActivation_InferredFromMatchState(t *testing.T) {
	a, mock := newTestAPI()
	mock.Matches = []shared.Match{
		finishedMatch("g1", shared.StageGroup, "Netherlands", "Ecuador", 2, 1),
		scheduledMatch("r16-1", shared.StageRoundOf16, "Netherlands", "Argentina"),
	}

	decision, err := a.KnockoutActivation()

	require.NoError(t, err)
	assert.True(t, decision.Active)
	assert.True(t, decision.InferredActive)
	assert.False(t, decision.ForcedByOverride)
}

// TestKnockoutActivation_PlaceholderTeamsBlockDraw tests that a TBD slot keeps the
// bracket inactive
func TestKnockoutActivation_PlaceholderTeamsBlockDraw(t *testing.T) {
	a, mock := newTestAPI()
	r16 := scheduledMatch("r16-1", shared.StageRoundOf16, "Netherlands", "Argentina")
	r16.Away = shared.Team{Code: "TBD", Name: "TBD"}
	mock.Matches = []shared.Match{
		finishedMatch("g1", shared.StageGroup, "Netherlands", "Ecuador", 2, 1),
		r16,
	}

	decision, err := a.KnockoutActivation()

	require.NoError(t, err)
	assert.False(t, decision.Active)
}

// TestKnockoutActivation_DemoOverrideForcesActive tests the demo-mode override path
func TestKnockoutActivation_DemoOverrideForcesActive(t *testing.T) {
	a, mock := newTestAPI()
	override := true
	mock.Settings = store.TournamentSettings{Mode: logic.ModeDemo, DemoOverride: &override}
	mock.Matches = []shared.Match{scheduledMatch("g1", shared.StageGroup, "Netherlands", "Ecuador")}

	decision, err := a.KnockoutActivation()

	require.NoError(t, err)
	assert.True(t, decision.Active)
	assert.True(t, decision.ForcedByOverride)
	assert.NotEmpty(t, decision.MismatchWarning)
}

// TestGetUpcomingMatches_FiltersPastAndFinished tests the upcoming match filter
func TestGetUpcomingMatches_FiltersPastAndFinished(t *testing.T) {
	a, mock := newTestAPI()
	mock.Matches = []shared.Match{
		finishedMatch("g1", shared.StageGroup, "Netherlands", "Ecuador", 2, 1),
		scheduledMatch("g2", shared.StageGroup, "England", "Wales"),
	}

	upcoming, err := a.GetUpcomingMatches()

	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Contains(t, upcoming[0], "England VS Wales")
}

// TestGetTournamentInfo_SummarisesState tests the info lines
func TestGetTournamentInfo_SummarisesState(t *testing.T) {
	a, mock := newTestAPI()
	mock.Matches = []shared.Match{
		finishedMatch("g1", shared.StageGroup, "Netherlands", "Ecuador", 2, 1),
		scheduledMatch("g2", shared.StageGroup, "England", "Wales"),
	}
	mock.Members = []shared.Member{{ID: "u1", Name: "Alice"}}

	values, err := a.GetTournamentInfo()

	require.NoError(t, err)
	assert.Contains(t, values, "Tournament Name: worldcup2026")
	assert.Contains(t, values, "Matches played: 1 of 2")
	assert.Contains(t, values, "Registered members: 1")
}

// TestLeaderboard_StoreErrorPropagates tests error propagation from the store
func TestLeaderboard_StoreErrorPropagates(t *testing.T) {
	a, mock := newTestAPI()
	mock.GetMembersError = fmt.Errorf("connection reset")

	_, err := a.Leaderboard()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
