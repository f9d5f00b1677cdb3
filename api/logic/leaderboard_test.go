/* leaderboard_test.go
 * Contains unit tests for leaderboard.go functions
 * Authors: Zachary Bower
 */

package logic

import (
	"testing"
	"time"

	"prediction-league/api/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBuildLeaderboard_SumsCategorySubtotals tests that per-match scores fold into the
// member's running totals
func TestBuildLeaderboard_SumsCategorySubtotals(t *testing.T) {
	members := []shared.Member{{ID: "alice", Name: "Alice"}}
	matches := []shared.Match{
		finishedGroupMatch("m1", 2, 1),
		finishedGroupMatch("m2", 0, 0),
	}
	picks := []shared.Pick{
		scorePickAt("alice", "m1", 2, 1, time.Now()), // exact both (5) + result (3)
		scorePickAt("alice", "m2", 0, 1, time.Now()), // one side (2), wrong result
	}

	entries, err := BuildLeaderboard(members, matches, picks, nil, testConfig(), nil, nil)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, 7, entry.ExactPoints)
	assert.Equal(t, 3, entry.ResultPoints)
	assert.Equal(t, 10, entry.TotalPoints)
	assert.Equal(t, 2, entry.PicksSubmitted)
	assert.Equal(t, 1, entry.ExactBothHits)
	assert.Equal(t, 1, entry.Rank)
}

// TestBuildLeaderboard_MergesPicksAcrossAliases tests that picks recorded under
// different aliases of the same person are merged, never double counted
func TestBuildLeaderboard_MergesPicksAcrossAliases(t *testing.T) {
	members := []shared.Member{{ID: "m1", Name: "Alice", Email: "alice@example.com", AuthUID: "uid-1"}}
	matches := []shared.Match{finishedGroupMatch("g1", 2, 1)}
	base := time.Date(2026, 6, 10, 10, 0, 0, 0, time.UTC)
	picks := []shared.Pick{
		scorePickAt("alice@example.com", "g1", 0, 0, base), // pre-migration, stale
		scorePickAt("uid-1", "g1", 2, 1, base.Add(time.Hour)),
	}

	entries, err := BuildLeaderboard(members, matches, picks, nil, testConfig(), nil, nil)

	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 8, entries[0].TotalPoints) // only the latest alias pick counts
	assert.Equal(t, 1, entries[0].PicksSubmitted)
}

// TestBuildLeaderboard_ZeroPickMemberIncluded tests that members without picks still
// appear with zero totals
func TestBuildLeaderboard_ZeroPickMemberIncluded(t *testing.T) {
	members := []shared.Member{
		{ID: "alice", Name: "Alice"},
		{ID: "bob", Name: "Bob"},
	}
	matches := []shared.Match{finishedGroupMatch("m1", 2, 1)}
	picks := []shared.Pick{scorePickAt("alice", "m1", 2, 1, time.Now())}

	entries, err := BuildLeaderboard(members, matches, picks, nil, testConfig(), nil, nil)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Bob", entries[1].Name)
	assert.Equal(t, 0, entries[1].TotalPoints)
	assert.Equal(t, 2, entries[1].Rank)
}

// TestBuildLeaderboard_UnfinishedMatchesContributeNothing tests that scheduled and
// in-play matches are ignored even when picks exist
func TestBuildLeaderboard_UnfinishedMatchesContributeNothing(t *testing.T) {
	members := []shared.Member{{ID: "alice", Name: "Alice"}}
	match := finishedGroupMatch("m1", 2, 1)
	match.Status = shared.StatusInPlay
	picks := []shared.Pick{scorePickAt("alice", "m1", 2, 1, time.Now())}

	entries, err := BuildLeaderboard(members, []shared.Match{match}, picks, nil, testConfig(), nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 0, entries[0].TotalPoints)
}

// TestBuildLeaderboard_BracketContribution tests the match-independent bracket subtotal
func TestBuildLeaderboard_BracketContribution(t *testing.T) {
	members := []shared.Member{{ID: "alice", Name: "Alice"}}
	brackets := []shared.BracketPrediction{{
		UserID: "alice",
		Groups: map[string]shared.GroupPrediction{
			"A": {Winner: "NED", RunnerUp: "SEN"},
			"B": {Winner: "ENG", RunnerUp: "USA"},
		},
		BestThirds: []string{"POL", "AUS", "POL"}, // duplicate must not double count
	}}
	standings := []shared.GroupStanding{
		{Group: "A", Winner: "ned", RunnerUp: "ECU"}, // winner right (case differs), runner-up wrong
		{Group: "B", Winner: "ENG", RunnerUp: "USA"}, // both right
	}
	bestThirds := []string{"POL", "JPN"}

	entries, err := BuildLeaderboard(members, nil, nil, brackets, testConfig(), bestThirds, standings)

	require.NoError(t, err)
	// 3 (A winner) + 3 + 2 (B both) + 1 (POL best third, counted once)
	assert.Equal(t, 9, entries[0].BracketPoints)
	assert.Equal(t, 9, entries[0].TotalPoints)
}

// TestBuildLeaderboard_RankingTieBreaks tests the deterministic ordering: total points
// desc, exact-both hits desc, then name asc, with strictly sequential ranks
func TestBuildLeaderboard_RankingTieBreaks(t *testing.T) {
	members := []shared.Member{
		{ID: "zoe", Name: "Zoe"},
		{ID: "adam", Name: "Adam"},
		{ID: "mia", Name: "Mia"},
	}
	matches := []shared.Match{
		finishedGroupMatch("m1", 2, 1),
		finishedGroupMatch("m2", 1, 1),
	}
	now := time.Now()
	picks := []shared.Pick{
		// Zoe and Adam: identical points and identical exact-both hits
		scorePickAt("zoe", "m1", 2, 1, now),
		scorePickAt("adam", "m1", 2, 1, now),
		// Mia: same total via different path, fewer exact-both hits
		scorePickAt("mia", "m1", 3, 1, now), // 2 + 3
		scorePickAt("mia", "m2", 2, 2, now), // 0 + 3
	}

	entries, err := BuildLeaderboard(members, matches, picks, nil, testConfig(), nil, nil)

	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 8, entries[0].TotalPoints)
	assert.Equal(t, []string{"Adam", "Zoe", "Mia"}, []string{entries[0].Name, entries[1].Name, entries[2].Name})
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
}

// TestBuildLeaderboard_MissingStageRulesSurfaces tests that a config gap aborts the
// aggregation with an explicit error
func TestBuildLeaderboard_MissingStageRulesSurfaces(t *testing.T) {
	cfg := shared.ScoringConfig{Group: shared.StageRules{ExactScoreBoth: 5}}
	members := []shared.Member{{ID: "alice", Name: "Alice"}}
	match := finishedKnockoutMatch("k1", 1, 1, shared.SideHome, shared.DecidedPenalties)
	pick := scorePickAt("alice", "k1", 1, 1, time.Now())
	pick.Advancing = sidep(shared.SideHome)

	_, err := BuildLeaderboard(members, []shared.Match{match}, []shared.Pick{pick}, nil, cfg, nil, nil)

	assert.ErrorIs(t, err, ErrNoStageRules)
}

// TestMemberPickBreakdowns_ReportsScoredAndPending tests the per-pick audit output
func TestMemberPickBreakdowns_ReportsScoredAndPending(t *testing.T) {
	member := shared.Member{ID: "alice", Name: "Alice"}
	finished := finishedGroupMatch("m1", 2, 1)
	upcoming := shared.Match{ID: "m2", Stage: shared.StageGroup, Status: shared.StatusScheduled}
	picks := []shared.Pick{
		scorePickAt("alice", "m1", 2, 1, time.Now()),
		scorePickAt("alice", "m2", 1, 0, time.Now()),
	}

	breakdowns, err := MemberPickBreakdowns(member, []shared.Match{finished, upcoming}, picks, testConfig())

	require.NoError(t, err)
	require.Len(t, breakdowns, 2)
	assert.True(t, breakdowns[0].Scored)
	assert.Equal(t, 8, breakdowns[0].Points.Total())
	assert.False(t, breakdowns[1].Scored)
	assert.Equal(t, 0, breakdowns[1].Points.Total())
}
