/* handlers_test.go
 * Contains unit tests for handlers.go functions using httptest and the MockStore
 * Authors: Zachary Bower
 */

package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"prediction-league/api/api"
	"prediction-league/api/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testServer builds a Server backed by a MockStore
func testServer() (*Server, *api.MockStore) {
	mock := api.NewMockStore("worldcup2026")
	knockout := shared.StageRules{ExactScoreBoth: 5, ExactScoreOne: 2, Result: 3, KnockoutWinner: 2}
	cfg := shared.ScoringConfig{
		Group:    shared.StageRules{ExactScoreBoth: 5, ExactScoreOne: 2, Result: 3},
		Knockout: make(map[shared.Stage]shared.StageRules),
	}
	for _, stage := range shared.KnockoutStages {
		cfg.Knockout[stage] = knockout
	}
	return &Server{api: &api.API{Store: mock, Config: cfg}}, mock
}

// TestLeaderboardHandler_ReturnsEntries tests the JSON leaderboard endpoint
func TestLeaderboardHandler_ReturnsEntries(t *testing.T) {
	s, mock := testServer()
	two, one := 2, 1
	mock.Matches = []shared.Match{{
		ID: "g1", Stage: shared.StageGroup, Status: shared.StatusFinished,
		Home: shared.Team{Code: "NED", Name: "Netherlands"}, Away: shared.Team{Code: "ECU", Name: "Ecuador"},
		HomeScore: &two, AwayScore: &one,
	}}
	mock.Members = []shared.Member{{ID: "u1", Name: "Alice"}}
	mock.PickDocs = []shared.RawPickDoc{{
		UserID: "u1",
		Picks:  []interface{}{map[string]interface{}{"matchId": "g1", "homeScore": 2, "awayScore": 1}},
	}}

	req := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	rec := httptest.NewRecorder()

	s.LeaderboardHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var entries []shared.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Alice", entries[0].Name)
	assert.Equal(t, 8, entries[0].TotalPoints)
}

// TestLeaderboardHandler_MethodNotAllowed tests the method guard
func TestLeaderboardHandler_MethodNotAllowed(t *testing.T) {
	s, _ := testServer()

	req := httptest.NewRequest(http.MethodPost, "/api/leaderboard", nil)
	rec := httptest.NewRecorder()

	s.LeaderboardHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

// TestProjectionHandler_ReturnsProjectedRows tests the what-if endpoint
func TestProjectionHandler_ReturnsProjectedRows(t *testing.T) {
	s, mock := testServer()
	mock.Matches = []shared.Match{{
		ID: "g1", Stage: shared.StageGroup, Status: shared.StatusScheduled,
		Kickoff: time.Now().Add(time.Hour),
		Home:    shared.Team{Code: "NED", Name: "Netherlands"}, Away: shared.Team{Code: "ECU", Name: "Ecuador"},
	}}
	mock.Members = []shared.Member{{ID: "u1", Name: "Alice"}}
	mock.PickDocs = []shared.RawPickDoc{{
		UserID: "u1",
		Picks:  []interface{}{map[string]interface{}{"matchId": "g1", "homeScore": 1, "awayScore": 0}},
	}}

	body, err := json.Marshal(ProjectionRequest{
		Outcomes: map[string]shared.SimulatedOutcome{"g1": {HomeScore: 1, AwayScore: 0}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/projection", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.ProjectionHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var rows []shared.ProjectedRow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 8, rows[0].ProjectedDelta)
	assert.Equal(t, 8, rows[0].ProjectedPoints)
}

// TestProjectionHandler_MalformedBody tests the bad request path
func TestProjectionHandler_MalformedBody(t *testing.T) {
	s, _ := testServer()

	req := httptest.NewRequest(http.MethodPost, "/api/projection", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	s.ProjectionHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestKnockoutHandler_ReturnsDecision tests the activation endpoint
func TestKnockoutHandler_ReturnsDecision(t *testing.T) {
	s, mock := testServer()
	two, one := 2, 1
	mock.Matches = []shared.Match{
		{
			ID: "g1", Stage: shared.StageGroup, Status: shared.StatusFinished,
			Home: shared.Team{Code: "NED", Name: "Netherlands"}, Away: shared.Team{Code: "ECU", Name: "Ecuador"},
			HomeScore: &two, AwayScore: &one,
		},
		{
			ID: "r16-1", Stage: shared.StageRoundOf16, Status: shared.StatusScheduled,
			Home: shared.Team{Code: "NED", Name: "Netherlands"}, Away: shared.Team{Code: "ARG", Name: "Argentina"},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/knockout", nil)
	rec := httptest.NewRecorder()

	s.KnockoutHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var decision map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decision))
	assert.Equal(t, true, decision["active"])
	assert.Equal(t, true, decision["inferredActive"])
}

// TestPickSyncHandler_MergesPicks tests the sync endpoint round trip
func TestPickSyncHandler_MergesPicks(t *testing.T) {
	s, mock := testServer()
	one, zero := 1, 0

	body, err := json.Marshal(PickSyncRequest{
		UserID: "U1",
		Picks: []shared.Pick{{
			MatchID:   "g1",
			HomeScore: &one,
			AwayScore: &zero,
			UpdatedAt: time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC),
		}},
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/picks/sync", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.PickSyncHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var merged []shared.Pick
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &merged))
	require.Len(t, merged, 1)
	assert.Equal(t, "u1", merged[0].UserID)
	require.Len(t, mock.PickDocs, 1)
}

// TestPickSyncHandler_EmptyUserRejected tests validation surfacing as a bad request
func TestPickSyncHandler_EmptyUserRejected(t *testing.T) {
	s, _ := testServer()

	body, err := json.Marshal(PickSyncRequest{UserID: "  "})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/picks/sync", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.PickSyncHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestResultsWebhookHandler_OtherTournamentIgnored tests that foreign events are
// acknowledged without touching stored data
func TestResultsWebhookHandler_OtherTournamentIgnored(t *testing.T) {
	s, mock := testServer()

	body, err := json.Marshal(ResultsEvent{Tournament: "euro2024", MatchID: "g1", Event: "finished"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/results", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.ResultsWebhookHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, mock.Matches)
}

// TestResultsWebhookHandler_MalformedBody tests the bad request path
func TestResultsWebhookHandler_MalformedBody(t *testing.T) {
	s, _ := testServer()

	req := httptest.NewRequest(http.MethodPost, "/webhooks/results", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	s.ResultsWebhookHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// TestResultsWebhookHandler_MethodNotAllowed tests the method guard
func TestResultsWebhookHandler_MethodNotAllowed(t *testing.T) {
	s, _ := testServer()

	req := httptest.NewRequest(http.MethodGet, "/webhooks/results", nil)
	rec := httptest.NewRecorder()

	s.ResultsWebhookHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
