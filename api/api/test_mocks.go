/* test_mocks.go
 * Contains mock structures and interfaces for testing the API package
 * Authors: Zachary Bower
 */

package api

import (
	"context"

	"prediction-league/api/logic"
	"prediction-league/api/shared"
	"prediction-league/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// MockStore implements the Store interface for testing
type MockStore struct {
	// Storage for mock data
	Matches     []shared.Match
	Members     []shared.Member
	PickDocs    []shared.RawPickDoc
	Brackets    []shared.BracketPrediction
	Settings    store.TournamentSettings
	Leaderboard store.Leaderboard

	// Error injection for testing error paths
	GetMatchesError             error
	StoreMatchesError           error
	GetMembersError             error
	UpsertMemberError           error
	GetPickDocsError            error
	GetUserPickDocError         error
	StoreUserPickError          error
	StoreUserPickSetError       error
	GetBracketPredictionsError  error
	StoreBracketPredictionError error
	GetSettingsError            error
	StoreSettingsError          error
	FetchLeaderboardError       error
	StoreLeaderboardError       error

	// Tournament info
	Tournament string
	Database   interface{ Name() string }
}

// mockDatabase implements the minimal Database interface needed for tests
type mockDatabase struct {
	name string
}

func (m *mockDatabase) Name() string {
	return m.name
}

// NewMockStore creates a new MockStore with default values
func NewMockStore(tournament string) *MockStore {
	return &MockStore{
		Tournament: tournament,
		Database:   &mockDatabase{name: "test_db"},
	}
}

// Ensure MockStore satisfies the store interface
var _ store.Interface = (*MockStore)(nil)

// GetMatches mock implementation
func (m *MockStore) GetMatches() ([]shared.Match, error) {
	if m.GetMatchesError != nil {
		return nil, m.GetMatchesError
	}
	return m.Matches, nil
}

// StoreMatches mock implementation
func (m *MockStore) StoreMatches(matches []shared.Match) error {
	if m.StoreMatchesError != nil {
		return m.StoreMatchesError
	}
	m.Matches = matches
	return nil
}

// GetMembers mock implementation
func (m *MockStore) GetMembers() ([]shared.Member, error) {
	if m.GetMembersError != nil {
		return nil, m.GetMembersError
	}
	return m.Members, nil
}

// UpsertMember mock implementation
func (m *MockStore) UpsertMember(member shared.Member) error {
	if m.UpsertMemberError != nil {
		return m.UpsertMemberError
	}
	for i := range m.Members {
		if m.Members[i].ID == member.ID {
			m.Members[i] = member
			return nil
		}
	}
	m.Members = append(m.Members, member)
	return nil
}

// GetPickDocs mock implementation
func (m *MockStore) GetPickDocs() ([]shared.RawPickDoc, error) {
	if m.GetPickDocsError != nil {
		return nil, m.GetPickDocsError
	}
	return m.PickDocs, nil
}

// GetUserPickDoc mock implementation
func (m *MockStore) GetUserPickDoc(userID string) (shared.RawPickDoc, error) {
	if m.GetUserPickDocError != nil {
		return shared.RawPickDoc{}, m.GetUserPickDocError
	}
	for _, doc := range m.PickDocs {
		if doc.UserID == userID {
			return doc, nil
		}
	}
	return shared.RawPickDoc{}, mongo.ErrNoDocuments
}

// StoreUserPick mock implementation, mirrors the real store's replace-or-append behaviour
func (m *MockStore) StoreUserPick(pick shared.Pick) error {
	if m.StoreUserPickError != nil {
		return m.StoreUserPickError
	}

	for i, doc := range m.PickDocs {
		if doc.UserID != pick.UserID {
			continue
		}
		picks := logic.NormalizePickDocs([]shared.RawPickDoc{doc})
		replaced := false
		for j := range picks {
			if picks[j].MatchID == pick.MatchID {
				picks[j] = pick
				replaced = true
				break
			}
		}
		if !replaced {
			picks = append(picks, pick)
		}
		m.PickDocs[i] = shared.RawPickDoc{UserID: pick.UserID, Picks: picksToRaw(picks)}
		return nil
	}

	m.PickDocs = append(m.PickDocs, shared.RawPickDoc{UserID: pick.UserID, Picks: picksToRaw([]shared.Pick{pick})})
	return nil
}

// StoreUserPickSet mock implementation
func (m *MockStore) StoreUserPickSet(userID string, picks []shared.Pick) error {
	if m.StoreUserPickSetError != nil {
		return m.StoreUserPickSetError
	}
	for i, doc := range m.PickDocs {
		if doc.UserID == userID {
			m.PickDocs[i] = shared.RawPickDoc{UserID: userID, Picks: picksToRaw(picks)}
			return nil
		}
	}
	m.PickDocs = append(m.PickDocs, shared.RawPickDoc{UserID: userID, Picks: picksToRaw(picks)})
	return nil
}

// GetBracketPredictions mock implementation
func (m *MockStore) GetBracketPredictions() ([]shared.BracketPrediction, error) {
	if m.GetBracketPredictionsError != nil {
		return nil, m.GetBracketPredictionsError
	}
	return m.Brackets, nil
}

// StoreBracketPrediction mock implementation
func (m *MockStore) StoreBracketPrediction(prediction shared.BracketPrediction) error {
	if m.StoreBracketPredictionError != nil {
		return m.StoreBracketPredictionError
	}
	for i := range m.Brackets {
		if m.Brackets[i].UserID == prediction.UserID {
			m.Brackets[i] = prediction
			return nil
		}
	}
	m.Brackets = append(m.Brackets, prediction)
	return nil
}

// GetTournamentSettings mock implementation
func (m *MockStore) GetTournamentSettings() (store.TournamentSettings, error) {
	if m.GetSettingsError != nil {
		return store.TournamentSettings{}, m.GetSettingsError
	}
	return m.Settings, nil
}

// StoreTournamentSettings mock implementation
func (m *MockStore) StoreTournamentSettings(settings store.TournamentSettings) error {
	if m.StoreSettingsError != nil {
		return m.StoreSettingsError
	}
	m.Settings = settings
	return nil
}

// FetchLeaderboardFromDB mock implementation
func (m *MockStore) FetchLeaderboardFromDB() (store.Leaderboard, error) {
	if m.FetchLeaderboardError != nil {
		return store.Leaderboard{}, m.FetchLeaderboardError
	}
	return m.Leaderboard, nil
}

// StoreLeaderboard mock implementation
func (m *MockStore) StoreLeaderboard(leaderboard store.Leaderboard) error {
	if m.StoreLeaderboardError != nil {
		return m.StoreLeaderboardError
	}
	m.Leaderboard = leaderboard
	return nil
}

// Implement getter methods for StoreInterface
func (m *MockStore) GetDatabase() interface{ Name() string } {
	return m.Database
}

func (m *MockStore) GetTournament() string {
	return m.Tournament
}

// mockClient implements minimal client interface
type mockClient struct{}

func (mc *mockClient) Disconnect(ctx context.Context) error {
	return nil
}

func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return &mockClient{}
}

// picksToRaw converts typed picks to the interface{} array shape the raw documents use
func picksToRaw(picks []shared.Pick) interface{} {
	raw := make([]interface{}, 0, len(picks))
	for _, pick := range picks {
		entry := map[string]interface{}{
			"matchId":   pick.MatchID,
			"updatedAt": pick.UpdatedAt,
		}
		if pick.HomeScore != nil {
			entry["homeScore"] = *pick.HomeScore
		}
		if pick.AwayScore != nil {
			entry["awayScore"] = *pick.AwayScore
		}
		if pick.Outcome != nil {
			entry["outcome"] = string(*pick.Outcome)
		}
		if pick.Advancing != nil {
			entry["advancing"] = string(*pick.Advancing)
		}
		if pick.Winner != nil {
			entry["winner"] = string(*pick.Winner)
		}
		raw = append(raw, entry)
	}
	return raw
}
