/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 * Authors: Zachary Bower
 */

package store

import (
	"context"

	"prediction-league/api/shared"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	GetMatches() ([]shared.Match, error)
	StoreMatches(matches []shared.Match) error
	GetMembers() ([]shared.Member, error)
	UpsertMember(member shared.Member) error
	GetPickDocs() ([]shared.RawPickDoc, error)
	GetUserPickDoc(userID string) (shared.RawPickDoc, error)
	StoreUserPick(pick shared.Pick) error
	StoreUserPickSet(userID string, picks []shared.Pick) error
	GetBracketPredictions() ([]shared.BracketPrediction, error)
	StoreBracketPrediction(prediction shared.BracketPrediction) error
	GetTournamentSettings() (TournamentSettings, error)
	StoreTournamentSettings(settings TournamentSettings) error
	FetchLeaderboardFromDB() (Leaderboard, error)
	StoreLeaderboard(leaderboard Leaderboard) error

	// Getter methods for accessing fields
	GetDatabase() interface{ Name() string }
	GetTournament() string
	GetClient() interface{ Disconnect(context.Context) error }
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetDatabase returns the database instance
func (s *Store) GetDatabase() interface{ Name() string } {
	return s.Database
}

// GetTournament returns the tournament name
func (s *Store) GetTournament() string {
	return s.Tournament
}

// GetClient returns the MongoDB client
func (s *Store) GetClient() interface{ Disconnect(context.Context) error } {
	return s.Client
}
