/* settings.go
 * Contains the methods for interacting with the tournament_settings collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetTournamentSettings returns the operator settings for the tournament. A missing
// document is not an error; zero-valued settings come back instead, since a fresh
// tournament simply has no standings or best thirds yet.
// Preconditions: Receives receiver pointer for Store
// Postconditions: Returns the TournamentSettings or an error if it occurs
func (s *Store) GetTournamentSettings() (TournamentSettings, error) {
	var settings TournamentSettings
	err := s.Collections.Settings.FindOne(context.TODO(), bson.M{"tournament": s.Tournament}).Decode(&settings)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return TournamentSettings{Tournament: s.Tournament}, nil
		}
		return TournamentSettings{}, fmt.Errorf("error fetching tournament settings from db: %w", err)
	}
	return settings, nil
}

// StoreTournamentSettings stores or updates the operator settings document
// Preconditions: Receives receiver pointer for Store and the settings value
// Postconditions: Updates the tournament_settings collection and returns nil, or an error
// if it occurs
func (s *Store) StoreTournamentSettings(settings TournamentSettings) error {
	settings.Tournament = s.Tournament
	// Never try to $set the _id of an existing document
	settings.Id = primitive.NilObjectID

	filter := bson.M{"tournament": s.Tournament}
	update := bson.M{"$set": settings}
	opts := options.Update().SetUpsert(true)

	if _, err := s.Collections.Settings.UpdateOne(context.TODO(), filter, update, opts); err != nil {
		return fmt.Errorf("failed to store tournament settings: %w", err)
	}
	return nil
}
