/* matches.go
 * Contains the methods for interacting with the matches collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"prediction-league/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetMatches returns all matches for the tournament, ordered by kickoff time
// Preconditions: Receives receiver pointer for Store
// Postconditions: Returns slice of Match or an error if it occurs
func (s *Store) GetMatches() ([]shared.Match, error) {
	opts := options.Find().SetSort(bson.D{{Key: "kickoff", Value: 1}})

	cursor, err := s.Collections.Matches.Find(context.TODO(), bson.D{{Key: "tournament", Value: s.Tournament}}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch matches from database: %w", err)
	}
	defer cursor.Close(context.TODO())

	var docs []struct {
		Match shared.Match `bson:"match"`
	}
	if err := cursor.All(context.TODO(), &docs); err != nil {
		return nil, fmt.Errorf("failed to decode matches: %w", err)
	}

	matches := make([]shared.Match, 0, len(docs))
	for _, doc := range docs {
		matches = append(matches, doc.Match)
	}
	return matches, nil
}

// StoreMatches upserts the given matches, keyed by match id within the tournament.
// The results feed calls this on every refresh; existing documents are replaced.
// Preconditions: Receives receiver pointer for Store and the matches to persist
// Postconditions: Updates the matches collection and returns nil, or an error if it occurs
func (s *Store) StoreMatches(matches []shared.Match) error {
	for _, match := range matches {
		if match.ID == "" {
			continue
		}
		filter := bson.M{"tournament": s.Tournament, "match.matchid": match.ID}
		update := bson.M{"$set": bson.M{
			"tournament": s.Tournament,
			"match":      match,
			"kickoff":    match.Kickoff,
		}}
		opts := options.Update().SetUpsert(true)

		if _, err := s.Collections.Matches.UpdateOne(context.TODO(), filter, update, opts); err != nil {
			return fmt.Errorf("failed to upsert match %s: %w", match.ID, err)
		}
	}
	return nil
}
