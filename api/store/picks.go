/* picks.go
 * Contains the methods for interacting with the picks collection. Pick documents are
 * read back exactly as stored (either storage generation); writing always produces the
 * current array shape, so legacy documents migrate on their next write
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"prediction-league/api/logic"
	"prediction-league/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetPickDocs returns every raw pick document for the tournament, shapes untouched
// Preconditions: Receives receiver pointer for Store
// Postconditions: Returns slice of RawPickDoc or an error if it occurs
func (s *Store) GetPickDocs() ([]shared.RawPickDoc, error) {
	cursor, err := s.Collections.Picks.Find(context.TODO(), bson.D{{Key: "tournament", Value: s.Tournament}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pick documents from database: %w", err)
	}
	defer cursor.Close(context.TODO())

	var docs []shared.RawPickDoc
	if err := cursor.All(context.TODO(), &docs); err != nil {
		return nil, fmt.Errorf("failed to decode pick documents: %w", err)
	}
	return docs, nil
}

// GetUserPickDoc returns one user's raw pick document
// Preconditions: Receives receiver pointer for Store and the user id
// Postconditions: Returns the RawPickDoc if it exists, or an error if it occurs
func (s *Store) GetUserPickDoc(userID string) (shared.RawPickDoc, error) {
	var doc shared.RawPickDoc
	err := s.Collections.Picks.FindOne(context.TODO(), bson.M{"tournament": s.Tournament, "userid": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return shared.RawPickDoc{}, err
		}
		return shared.RawPickDoc{}, fmt.Errorf("error fetching pick document from db: %w", err)
	}
	return doc, nil
}

// StoreUserPick stores or replaces one pick inside the user's pick document. The
// existing document is normalized first, so a legacy map-shaped document comes out
// as a well-typed array after the write.
// Preconditions: Receives receiver pointer for Store and the pick to persist; the pick
// carries its own user id, match id and update timestamp
// Postconditions: Updates the picks collection and returns nil, or an error if it occurs
func (s *Store) StoreUserPick(pick shared.Pick) error {
	if pick.UserID == "" || pick.MatchID == "" {
		return fmt.Errorf("pick user id and match id cannot be empty")
	}

	// Attempt to find an existing document
	existing, err := s.GetUserPickDoc(pick.UserID)
	notFound := errors.Is(err, mongo.ErrNoDocuments)
	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing pick document failed: %w", err)
	}

	var picks []shared.Pick
	if !notFound {
		picks = logic.NormalizePickDocs([]shared.RawPickDoc{existing})
	}

	replaced := false
	for i := range picks {
		if picks[i].MatchID == pick.MatchID {
			picks[i] = pick
			replaced = true
			break
		}
	}
	if !replaced {
		picks = append(picks, pick)
	}

	filter := bson.M{"tournament": s.Tournament, "userid": pick.UserID}
	update := bson.M{"$set": bson.M{
		"tournament": s.Tournament,
		"userid":     pick.UserID,
		"picks":      picks,
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := s.Collections.Picks.UpdateOne(context.TODO(), filter, update, opts); err != nil {
		return fmt.Errorf("failed to store pick for user %s: %w", pick.UserID, err)
	}
	return nil
}

// StoreUserPickSet replaces one user's whole pick document with the given canonical
// pick set. Used by the sync path after merging server and locally cached picks.
// Preconditions: Receives receiver pointer for Store, the user id and the full pick set
// Postconditions: Updates the picks collection and returns nil, or an error if it occurs
func (s *Store) StoreUserPickSet(userID string, picks []shared.Pick) error {
	if userID == "" {
		return fmt.Errorf("user id cannot be empty")
	}

	filter := bson.M{"tournament": s.Tournament, "userid": userID}
	update := bson.M{"$set": bson.M{
		"tournament": s.Tournament,
		"userid":     userID,
		"picks":      picks,
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := s.Collections.Picks.UpdateOne(context.TODO(), filter, update, opts); err != nil {
		return fmt.Errorf("failed to store pick set for user %s: %w", userID, err)
	}
	return nil
}
