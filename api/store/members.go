/* members.go
 * Contains the methods for interacting with the members collection
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

// GetMembers returns every league member for the tournament
// Preconditions: Receives receiver pointer for Store
// Postconditions: Returns slice of Member or an error if it occurs
func (s *Store) GetMembers() ([]shared.Member, error) {
	cursor, err := s.Collections.Members.Find(context.TODO(), bson.D{{Key: "tournament", Value: s.Tournament}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch members from database: %w", err)
	}
	defer cursor.Close(context.TODO())

	var docs []struct {
		Member shared.Member `bson:"member"`
	}
	if err := cursor.All(context.TODO(), &docs); err != nil {
		return nil, fmt.Errorf("failed to decode members: %w", err)
	}

	members := make([]shared.Member, 0, len(docs))
	for _, doc := range docs {
		members = append(members, doc.Member)
	}
	return members, nil
}

// UpsertMember stores or updates one member record, keyed by member id
// Preconditions: Receives receiver pointer for Store and the member to persist
// Postconditions: Updates the members collection and returns nil, or an error if it occurs
func (s *Store) UpsertMember(member shared.Member) error {
	if member.ID == "" {
		return fmt.Errorf("member id cannot be empty")
	}

	filter := bson.M{"tournament": s.Tournament, "member.memberid": member.ID}
	update := bson.M{"$set": bson.M{
		"tournament": s.Tournament,
		"member":     member,
	}}
	opts := options.Update().SetUpsert(true)

	if _, err := s.Collections.Members.UpdateOne(context.TODO(), filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert member %s: %w", member.ID, err)
	}
	return nil
}
