/* predictions.go
 * Contains the methods for interacting with the bracket_predictions collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"prediction-league/api/shared"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetBracketPredictions returns every bracket prediction for the tournament
// Preconditions: Receives receiver pointer for Store
// Postconditions: Returns slice of BracketPrediction or an error if it occurs
func (s *Store) GetBracketPredictions() ([]shared.BracketPrediction, error) {
	cursor, err := s.Collections.Predictions.Find(context.TODO(), bson.D{{Key: "tournament", Value: s.Tournament}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch bracket predictions from database: %w", err)
	}
	defer cursor.Close(context.TODO())

	var docs []struct {
		Prediction shared.BracketPrediction `bson:"prediction"`
	}
	if err := cursor.All(context.TODO(), &docs); err != nil {
		return nil, fmt.Errorf("failed to decode bracket predictions: %w", err)
	}

	predictions := make([]shared.BracketPrediction, 0, len(docs))
	for _, doc := range docs {
		predictions = append(predictions, doc.Prediction)
	}
	return predictions, nil
}

// StoreBracketPrediction stores or updates one user's bracket prediction
// Preconditions: Receives receiver pointer for Store and the prediction to persist
// Postconditions: Updates the bracket_predictions collection and returns nil, or an error
// if it occurs
func (s *Store) StoreBracketPrediction(prediction shared.BracketPrediction) error {
	if prediction.UserID == "" {
		return fmt.Errorf("bracket prediction user id cannot be empty")
	}

	// Attempt to find an existing document
	filter := bson.M{"tournament": s.Tournament, "prediction.userid": prediction.UserID}
	err := s.Collections.Predictions.FindOne(context.TODO(), filter).Err()
	notFound := errors.Is(err, mongo.ErrNoDocuments)
	if err != nil && !notFound {
		return fmt.Errorf("lookup for existing bracket prediction failed: %w", err)
	}

	update := bson.M{"$set": bson.M{
		"tournament": s.Tournament,
		"prediction": prediction,
	}}

	if notFound {
		opts := options.Update().SetUpsert(true)
		if _, err := s.Collections.Predictions.UpdateOne(context.TODO(), filter, update, opts); err != nil {
			return fmt.Errorf("failed to insert new bracket prediction: %w", err)
		}
		return nil
	}

	if _, err := s.Collections.Predictions.UpdateOne(context.TODO(), filter, update); err != nil {
		return fmt.Errorf("failed to update existing bracket prediction: %w", err)
	}
	return nil
}
