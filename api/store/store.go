/* store.go
 * Contains the store struct and NewStore function. The methods for this package are split
 * across files per collection: matches, members, picks, predictions, settings and
 * leaderboard. Each file contains the methods for interacting with that part of the database
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Tournament  string
	Collections struct {
		Members     *mongo.Collection
		Matches     *mongo.Collection
		Picks       *mongo.Collection
		Predictions *mongo.Collection
		Settings    *mongo.Collection
		Leaderboard *mongo.Collection
	}
}

// Function for initialising Store. Connects to Mongo and binds the collection handles
// Preconditions: Receives strings containing the following: dbName, mongoURI and tournament
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(dbName string, mongoURI string, tournament string) (*Store, error) {
	if dbName == "" || tournament == "" {
		return nil, fmt.Errorf("dbName and tournament cannot be empty")
	}

	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	s := &Store{
		Client:     client,
		Database:   db,
		Tournament: tournament,
	}
	s.Collections.Members = db.Collection("members")
	s.Collections.Matches = db.Collection("matches")
	s.Collections.Picks = db.Collection("picks")
	s.Collections.Predictions = db.Collection("bracket_predictions")
	s.Collections.Settings = db.Collection("tournament_settings")
	s.Collections.Leaderboard = db.Collection("leaderboard")

	return s, nil
}
