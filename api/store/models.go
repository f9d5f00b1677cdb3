/* models.go
 * This file contains the structs that relate to DB documents which are not already part of
 * the shared domain model
 * Authors: Zachary Bower
 */

package store

import (
	"time"

	"prediction-league/api/shared"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Leaderboard is the persisted snapshot of the computed leaderboard for one tournament
type Leaderboard struct {
	Id         primitive.ObjectID        `bson:"_id,omitempty"`
	Tournament string                    `bson:"tournament,omitempty"`
	UpdatedAt  time.Time                 `bson:"updatedat,omitempty"`
	Entries    []shared.LeaderboardEntry `bson:"entries,omitempty"`
}

// TournamentSettings holds the per-tournament operator inputs that the engine
// consumes as plain parameters: the accepted best-third qualifier codes, the
// final group standings, and the knockout-activation mode/override
type TournamentSettings struct {
	Id           primitive.ObjectID     `bson:"_id,omitempty"`
	Tournament   string                 `bson:"tournament,omitempty"`
	BestThirds   []string               `bson:"bestthirds,omitempty"`
	Standings    []shared.GroupStanding `bson:"standings,omitempty"`
	Mode         string                 `bson:"mode,omitempty"`
	DemoOverride *bool                  `bson:"demooverride,omitempty"`
}
