/* models.go
 * This file contain the structs and helper functions that are used by api consumers
 * Authors: Zachary Bower
 */

package api

import (
	"fmt"
	"strconv"
	"strings"
)

// PickSubmission is one pick as entered by a user through the bot or the web API,
// before any validation. Score uses the "H-A" form, e.g. "2-1". Advancing is the team
// the user expects to go through and is only meaningful for tied knockout scorelines
type PickSubmission struct {
	MatchID   string
	Score     string
	Advancing string
}

// parseScoreline splits a "H-A" scoreline into its two scores
// Preconditions: Receives the raw scoreline string
// Postconditions: Returns both scores, or an error if the format is invalid
func parseScoreline(score string) (int, int, error) {
	parts := strings.Split(strings.TrimSpace(score), "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid scoreline '%s', expected the form '2-1'", score)
	}

	home, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || home < 0 {
		return 0, 0, fmt.Errorf("invalid home score '%s'", parts[0])
	}
	away, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || away < 0 {
		return 0, 0, fmt.Errorf("invalid away score '%s'", parts[1])
	}
	return home, away, nil
}
