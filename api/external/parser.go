/* parser.go
 * Contains the conversion from feed DTOs to the shared domain model. The feed is not
 * fully trusted: unknown stages and statuses drop the fixture or the field rather than
 * guessing, matching how the engine treats dirty data
 * Authors: Zachary Bower
 */

package external

import (
	"strconv"
	"strings"
	"time"

	"prediction-league/api/shared"
)

// ParseFixtures converts feed fixtures to matches. Fixtures without a usable id or a
// recognised stage are dropped; optional fields that fail to parse are left unset.
// Preconditions: Receives the decoded feed fixtures
// Postconditions: Returns the well-typed matches; never an error
func ParseFixtures(fixtures []FeedFixture) []shared.Match {
	var matches []shared.Match
	for _, fixture := range fixtures {
		if match, ok := parseFixture(fixture); ok {
			matches = append(matches, match)
		}
	}
	return matches
}

// parseFixture converts a single feed fixture
func parseFixture(fixture FeedFixture) (shared.Match, bool) {
	id := strings.TrimSpace(fixture.ID)
	if id == "" {
		return shared.Match{}, false
	}
	stage, ok := shared.ParseStage(fixture.Stage)
	if !ok {
		return shared.Match{}, false
	}

	match := shared.Match{
		ID:    id,
		Stage: stage,
		Group: strings.ToUpper(strings.TrimSpace(fixture.Group)),
		Home:  shared.Team{Code: strings.ToUpper(fixture.Home.Code), Name: fixture.Home.Name},
		Away:  shared.Team{Code: strings.ToUpper(fixture.Away.Code), Name: fixture.Away.Name},
	}

	if status, ok := shared.ParseMatchStatus(fixture.Status); ok {
		match.Status = status
	} else {
		match.Status = shared.StatusScheduled
	}

	if kickoff, err := time.Parse(time.RFC3339, fixture.KickoffAt); err == nil {
		match.Kickoff = kickoff.UTC()
	}

	if fixture.Score != nil {
		match.HomeScore = parseScoreValue(fixture.Score.Home)
		match.AwayScore = parseScoreValue(fixture.Score.Away)
	}

	if side, ok := shared.ParseSide(fixture.Winner); ok {
		match.Winner = &side
	}
	if decided, ok := shared.ParseDecidedBy(fixture.DecidedBy); ok {
		match.DecidedBy = &decided
	}

	return match, true
}

// parseScoreValue applies the same lenient numeric parsing the engine uses for picks:
// integers, integral floats and numeric strings pass, everything else is absent
func parseScoreValue(value interface{}) *int {
	switch v := value.(type) {
	case float64:
		if v != float64(int(v)) || v < 0 {
			return nil
		}
		n := int(v)
		return &n
	case int:
		if v < 0 {
			return nil
		}
		return &v
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			return nil
		}
		return &n
	}
	return nil
}
