/* teams.go
 * Contains the logic for matching user-entered team names against the known teams.
 * Fuzzy matching applies to team names only; identity keys are always matched exactly
 * Authors: Zachary Bower
 */

package logic

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ResolveTeamName matches one user-entered team name against the candidate team
// names, tolerating partial input ("nether" for "Netherlands").
// Preconditions: Receives the raw input and the candidate display names
// Postconditions: Returns the matching candidate and true, or "" and false when nothing matches
func ResolveTeamName(input string, candidates []string) (string, bool) {
	lowerInput := strings.ToLower(strings.TrimSpace(input))
	if lowerInput == "" {
		return "", false
	}

	lookup := make(map[string]string, len(candidates))
	lowered := make([]string, 0, len(candidates))
	for _, name := range candidates {
		lower := strings.ToLower(name)
		lookup[lower] = name
		lowered = append(lowered, lower)
	}

	ranked := fuzzy.RankFind(lowerInput, lowered)
	if len(ranked) == 0 {
		return "", false
	}

	// Prefer an exact match when the fuzzy search returns several candidates,
	// otherwise take the first ranked one
	best := ""
	for _, result := range ranked {
		if result.Target == lowerInput {
			best = result.Target
			break
		}
	}
	if best == "" {
		best = ranked[0].Target
	}
	return lookup[best], true
}

// CheckTeamNames validates a batch of user-entered team names against the valid
// names, returning the resolved names and the inputs that matched nothing
func CheckTeamNames(inputs []string, validTeams []string) ([]string, []string) {
	var resolved []string
	var invalid []string
	for _, input := range inputs {
		name, ok := ResolveTeamName(input, validTeams)
		if !ok {
			invalid = append(invalid, input)
			continue
		}
		resolved = append(resolved, name)
	}
	return resolved, invalid
}
