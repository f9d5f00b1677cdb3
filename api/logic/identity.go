/* identity.go
 * Contains the identity resolution logic: mapping the aliases a member may carry
 * (internal id, email, auth uid) onto one canonical key set so picks recorded under
 * different id schemes merge correctly
 * Authors: Zachary Bower
 */

package logic

import (
	"strings"

	"prediction-league/api/shared"
)

// NormalizeKey produces the canonical form of a single identity alias.
// Preconditions: Receives a raw alias string
// Postconditions: Returns the trimmed, lowercased alias, or "" if the input is blank
func NormalizeKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// MemberKeys resolves the canonical key set for one member record.
// Empty alias fields are omitted, never coerced to placeholder strings, so a
// record with no identity information resolves to an empty set and can never
// match during merge.
// Preconditions: Receives a Member
// Postconditions: Returns the deduplicated key set in a fixed order (id, email, auth uid)
func MemberKeys(m shared.Member) []string {
	return buildKeySet(m.ID, m.Email, m.AuthUID)
}

// ViewerKeys resolves the canonical key set for the caller-supplied viewer
// identity, for comparison against member key sets.
func ViewerKeys(v shared.Viewer) []string {
	return buildKeySet(v.UserID, v.Email, v.AuthUID)
}

// KeysContain reports whether a recorded user id belongs to the given key set.
// Matching is an exact, case-insensitive comparison on normalized keys; there
// is no fuzzy matching on identities.
func KeysContain(keys []string, userID string) bool {
	normalized := NormalizeKey(userID)
	if normalized == "" {
		return false
	}
	for _, key := range keys {
		if key == normalized {
			return true
		}
	}
	return false
}

// KeySetsIntersect reports whether two key sets share at least one key.
// Lookups across id schemes compare key-set intersection, never a single key
// equality, so a member is found under any of their aliases.
func KeySetsIntersect(a []string, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	seen := make(map[string]bool, len(a))
	for _, key := range a {
		seen[key] = true
	}
	for _, key := range b {
		if seen[key] {
			return true
		}
	}
	return false
}

// buildKeySet normalizes the given aliases, drops blanks and deduplicates
// while preserving the first-seen order for determinism
func buildKeySet(aliases ...string) []string {
	var keys []string
	seen := make(map[string]bool, len(aliases))
	for _, alias := range aliases {
		key := NormalizeKey(alias)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		keys = append(keys, key)
	}
	return keys
}
