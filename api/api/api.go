/* api.go
 * This file contains the public methods for interacting with this package. For consistent results, fuctions should
 * only be called from this file, not the sub packages for logic and store. For details about functionality see `api.md`
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"prediction-league/api/external"
	"prediction-league/api/logic"
	"prediction-league/api/shared"
	"prediction-league/api/store"

	"go.mongodb.org/mongo-driver/mongo"
)

// API provides methods for interacting with the prediction league data layer
type API struct {
	Store   store.Interface
	Config  shared.ScoringConfig
	FeedURL string
}

// NewAPI creates a new API instance with the provided configuration
func NewAPI(dbName string, mongoURI string, tournament string, feedURL string, cfg shared.ScoringConfig) (*API, error) {
	if dbName == "" || tournament == "" {
		return nil, fmt.Errorf("dbName and tournament are required")
	}

	s, err := store.NewStore(dbName, mongoURI, tournament)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &API{
		Store:   s,
		Config:  cfg,
		FeedURL: feedURL,
	}, nil
}

// RefreshMatches fetches the tournament fixtures from the external feed and stores
// them in the DB. Needs to be run before other functions in this package will work properly.
// It receives receiver pointer to API and returns nil, or an error if it occurs.
func (a *API) RefreshMatches(ctx context.Context) error {
	matches, err := external.FetchFixtures(ctx, a.FeedURL, os.Getenv("FEED_API_KEY"), a.Store.GetTournament())
	if err != nil {
		return err
	}

	err = a.Store.StoreMatches(matches)
	if err != nil {
		return err
	}
	return nil
}

// SetUserPick contains the logic to validate and set a user pick in the DB.
// It receives a user struct that contains userID and userName, and the raw submission
// as entered by the user.
// It updates the user's picks in the database, or returns an error if it occurs.
func (a *API) SetUserPick(user shared.User, submission PickSubmission) error {
	matches, err := a.Store.GetMatches()
	if err != nil {
		return err
	}

	match, err := findMatch(matches, submission.MatchID)
	if err != nil {
		return err
	}
	if match.Finished() {
		return fmt.Errorf("match '%s' has already finished, picks are locked", match.ID)
	}

	home, away, err := parseScoreline(submission.Score)
	if err != nil {
		return err
	}

	pick := shared.Pick{
		UserID:    logic.NormalizeKey(user.UserID),
		MatchID:   match.ID,
		HomeScore: &home,
		AwayScore: &away,
		UpdatedAt: time.Now().UTC(),
	}

	if submission.Advancing != "" {
		side, err := resolveAdvancingSide(match, submission.Advancing)
		if err != nil {
			return err
		}
		pick.Advancing = &side
	}

	// A tied knockout scoreline is meaningless without the team going through
	if match.Stage.IsKnockout() && home == away && pick.Advancing == nil {
		return fmt.Errorf("a tied knockout pick needs the advancing team, e.g. '$pick %s %d-%d %s'", match.ID, home, away, match.Home.Name)
	}

	// Keep the member roster in sync with whoever submits picks, so leaderboard
	// identity resolution can find them later
	err = a.Store.UpsertMember(shared.Member{ID: logic.NormalizeKey(user.UserID), Name: user.Username})
	if err != nil {
		return err
	}

	err = a.Store.StoreUserPick(pick)
	if err != nil {
		return err
	}
	return nil
}

// SyncUserPicks merges a locally cached pick set into the server-stored one and
// persists the result. Strictly newer local picks win; ties keep the server pick.
// It receives a user struct and the local picks, and returns the merged canonical set.
func (a *API) SyncUserPicks(user shared.User, local []shared.Pick) ([]shared.Pick, error) {
	userID := logic.NormalizeKey(user.UserID)
	if userID == "" {
		return nil, fmt.Errorf("user id cannot be empty")
	}

	var server []shared.Pick
	doc, err := a.Store.GetUserPickDoc(userID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}
	if err == nil {
		server = logic.NormalizePickDocs([]shared.RawPickDoc{doc})
	}

	// Re-attribute the local picks to the canonical user id before merging
	for i := range local {
		local[i].UserID = userID
	}

	merged := logic.MergePickSets(server, local)
	err = a.Store.StoreUserPickSet(userID, merged)
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// SetBracketPrediction validates and stores a user's bracket prediction.
// It receives a user struct and the prediction, and returns nil or an error if it occurs.
func (a *API) SetBracketPrediction(user shared.User, prediction shared.BracketPrediction) error {
	userID := logic.NormalizeKey(user.UserID)
	if userID == "" {
		return fmt.Errorf("user id cannot be empty")
	}

	// Check for duplicate best-third entries; duplicates would silently score once
	// anyway but the user almost certainly made a typo
	seen := make(map[string]bool)
	for _, code := range prediction.BestThirds {
		key := logic.NormalizeKey(code)
		if seen[key] {
			return fmt.Errorf("'%s' entered multiple times, stored prediction was not updated", code)
		}
		seen[key] = true
	}

	for group, pred := range prediction.Groups {
		if pred.Winner == "" || pred.RunnerUp == "" {
			return fmt.Errorf("group %s needs both a winner and a runner-up", group)
		}
		if logic.NormalizeKey(pred.Winner) == logic.NormalizeKey(pred.RunnerUp) {
			return fmt.Errorf("group %s winner and runner-up cannot be the same team", group)
		}
	}

	prediction.UserID = userID
	prediction.UpdatedAt = time.Now().UTC()

	err := a.Store.UpsertMember(shared.Member{ID: userID, Name: user.Username})
	if err != nil {
		return err
	}

	err = a.Store.StoreBracketPrediction(prediction)
	if err != nil {
		return err
	}
	return nil
}

// CheckPicks contains the logic required to report on a user's picks.
// It receives a user struct and receiver pointer to api.
// It returns a string containing the state of the user's picks, or an error if it occurs.
func (a *API) CheckPicks(user shared.User) (string, error) {
	matches, err := a.Store.GetMatches()
	if err != nil {
		return "", err
	}

	picks, err := a.canonicalPicks()
	if err != nil {
		return "", err
	}

	member, err := a.memberForUser(user)
	if err != nil {
		return "", err
	}

	breakdowns, err := logic.MemberPickBreakdowns(member, matches, picks, a.Config)
	if err != nil {
		return "", err
	}
	if len(breakdowns) == 0 {
		return "You have no picks stored for this tournament", nil
	}

	var response strings.Builder
	response.WriteString(fmt.Sprintf("Picks for %s:\n", member.Name))
	total := 0
	for _, b := range breakdowns {
		if b.Scored {
			total += b.Points.Total()
			response.WriteString(fmt.Sprintf("- %s %d-%d %s: predicted %s (%d pts)\n",
				b.Match.Home.Name, *b.Match.HomeScore, *b.Match.AwayScore, b.Match.Away.Name,
				formatPick(b.Pick, b.Match), b.Points.Total()))
		} else {
			response.WriteString(fmt.Sprintf("- %s vs %s: predicted %s (pending)\n",
				b.Match.Home.Name, b.Match.Away.Name, formatPick(b.Pick, b.Match)))
		}
	}
	response.WriteString(fmt.Sprintf("Total: %d pts\n", total))
	return response.String(), nil
}

// GenerateLeaderboard contains the logic required to generate a leaderboard.
// Preconditions: Receives receiver pointer to api
// Postconditions: Generates the leaderboard, updates it in the DB and returns nil, or returns an error if it occurs
func (a *API) GenerateLeaderboard() error {
	entries, err := a.Leaderboard()
	if err != nil {
		return err
	}

	leaderboard := store.Leaderboard{
		Tournament: a.Store.GetTournament(),
		UpdatedAt:  time.Now().UTC(),
		Entries:    entries,
	}

	err = a.Store.StoreLeaderboard(leaderboard)
	if err != nil {
		return err
	}
	return nil
}

// Leaderboard computes fresh ranked leaderboard entries from current DB state.
// Preconditions: Receives receiver pointer to api
// Postconditions: Returns the ranked entries, or an error if it occurs
func (a *API) Leaderboard() ([]shared.LeaderboardEntry, error) {
	members, matches, picks, err := a.gatherScoringInputs()
	if err != nil {
		return nil, err
	}

	brackets, err := a.Store.GetBracketPredictions()
	if err != nil {
		return nil, err
	}

	settings, err := a.Store.GetTournamentSettings()
	if err != nil {
		return nil, err
	}

	return logic.BuildLeaderboard(members, matches, picks, brackets, a.Config, settings.BestThirds, settings.Standings)
}

// GetLeaderboard fetches the stored leaderboard from the db and generates a response string
// Preconditions: Receives receiver pointer to api
// Postconditions: Returns a string with the summary of the tournament leaderboard
func (a *API) GetLeaderboard() (string, error) {
	leaderboard, err := a.Store.FetchLeaderboardFromDB()
	if err != nil {
		return "", err
	}

	// Entries are stored ranked, but sort defensively in case an older snapshot is read back
	entries := leaderboard.Entries
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Rank < entries[j].Rank
	})

	var response strings.Builder
	response.WriteString("The users with the best picks are:\n")
	for _, entry := range entries {
		response.WriteString(fmt.Sprintf("%d. %s, %d pts (%d exact, %d result, %d knockout, %d bracket)\n",
			entry.Rank, entry.Name, entry.TotalPoints, entry.ExactPoints, entry.ResultPoints, entry.KnockoutPoints, entry.BracketPoints))
	}
	return response.String(), nil
}

// ProjectLeaderboard computes a what-if leaderboard for the given simulated outcomes.
// Stored state is never modified; the projection is recomputed from scratch each call.
// Preconditions: Receives receiver pointer to api and a map of match id to simulated outcome
// Postconditions: Returns the projected rows, or an error if it occurs
func (a *API) ProjectLeaderboard(outcomes map[string]shared.SimulatedOutcome) ([]shared.ProjectedRow, error) {
	entries, err := a.Leaderboard()
	if err != nil {
		return nil, err
	}

	members, matches, picks, err := a.gatherScoringInputs()
	if err != nil {
		return nil, err
	}

	return logic.BuildProjectedLeaderboard(entries, members, matches, picks, a.Config, outcomes)
}

// KnockoutActivation derives the knockout bracket activation state from current match
// data and the tournament settings.
// Preconditions: Receives receiver pointer to api
// Postconditions: Returns the activation decision, or an error if it occurs
func (a *API) KnockoutActivation() (logic.ActivationDecision, error) {
	matches, err := a.Store.GetMatches()
	if err != nil {
		return logic.ActivationDecision{}, err
	}

	settings, err := a.Store.GetTournamentSettings()
	if err != nil {
		return logic.ActivationDecision{}, err
	}

	mode := settings.Mode
	if mode == "" {
		mode = logic.ModeLive
	}

	input := logic.ActivationInput{
		Mode:            mode,
		DemoOverride:    settings.DemoOverride,
		GroupComplete:   groupStageComplete(matches),
		DrawReady:       knockoutDrawReady(matches),
		KnockoutStarted: knockoutStarted(matches),
	}
	return logic.ResolveKnockoutActivation(input), nil
}

// GetUpcomingMatches gets the matches that have not yet kicked off.
// It receives receiver pointer to api.
// It returns a string slice containing one formatted line per upcoming match.
func (a *API) GetUpcomingMatches() ([]string, error) {
	matches, err := a.Store.GetMatches()
	if err != nil {
		return nil, err
	}

	var upcoming []string
	for _, match := range matches {
		if match.Finished() || match.Status == shared.StatusInPlay || !match.Kickoff.After(time.Now()) {
			continue
		}
		upcoming = append(upcoming, fmt.Sprintf("- %s VS %s (%s): <t:%d>\n",
			match.Home.Name, match.Away.Name, match.Stage, match.Kickoff.Unix()))
	}
	return upcoming, nil
}

// GetTournamentInfo gets the following information about the tournament: name, match
// progress, member count and knockout activation state.
// It returns a string slice with the contents attribute : value containing the information listed above.
func (a *API) GetTournamentInfo() ([]string, error) {
	matches, err := a.Store.GetMatches()
	if err != nil {
		return nil, err
	}

	members, err := a.Store.GetMembers()
	if err != nil {
		return nil, err
	}

	decision, err := a.KnockoutActivation()
	if err != nil {
		return nil, err
	}

	finished := 0
	for _, match := range matches {
		if match.Finished() {
			finished++
		}
	}

	var values []string
	values = append(values, fmt.Sprintf("Tournament Name: %s", a.Store.GetTournament()))
	values = append(values, fmt.Sprintf("Matches played: %d of %d", finished, len(matches)))
	values = append(values, fmt.Sprintf("Registered members: %d", len(members)))
	values = append(values, fmt.Sprintf("Knockout bracket active: %t (%s)", decision.Active, decision.SourceLabel))
	return values, nil
}

// gatherScoringInputs fetches the members, matches and canonical picks the scoring
// functions consume
func (a *API) gatherScoringInputs() ([]shared.Member, []shared.Match, []shared.Pick, error) {
	members, err := a.Store.GetMembers()
	if err != nil {
		return nil, nil, nil, err
	}

	matches, err := a.Store.GetMatches()
	if err != nil {
		return nil, nil, nil, err
	}

	picks, err := a.canonicalPicks()
	if err != nil {
		return nil, nil, nil, err
	}
	return members, matches, picks, nil
}

// canonicalPicks fetches every raw pick document and normalizes both storage shapes
// into the canonical pick list
func (a *API) canonicalPicks() ([]shared.Pick, error) {
	docs, err := a.Store.GetPickDocs()
	if err != nil {
		return nil, err
	}
	return logic.NormalizePickDocs(docs), nil
}

// memberForUser resolves a chat user to a registered member via the identity key set,
// falling back to a synthetic member so unregistered users can still check their picks
func (a *API) memberForUser(user shared.User) (shared.Member, error) {
	members, err := a.Store.GetMembers()
	if err != nil {
		return shared.Member{}, err
	}

	for _, member := range members {
		if logic.KeysContain(logic.MemberKeys(member), user.UserID) {
			return member, nil
		}
	}
	return shared.Member{ID: logic.NormalizeKey(user.UserID), Name: user.Username}, nil
}

// findMatch locates a match by id, ignoring case and surrounding whitespace
func findMatch(matches []shared.Match, matchID string) (shared.Match, error) {
	want := logic.NormalizeKey(matchID)
	if want == "" {
		return shared.Match{}, fmt.Errorf("match id cannot be empty")
	}
	for _, match := range matches {
		if logic.NormalizeKey(match.ID) == want {
			return match, nil
		}
	}
	return shared.Match{}, fmt.Errorf("no match found with id '%s'", matchID)
}

// resolveAdvancingSide maps a user-entered team name to the home or away side of the
// match, using fuzzy matching so near-miss spellings still land
func resolveAdvancingSide(match shared.Match, input string) (shared.Side, error) {
	candidates := []string{match.Home.Name, match.Away.Name}
	resolved, ok := logic.ResolveTeamName(input, candidates)
	if !ok {
		return "", fmt.Errorf("'%s' does not match either team in this match (%s, %s)", input, match.Home.Name, match.Away.Name)
	}
	if resolved == match.Home.Name {
		return shared.SideHome, nil
	}
	return shared.SideAway, nil
}

// formatPick renders a pick the way the user entered it
func formatPick(pick shared.Pick, match shared.Match) string {
	score := "?"
	if pick.HomeScore != nil && pick.AwayScore != nil {
		score = fmt.Sprintf("%d-%d", *pick.HomeScore, *pick.AwayScore)
	}

	side := pick.Advancing
	if side == nil {
		side = pick.Winner
	}
	if side == nil {
		return score
	}

	team := match.Home.Name
	if *side == shared.SideAway {
		team = match.Away.Name
	}
	return fmt.Sprintf("%s (%s to advance)", score, team)
}

// groupStageComplete reports whether every group match has finished. An empty fixture
// list counts as incomplete; there is nothing to infer from
func groupStageComplete(matches []shared.Match) bool {
	groupMatches := 0
	for _, match := range matches {
		if match.Stage != shared.StageGroup {
			continue
		}
		groupMatches++
		if !match.Finished() {
			return false
		}
	}
	return groupMatches > 0
}

// knockoutDrawReady reports whether every knockout fixture has both teams assigned
func knockoutDrawReady(matches []shared.Match) bool {
	knockoutMatches := 0
	for _, match := range matches {
		if !match.Stage.IsKnockout() {
			continue
		}
		knockoutMatches++
		if teamUnassigned(match.Home) || teamUnassigned(match.Away) {
			return false
		}
	}
	return knockoutMatches > 0
}

// knockoutStarted reports whether any knockout match is in play or finished
func knockoutStarted(matches []shared.Match) bool {
	for _, match := range matches {
		if !match.Stage.IsKnockout() {
			continue
		}
		if match.Finished() || match.Status == shared.StatusInPlay {
			return true
		}
	}
	return false
}

// teamUnassigned reports whether a fixture slot is still a placeholder
func teamUnassigned(team shared.Team) bool {
	code := logic.NormalizeKey(team.Code)
	return code == "" || code == "tbd"
}
