/* handlers.go
 * Contains testable handler methods that accept DiscordSession interface
 * Authors: Zachary Bower
 */

package bot

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"prediction-league/api/api"
	"prediction-league/api/shared"

	"github.com/bwmarrin/discordgo"
	"github.com/go-andiamo/splitter"
)

// helpMessageHandler handles the $help command with a DiscordSession interface
func (b *Bot) helpMessageHandler(session DiscordSession, message *discordgo.MessageCreate) {
	var res strings.Builder
	res.WriteString("Prediction League Bot v1.0\n")
	res.WriteString("`$details`: Get information about the tournament including name, match progress and knockout bracket state\n")
	res.WriteString("`$pick matchId score [team]`: Sets your pick for a match, e.g. `$pick qf1 2-1`. A tied knockout score needs the team you expect to advance, e.g. `$pick qf1 1-1 Argentina`\n")
	res.WriteString("There is fuzzy matching on team names, however you should try and have a close match for the best results. Names that contain two or more words need to be encase in \" (e.g. \"Saudi Arabia\")\n")
	res.WriteString("`$bracket A:NED,ECU B:ENG,WAL thirds:POL,AUS`: Sets your bracket prediction; each group takes its winner then runner-up, `thirds:` takes your best-third qualifiers\n")
	res.WriteString("`$check`: shows the current status of your picks and points per finished match\n")
	res.WriteString("`$leaderboard`: shows which users have the best picks. Ties are broken by exact scorelines predicted, then display name\n")
	res.WriteString("`$whatif matchId score [home|away]`: shows how the leaderboard would look if the match ended with that score. Nothing is saved\n")
	res.WriteString("`$upcoming`: shows the upcoming matches for the tournament with confirmed teams\n")
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// detailsHandler handles the $details command with a DiscordSession interface
func (b *Bot) detailsHandler(session DiscordSession, message *discordgo.MessageCreate) {
	info, err := b.APIPtr.GetTournamentInfo()
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An unexpected error occured")
		return
	}
	var res strings.Builder
	for i := range info {
		res.WriteString(fmt.Sprintf("%s\n", info[i]))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// setPickHandler handles the $pick command with a DiscordSession interface
func (b *Bot) setPickHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}
	res := fmt.Sprintf("%s's pick has been updated\n", user.Username)

	// Split on spaces but keep quoted team names together, e.g. "Saudi Arabia"
	spaceSplitter, _ := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	msg, _ := spaceSplitter.Split(message.Content)
	args := msg[1:]

	if len(args) < 2 {
		session.ChannelMessageSend(message.ChannelID, "Usage: `$pick matchId score [team]`, e.g. `$pick qf1 1-1 Argentina`")
		return
	}

	submission := api.PickSubmission{
		MatchID: args[0],
		Score:   args[1],
	}
	if len(args) > 2 {
		submission.Advancing = stripQuotes(strings.Join(args[2:], " "))
	}

	err := b.APIPtr.SetUserPick(user, submission)
	if err != nil {
		log.Println(err)
		res = fmt.Sprintf("An error occured setting %s's pick: %s", user.Username, err)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// setBracketHandler handles the $bracket command with a DiscordSession interface
func (b *Bot) setBracketHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}
	res := fmt.Sprintf("%s's bracket prediction has been updated\n", user.Username)

	args := strings.Fields(message.Content)[1:]
	prediction, err := parseBracketArgs(args)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Could not read that bracket: %s", err))
		return
	}

	err = b.APIPtr.SetBracketPrediction(user, prediction)
	if err != nil {
		log.Println(err)
		res = fmt.Sprintf("An error occured setting %s's bracket: %s", user.Username, err)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// checkPicksHandler handles the $check command with a DiscordSession interface
func (b *Bot) checkPicksHandler(session DiscordSession, message *discordgo.MessageCreate) {
	user := shared.User{UserID: message.Author.ID, Username: message.Author.Username}
	res, err := b.APIPtr.CheckPicks(user)
	if err != nil {
		log.Println(err)
		res = fmt.Sprintf("An error occured checking %s's picks", user.Username)
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// leaderboardHandler handles the $leaderboard command with a DiscordSession interface
func (b *Bot) leaderboardHandler(session DiscordSession, message *discordgo.MessageCreate) {
	res, err := b.APIPtr.GetLeaderboard()
	if err != nil {
		log.Println(err)
		res = "An error occurred getting the leaderboard"
	}
	session.ChannelMessageSend(message.ChannelID, res)
}

// whatIfHandler handles the $whatif command with a DiscordSession interface.
// The simulated outcome only lives for this one response; stored data is untouched
func (b *Bot) whatIfHandler(session DiscordSession, message *discordgo.MessageCreate) {
	args := strings.Fields(message.Content)[1:]
	matchID, outcome, err := parseWhatIfArgs(args)
	if err != nil {
		session.ChannelMessageSend(message.ChannelID, fmt.Sprintf("Could not read that scenario: %s", err))
		return
	}

	rows, err := b.APIPtr.ProjectLeaderboard(map[string]shared.SimulatedOutcome{matchID: outcome})
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured projecting the leaderboard")
		return
	}

	var res strings.Builder
	res.WriteString(fmt.Sprintf("If %s ends %d-%d the leaderboard would be:\n", matchID, outcome.HomeScore, outcome.AwayScore))
	for _, row := range rows {
		res.WriteString(fmt.Sprintf("%d. %s, %d pts (%+d)\n", row.ProjectedRank, row.Name, row.ProjectedPoints, row.ProjectedDelta))
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// upcomingMatchesHandler handles the $upcoming command with a DiscordSession interface
func (b *Bot) upcomingMatchesHandler(session DiscordSession, message *discordgo.MessageCreate) {
	matches, err := b.APIPtr.GetUpcomingMatches()
	if err != nil {
		log.Println(err)
		session.ChannelMessageSend(message.ChannelID, "An error occured getting upcoming matches")
		return
	}
	var res strings.Builder
	if len(matches) == 0 {
		res.WriteString("No upcoming matches")
	} else {
		res.WriteString("Upcoming matches:\n")
		for _, match := range matches {
			if strings.Contains(match, "TBD") {
				continue
			}
			res.WriteString(match)
		}
	}
	session.ChannelMessageSend(message.ChannelID, res.String())
}

// newMessageHandler routes messages to appropriate handlers with a DiscordSession interface
// botUserID is the bot's user ID to prevent self-responses
func (b *Bot) newMessageHandler(session DiscordSession, message *discordgo.MessageCreate, botUserID string) {
	// Prevent bot from responding to its own messages
	if message.Author.ID == botUserID {
		return
	}

	// Route to appropriate handler
	switch {
	case startsWith(message.Content, "$help"):
		b.helpMessageHandler(session, message)

	case startsWith(message.Content, "$details"):
		b.detailsHandler(session, message)

	case startsWith(message.Content, "$pick"):
		b.setPickHandler(session, message)

	case startsWith(message.Content, "$bracket"):
		b.setBracketHandler(session, message)

	case startsWith(message.Content, "$check"):
		b.checkPicksHandler(session, message)

	case startsWith(message.Content, "$leaderboard"):
		b.leaderboardHandler(session, message)

	case startsWith(message.Content, "$whatif"):
		b.whatIfHandler(session, message)

	case startsWith(message.Content, "$upcoming"):
		b.upcomingMatchesHandler(session, message)
	}
}

// parseBracketArgs reads `$bracket` arguments of the form `A:NED,ECU` for groups and
// `thirds:POL,AUS` for the best-third qualifiers
func parseBracketArgs(args []string) (shared.BracketPrediction, error) {
	if len(args) == 0 {
		return shared.BracketPrediction{}, fmt.Errorf("no groups given, e.g. `$bracket A:NED,ECU thirds:POL,AUS`")
	}

	prediction := shared.BracketPrediction{Groups: make(map[string]shared.GroupPrediction)}
	for _, arg := range args {
		key, value, found := strings.Cut(arg, ":")
		if !found || key == "" || value == "" {
			return shared.BracketPrediction{}, fmt.Errorf("'%s' is not in the form group:teams", arg)
		}

		teams := strings.Split(value, ",")
		if strings.EqualFold(key, "thirds") {
			prediction.BestThirds = append(prediction.BestThirds, teams...)
			continue
		}

		if len(teams) != 2 {
			return shared.BracketPrediction{}, fmt.Errorf("group %s needs exactly a winner and a runner-up", key)
		}
		prediction.Groups[strings.ToUpper(key)] = shared.GroupPrediction{
			Winner:   teams[0],
			RunnerUp: teams[1],
		}
	}
	return prediction, nil
}

// parseWhatIfArgs reads `$whatif` arguments: a match id, a scoreline and optionally
// the side advancing on a tie-break
func parseWhatIfArgs(args []string) (string, shared.SimulatedOutcome, error) {
	if len(args) < 2 {
		return "", shared.SimulatedOutcome{}, fmt.Errorf("usage is `$whatif matchId score [home|away]`")
	}

	parts := strings.Split(args[1], "-")
	if len(parts) != 2 {
		return "", shared.SimulatedOutcome{}, fmt.Errorf("invalid scoreline '%s', expected the form '2-1'", args[1])
	}
	home, err := strconv.Atoi(parts[0])
	if err != nil || home < 0 {
		return "", shared.SimulatedOutcome{}, fmt.Errorf("invalid home score '%s'", parts[0])
	}
	away, err := strconv.Atoi(parts[1])
	if err != nil || away < 0 {
		return "", shared.SimulatedOutcome{}, fmt.Errorf("invalid away score '%s'", parts[1])
	}

	outcome := shared.SimulatedOutcome{HomeScore: home, AwayScore: away}
	if len(args) > 2 {
		side, ok := shared.ParseSide(args[2])
		if !ok {
			return "", shared.SimulatedOutcome{}, fmt.Errorf("advancing side must be 'home' or 'away', got '%s'", args[2])
		}
		outcome.Advancing = &side
	}
	return args[0], outcome, nil
}

// stripQuotes removes the straight and typographic double quotes the splitter keeps
// around multi-word team names
func stripQuotes(s string) string {
	s = strings.ReplaceAll(s, "\"", "")
	s = strings.ReplaceAll(s, "“", "")
	s = strings.ReplaceAll(s, "”", "")
	return s
}
