/* main.go
 * The "main" method for running the prediction league bot and web server
 * Usage: go run main.go -tournament="<slug>" -addr="<addr>"
 * Authors: Zachary Bower
 */

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	api "prediction-league/api/api"
	"prediction-league/api/store"
	"prediction-league/bot"
	"prediction-league/config"
	"prediction-league/web"

	"github.com/joho/godotenv"
)

func main() {
	err := godotenv.Load()

	//Flags
	dbPtr := flag.String("db", "predictionleague", "Database name")
	tournamentPtr := flag.String("tournament", "worldcup2026", "Tournament slug, e.g. worldcup2026")
	feedPtr := flag.String("feed", "https://api.football-feed.example.com", "Fixtures feed base URL")
	addrPtr := flag.String("addr", ":8080", "Address for the HTTP server to listen on")
	configPtr := flag.String("config", "", "Path to a scoring rules YAML file; built-in defaults are used when empty")
	modePtr := flag.String("mode", "", "Tournament mode (live or demo); leaves stored settings untouched when empty")
	overridePtr := flag.String("demoOverride", "", "Force the knockout bracket on or off in demo mode: takes true or false as argument")
	testPtr := flag.String("test", "false", "Use main or test bot: takes true or false as argument")

	flag.Parse()

	if err != nil {
		log.Fatal("Error loading .env file")
	}

	var discordToken string
	if *testPtr == "false" { //Load production bot token
		discordToken = os.Getenv("DISCORD_PROD_TOKEN")
	} else if *testPtr == "true" {
		discordToken = os.Getenv("DISCORD_BETA_TOKEN")
	} else {
		fmt.Println("Invalid \"test\" flag. Should be true or false")
	}

	// Scoring rules: explicit file when given, defaults otherwise
	scoring := config.DefaultScoringConfig()
	if *configPtr != "" {
		scoring, err = config.LoadScoringConfig(*configPtr)
		if err != nil {
			log.Fatalf("failed to load scoring config: %v", err)
		}
	}

	leagueAPI, err := api.NewAPI(*dbPtr, os.Getenv("MONGO_PROD_URI"), *tournamentPtr, *feedPtr, scoring)
	if err != nil {
		log.Fatalf("failed to initialize API: %v", err)
	}
	defer func() {
		if err = leagueAPI.Store.GetClient().Disconnect(context.TODO()); err != nil {
			panic(err)
		}
	}()

	// Apply operator-set mode and demo override before anything reads them
	if err := applyModeFlags(leagueAPI.Store, *modePtr, *overridePtr); err != nil {
		log.Fatalf("failed to apply mode flags: %v", err)
	}

	// A feed outage should not stop the bot from serving stored data
	if err := leagueAPI.RefreshMatches(context.TODO()); err != nil {
		log.Println("initial fixture refresh failed:", err)
	}

	// Web server handles the JSON endpoints and the results webhook
	go func() {
		if err := web.Start(web.Config{Addr: *addrPtr, API: leagueAPI}); err != nil {
			log.Fatalf("web server failed: %v", err)
		}
	}()

	//Init bot and run
	b, err := bot.NewBot(discordToken, leagueAPI)
	if err != nil {
		log.Fatalf("failed to initialize bot: %v", err)
	}
	if err := b.Run(); err != nil {
		log.Fatalf("bot stopped: %v", err)
	}
}

// applyModeFlags persists the -mode and -demoOverride flags into the tournament
// settings. Empty flags leave the stored values untouched.
func applyModeFlags(s store.Interface, mode string, override string) error {
	if mode == "" && override == "" {
		return nil
	}

	settings, err := s.GetTournamentSettings()
	if err != nil {
		return err
	}

	if mode != "" {
		settings.Mode = mode
	}
	if override != "" {
		value, err := convertStrToBool(override)
		if err != nil {
			return fmt.Errorf("invalid demoOverride flag: %w", err)
		}
		settings.DemoOverride = &value
	}

	return s.StoreTournamentSettings(settings)
}
