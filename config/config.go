/* config.go
 * Contains the loader and validation for the scoring rules file. Rules live in a YAML
 * file next to the binary so leagues can tune point values without a rebuild
 * Authors: Zachary Bower
 */

package config

import (
	"fmt"
	"os"

	"prediction-league/api/shared"

	"gopkg.in/yaml.v3"
)

// DefaultScoringConfig returns the rule set used when no config file is supplied.
// Exact scoreline with both scores right is worth the most, a correct result is the
// baseline, and tie-break winner points only apply in the knockout rounds
func DefaultScoringConfig() shared.ScoringConfig {
	knockout := shared.StageRules{ExactScoreBoth: 5, ExactScoreOne: 2, Result: 3, KnockoutWinner: 2}
	cfg := shared.ScoringConfig{
		Group:    shared.StageRules{ExactScoreBoth: 5, ExactScoreOne: 2, Result: 3},
		Knockout: make(map[shared.Stage]shared.StageRules),
		Bracket:  shared.BracketRules{GroupWinner: 3, GroupRunnerUp: 2, BestThird: 1},
	}
	for _, stage := range shared.KnockoutStages {
		cfg.Knockout[stage] = knockout
	}
	return cfg
}

// LoadScoringConfig reads a scoring config from the given YAML file and validates it.
// Preconditions: Receives the path to the config file
// Postconditions: Returns the parsed config, or an error if the file is missing,
// malformed or fails validation
func LoadScoringConfig(path string) (shared.ScoringConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return shared.ScoringConfig{}, fmt.Errorf("failed to read scoring config: %w", err)
	}

	var cfg shared.ScoringConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return shared.ScoringConfig{}, fmt.Errorf("failed to parse scoring config: %w", err)
	}

	if err := ValidateScoringConfig(cfg); err != nil {
		return shared.ScoringConfig{}, err
	}
	return cfg, nil
}

// ValidateScoringConfig checks a scoring config for holes the engine would otherwise
// only surface mid-scoring: missing knockout stages, unknown stages and negative values.
// A zero value is legal and disables that rule
func ValidateScoringConfig(cfg shared.ScoringConfig) error {
	if err := validateStageRules("group", cfg.Group); err != nil {
		return err
	}

	for stage, rules := range cfg.Knockout {
		if !stage.IsKnockout() {
			return fmt.Errorf("scoring config contains rules for non-knockout stage '%s'", stage)
		}
		if err := validateStageRules(string(stage), rules); err != nil {
			return err
		}
	}

	// Every knockout stage needs rules, otherwise scoring fails as soon as that stage
	// has a finished match
	for _, stage := range shared.KnockoutStages {
		if _, ok := cfg.Knockout[stage]; !ok {
			return fmt.Errorf("scoring config is missing rules for stage '%s'", stage)
		}
	}

	if cfg.Bracket.GroupWinner < 0 || cfg.Bracket.GroupRunnerUp < 0 || cfg.Bracket.BestThird < 0 {
		return fmt.Errorf("bracket rules cannot contain negative point values")
	}
	return nil
}

// validateStageRules rejects negative point values for a single stage
func validateStageRules(name string, rules shared.StageRules) error {
	if rules.ExactScoreBoth < 0 || rules.ExactScoreOne < 0 || rules.Result < 0 || rules.KnockoutWinner < 0 {
		return fmt.Errorf("rules for stage '%s' cannot contain negative point values", name)
	}
	return nil
}
