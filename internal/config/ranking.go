package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RankingConfig represents popularity scoring and search tuning configuration.
type RankingConfig struct {
	Ranking struct {
		Weights struct {
			Like    float64 `yaml:"like_weight"`
			Comment float64 `yaml:"comment_weight"`
			View    float64 `yaml:"view_weight"`
		} `yaml:"weights"`
		Search struct {
			PopularityBoost float64 `yaml:"popularity_boost"`
			MinSimilarity   float64 `yaml:"min_similarity"`
		} `yaml:"search"`
	} `yaml:"ranking"`
}

// DefaultRankingConfig returns the ranking configuration used when no file
// is provided: likes weigh heaviest, views lightest.
func DefaultRankingConfig() *RankingConfig {
	var c RankingConfig
	c.Ranking.Weights.Like = 0.8
	c.Ranking.Weights.Comment = 0.4
	c.Ranking.Weights.View = 0.1
	c.Ranking.Search.PopularityBoost = 1.0
	c.Ranking.Search.MinSimilarity = 0.1
	return &c
}

// LoadRankingConfig loads ranking configuration from a YAML file.
// The path parameter is expected to come from a trusted source (command-line argument or hardcoded default).
func LoadRankingConfig(path string) (*RankingConfig, error) {
	// #nosec G304 -- path is provided by trusted source (CLI arg or config), not user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config RankingConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validateRankingConfig(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// validateRankingConfig validates the loaded configuration.
func validateRankingConfig(config *RankingConfig) error {
	w := config.Ranking.Weights
	if w.Like < 0 || w.Comment < 0 || w.View < 0 {
		return fmt.Errorf("ranking weights must not be negative")
	}
	if w.Like == 0 && w.Comment == 0 && w.View == 0 {
		return fmt.Errorf("at least one ranking weight must be positive")
	}

	s := config.Ranking.Search
	if s.PopularityBoost < 0 {
		return fmt.Errorf("popularity_boost must not be negative")
	}
	if s.MinSimilarity < 0 || s.MinSimilarity > 1 {
		return fmt.Errorf("min_similarity must be between 0.0 and 1.0")
	}

	return nil
}
