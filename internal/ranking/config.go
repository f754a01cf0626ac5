// Package ranking scores candidates against job requirements and orders them by fit.
//
// Scoring is pure: the same job, candidate and Config always produce the same
// result. The engine never performs I/O.
package ranking

import (
	"fmt"
	"math"

	"github.com/jonathan/talentflow/internal/types"
)

// weightSumTolerance bounds how far a weight table may drift from 1.0.
const weightSumTolerance = 1e-9

// Weights is the combiner table. Entries must be non-negative and sum to 1.0.
type Weights struct {
	SkillsMatch         float64 `json:"skills_match"`
	ExperienceRelevance float64 `json:"experience_relevance"`
	EducationMatch      float64 `json:"education_match"`
	OverallFit          float64 `json:"overall_fit"`
}

// DefaultWeights returns the standard 40/30/20/10 table.
func DefaultWeights() Weights {
	return Weights{
		SkillsMatch:         0.40,
		ExperienceRelevance: 0.30,
		EducationMatch:      0.20,
		OverallFit:          0.10,
	}
}

// Map returns the weights keyed by sub-score name.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		types.SubScoreSkillsMatch:         w.SkillsMatch,
		types.SubScoreExperienceRelevance: w.ExperienceRelevance,
		types.SubScoreEducationMatch:      w.EducationMatch,
		types.SubScoreOverallFit:          w.OverallFit,
	}
}

// Validate rejects negative, non-finite or non-normalized tables.
func (w Weights) Validate() error {
	entries := []struct {
		name  string
		value float64
	}{
		{types.SubScoreSkillsMatch, w.SkillsMatch},
		{types.SubScoreExperienceRelevance, w.ExperienceRelevance},
		{types.SubScoreEducationMatch, w.EducationMatch},
		{types.SubScoreOverallFit, w.OverallFit},
	}
	sum := 0.0
	for _, e := range entries {
		if math.IsNaN(e.value) || math.IsInf(e.value, 0) || e.value < 0 {
			return &ConfigError{Field: "weights." + e.name, Reason: fmt.Sprintf("must be a non-negative number, got %v", e.value)}
		}
		sum += e.value
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return &ConfigError{Field: "weights", Reason: fmt.Sprintf("must sum to 1.0, got %.6f", sum)}
	}
	return nil
}

// Thresholds are the inclusive lower bounds of the strong and moderate tiers.
type Thresholds struct {
	Strong   float64 `json:"strong"`
	Moderate float64 `json:"moderate"`
}

// DefaultThresholds returns the 75/40 cut points.
func DefaultThresholds() Thresholds {
	return Thresholds{Strong: 75, Moderate: 40}
}

// Validate requires 0 <= Moderate <= Strong <= 100.
func (t Thresholds) Validate() error {
	if math.IsNaN(t.Strong) || math.IsNaN(t.Moderate) {
		return &ConfigError{Field: "thresholds", Reason: "must be numbers"}
	}
	if t.Moderate < 0 || t.Strong > 100 || t.Moderate > t.Strong {
		return &ConfigError{Field: "thresholds", Reason: fmt.Sprintf("need 0 <= moderate (%v) <= strong (%v) <= 100", t.Moderate, t.Strong)}
	}
	return nil
}

// Tier maps a score to its band. Higher scores never map to a lower tier.
func (t Thresholds) Tier(score float64) types.Tier {
	switch {
	case score >= t.Strong:
		return types.TierStrong
	case score >= t.Moderate:
		return types.TierModerate
	default:
		return types.TierWeak
	}
}

// Config is everything the engine needs besides the job and candidate.
type Config struct {
	Weights    Weights    `json:"weights"`
	Thresholds Thresholds `json:"thresholds"`
	// OverallFitBaseline is used when no holistic signal is available.
	OverallFitBaseline float64 `json:"overall_fit_baseline"`
	// EducationPenaltyPerLevel is subtracted from 100 for each level below the requirement.
	EducationPenaltyPerLevel float64 `json:"education_penalty_per_level"`
}

// DefaultConfig returns the standard engine configuration.
func DefaultConfig() Config {
	return Config{
		Weights:                  DefaultWeights(),
		Thresholds:               DefaultThresholds(),
		OverallFitBaseline:       50,
		EducationPenaltyPerLevel: 50,
	}
}

// Validate checks all parts of the configuration.
func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if c.OverallFitBaseline < 0 || c.OverallFitBaseline > 100 || math.IsNaN(c.OverallFitBaseline) {
		return &ConfigError{Field: "overall_fit_baseline", Reason: "must be within [0, 100]"}
	}
	if c.EducationPenaltyPerLevel < 0 || c.EducationPenaltyPerLevel > 100 || math.IsNaN(c.EducationPenaltyPerLevel) {
		return &ConfigError{Field: "education_penalty_per_level", Reason: "must be within [0, 100]"}
	}
	return nil
}
