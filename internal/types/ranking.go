package types

// Tier is the fit band a ranking score falls into.
type Tier string

// Fit tiers, strongest first.
const (
	TierStrong   Tier = "strong_fit"
	TierModerate Tier = "moderate_fit"
	TierWeak     Tier = "weak_fit"
)

// Label returns the human readable name of the tier.
func (t Tier) Label() string {
	switch t {
	case TierStrong:
		return "strong fit"
	case TierModerate:
		return "moderate fit"
	case TierWeak:
		return "weak fit"
	default:
		return string(t)
	}
}

// Sub-score names as they appear in ranking details.
const (
	SubScoreSkillsMatch         = "skills_match"
	SubScoreExperienceRelevance = "experience_relevance"
	SubScoreEducationMatch      = "education_match"
	SubScoreOverallFit          = "overall_fit"
)

// SubScoreNames lists the sub-scores in their canonical order.
var SubScoreNames = []string{
	SubScoreSkillsMatch,
	SubScoreExperienceRelevance,
	SubScoreEducationMatch,
	SubScoreOverallFit,
}

// Diagnostic records degraded input that was scored with a fallback instead of failing.
type Diagnostic struct {
	SubScore string `json:"sub_score"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// RankingDetails is the per-candidate breakdown persisted next to the ranking score.
type RankingDetails struct {
	SkillsMatch         float64 `json:"skills_match"`
	ExperienceRelevance float64 `json:"experience_relevance"`
	EducationMatch      float64 `json:"education_match"`
	OverallFit          float64 `json:"overall_fit"`

	// Weights used to combine the sub-scores, keyed by sub-score name.
	Weights map[string]float64 `json:"weights"`

	MatchedRequired    []string `json:"matched_required_skills"`
	MissingRequired    []string `json:"missing_required_skills"`
	MatchedPreferred   []string `json:"matched_preferred_skills"`
	CandidateYears     float64  `json:"candidate_experience_years"`
	CandidateEducation string   `json:"candidate_education_level"`
	RequiredEducation  string   `json:"required_education_level,omitempty"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// SubScores returns the four sub-scores keyed by name.
func (d *RankingDetails) SubScores() map[string]float64 {
	return map[string]float64{
		SubScoreSkillsMatch:         d.SkillsMatch,
		SubScoreExperienceRelevance: d.ExperienceRelevance,
		SubScoreEducationMatch:      d.EducationMatch,
		SubScoreOverallFit:          d.OverallFit,
	}
}

// HasDiagnostic reports whether a diagnostic with the given code was recorded.
func (d *RankingDetails) HasDiagnostic(code string) bool {
	for _, diag := range d.Diagnostics {
		if diag.Code == code {
			return true
		}
	}
	return false
}
