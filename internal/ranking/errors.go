package ranking

import "fmt"

// InvalidInputError is returned when a job or candidate is missing or
// lacks the identifiers scoring needs. It is never worth retrying.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid scoring input: %s: %s", e.Field, e.Reason)
}

// ConfigError is returned for a rejected weight table or threshold set.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid ranking config: %s %s", e.Field, e.Reason)
}

// Diagnostic codes recorded in ranking details.
const (
	DiagRequiredSkillsEmpty        = "required_skills_empty"
	DiagCandidateSkillsEmpty       = "candidate_skills_empty"
	DiagExperienceUnavailable      = "experience_years_unavailable"
	DiagExperienceInvalid          = "experience_years_invalid"
	DiagEducationUnavailable       = "education_unavailable"
	DiagEducationUnrecognized      = "education_unrecognized"
	DiagRequiredEducationUnknown   = "required_education_unrecognized"
	DiagOverallFitBaseline         = "overall_fit_baseline"
	DiagExperiencePresentUnbounded = "experience_open_range_ignored"
)
