package ranking

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/talentflow/internal/types"
)

// Result is the outcome of scoring one candidate against one job.
type Result struct {
	CandidateID  uuid.UUID            `json:"candidate_id"`
	RankingScore float64              `json:"ranking_score"`
	Tier         types.Tier           `json:"tier"`
	Details      types.RankingDetails `json:"ranking_details"`
}

// Engine scores candidates with a fixed configuration and normalizer.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg        Config
	normalizer Normalizer
}

// Option customizes an Engine.
type Option func(*Engine)

// WithNormalizer replaces the experience and education normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(e *Engine) {
		if n != nil {
			e.normalizer = n
		}
	}
}

// NewEngine validates cfg and returns an engine that uses it.
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg, normalizer: DefaultNormalizer{}}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Score computes the ranking score, details and tier of a candidate for a job.
// Degraded input is scored with documented fallbacks and noted in the details;
// only missing records or identifiers produce an InvalidInputError.
func (e *Engine) Score(job *types.Job, candidate *types.Candidate) (*Result, error) {
	if err := checkInputs(job, candidate); err != nil {
		return nil, err
	}

	req := &job.Requirements
	profile := &candidate.Profile
	diags := make([]types.Diagnostic, 0)

	skillsOut := computeSkillsMatch(req, profile, &diags)

	years, diag := e.normalizer.ExperienceYears(profile)
	if diag != nil {
		diags = append(diags, *diag)
	}

	requiredLevel := EducationNone
	requiredEducation := ""
	if raw := strings.TrimSpace(req.EducationLevel); raw != "" {
		if level, ok := ParseEducationLevel(raw); ok {
			requiredLevel = level
			requiredEducation = level.String()
		} else {
			diags = append(diags, types.Diagnostic{
				SubScore: types.SubScoreEducationMatch,
				Code:     DiagRequiredEducationUnknown,
				Message:  fmt.Sprintf("job education level %q is not recognized; treated as no requirement", raw),
			})
		}
	}

	// Missing candidate education only matters when the job asks for a level.
	candidateLevel, eduDiag := e.normalizer.EducationLevel(profile.Education)
	if eduDiag != nil && requiredLevel > EducationNone {
		diags = append(diags, *eduDiag)
	}

	details := types.RankingDetails{
		SkillsMatch:         skillsOut.score,
		ExperienceRelevance: computeExperienceRelevance(years, req.MinExperienceYears),
		EducationMatch:      computeEducationMatch(candidateLevel, requiredLevel, e.cfg.EducationPenaltyPerLevel),
		OverallFit:          computeOverallFit(req, profile, e.cfg.OverallFitBaseline, &diags),
		Weights:             e.cfg.Weights.Map(),
		MatchedRequired:     skillsOut.matchedRequired,
		MissingRequired:     skillsOut.missingRequired,
		MatchedPreferred:    skillsOut.matchedPreferred,
		CandidateYears:      years,
		CandidateEducation:  candidateLevel.String(),
		RequiredEducation:   requiredEducation,
	}
	if len(diags) > 0 {
		details.Diagnostics = diags
	}

	score := Combine(e.cfg.Weights, &details)
	return &Result{
		CandidateID:  candidate.ID,
		RankingScore: score,
		Tier:         e.cfg.Thresholds.Tier(score),
		Details:      details,
	}, nil
}

func checkInputs(job *types.Job, candidate *types.Candidate) error {
	switch {
	case job == nil:
		return &InvalidInputError{Field: "job", Reason: "is required"}
	case job.ID == uuid.Nil:
		return &InvalidInputError{Field: "job.id", Reason: "is required"}
	case candidate == nil:
		return &InvalidInputError{Field: "candidate", Reason: "is required"}
	case candidate.ID == uuid.Nil:
		return &InvalidInputError{Field: "candidate.id", Reason: "is required"}
	case candidate.JobID != uuid.Nil && candidate.JobID != job.ID:
		return &InvalidInputError{Field: "candidate.job_id", Reason: "belongs to a different job"}
	case job.Requirements.MinExperienceYears < 0:
		return &InvalidInputError{Field: "job.requirements.min_experience_years", Reason: "must be non-negative"}
	}
	return nil
}

// Apply copies a result onto the candidate record.
func Apply(candidate *types.Candidate, r *Result) {
	score := r.RankingScore
	tier := r.Tier
	details := r.Details
	candidate.RankingScore = &score
	candidate.Tier = &tier
	candidate.RankingDetails = &details
}
