package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CandidateStatus is the review state of a candidate.
type CandidateStatus string

// Candidate statuses
const (
	CandidateStatusNew                CandidateStatus = "new"
	CandidateStatusApproved           CandidateStatus = "approved"
	CandidateStatusRejected           CandidateStatus = "rejected"
	CandidateStatusInterviewScheduled CandidateStatus = "interview_scheduled"
)

// CandidateProfile is the structured profile extracted from a resume.
type CandidateProfile struct {
	Skills []string `json:"skills"`
	// Experience holds free-text experience entries as extracted.
	Experience []string `json:"experience,omitempty"`
	// ExperienceYears is set when a normalized total is already known.
	ExperienceYears *float64 `json:"experience_years,omitempty"`
	Education       []string `json:"education,omitempty"`
	Certifications  []string `json:"certifications,omitempty"`
	Summary         string   `json:"summary,omitempty"`
}

// Candidate is an applicant to exactly one job.
type Candidate struct {
	ID         uuid.UUID        `json:"id"`
	JobID      uuid.UUID        `json:"job_id"`
	Name       string           `json:"name"`
	Email      string           `json:"email,omitempty"`
	Phone      string           `json:"phone,omitempty"`
	ResumePath string           `json:"resume_path,omitempty"`
	Profile    CandidateProfile `json:"profile"`
	Status     CandidateStatus  `json:"status"`
	Notes      string           `json:"notes,omitempty"`

	// Score, details and tier are written together by a scoring pass.
	RankingScore   *float64        `json:"ranking_score"`
	RankingDetails *RankingDetails `json:"ranking_details,omitempty"`
	Tier           *Tier           `json:"tier,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// JobTitle is populated by joined list queries.
	JobTitle string `json:"job_title,omitempty"`
}

// Scored reports whether the candidate has been through a scoring pass.
func (c *Candidate) Scored() bool {
	return c.RankingScore != nil
}

// UpdateCandidateStatusRequest moves a candidate through the review flow.
type UpdateCandidateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new approved rejected interview_scheduled"`
	Notes  string `json:"notes,omitempty" validate:"max=5000"`
}

// Validate validates the UpdateCandidateStatusRequest using the validator.
func (r *UpdateCandidateStatusRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
