// Package types provides the domain records shared by the talentflow store, scoring engine and API.
package types

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a job posting.
type JobStatus string

// Job statuses
const (
	JobStatusActive JobStatus = "active"
	JobStatusClosed JobStatus = "closed"
	JobStatusOnHold JobStatus = "on_hold"
)

// ParseJobStatus maps a user supplied status to a JobStatus.
// "inactive" is accepted as an alias of closed.
func ParseJobStatus(s string) (JobStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "active":
		return JobStatusActive, true
	case "closed", "inactive":
		return JobStatusClosed, true
	case "on_hold", "on-hold", "onhold":
		return JobStatusOnHold, true
	default:
		return "", false
	}
}

// JobRequirements describes what a job asks of its candidates.
// Requirements are fixed once candidates have been scored against them.
type JobRequirements struct {
	RequiredSkills     []string `json:"required_skills"`
	PreferredSkills    []string `json:"preferred_skills"`
	MinExperienceYears float64  `json:"min_experience_years" validate:"gte=0"`
	EducationLevel     string   `json:"education_level,omitempty"`
	Certifications     []string `json:"certifications,omitempty"`
}

// Job is a job posting owned by a recruiter.
type Job struct {
	ID           uuid.UUID       `json:"id"`
	Title        string          `json:"title"`
	Department   string          `json:"department,omitempty"`
	Description  string          `json:"description,omitempty"`
	Requirements JobRequirements `json:"requirements"`
	Status       JobStatus       `json:"status"`
	CreatedBy    *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	// CandidateCount is populated by list queries only.
	CandidateCount int `json:"candidate_count"`
}

// Vocabulary returns every skill the job mentions, required first.
func (j *Job) Vocabulary() []string {
	out := make([]string, 0, len(j.Requirements.RequiredSkills)+len(j.Requirements.PreferredSkills))
	out = append(out, j.Requirements.RequiredSkills...)
	return append(out, j.Requirements.PreferredSkills...)
}

// CreateJobRequest is the payload for creating a job.
type CreateJobRequest struct {
	Title        string          `json:"title" validate:"required,min=1,max=200"`
	Department   string          `json:"department,omitempty" validate:"max=100"`
	Description  string          `json:"description,omitempty"`
	Requirements JobRequirements `json:"requirements"`
	Status       string          `json:"status,omitempty" validate:"omitempty,oneof=active closed on_hold inactive"`
}

// Validate validates the CreateJobRequest using the validator.
func (r *CreateJobRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// UpdateJobStatusRequest changes the status of a job. Requirements cannot be edited.
type UpdateJobStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active closed on_hold inactive"`
}

// Validate validates the UpdateJobStatusRequest using the validator.
func (r *UpdateJobStatusRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
