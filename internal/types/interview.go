package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// InterviewStatus is the lifecycle state of an interview.
type InterviewStatus string

// Interview statuses
const (
	InterviewStatusScheduled InterviewStatus = "scheduled"
	InterviewStatusConfirmed InterviewStatus = "confirmed"
	InterviewStatusCompleted InterviewStatus = "completed"
	InterviewStatusCancelled InterviewStatus = "cancelled"
)

// Interview types
const (
	InterviewTypeInitial   = "initial"
	InterviewTypeTechnical = "technical"
	InterviewTypeFinal     = "final"
)

// LocationVirtual is the default interview location.
const LocationVirtual = "Virtual"

// Interview is a scheduled meeting between a candidate and interviewers.
type Interview struct {
	ID                 uuid.UUID       `json:"id"`
	CandidateID        uuid.UUID       `json:"candidate_id"`
	JobID              uuid.UUID       `json:"job_id"`
	ScheduledAt        time.Time       `json:"scheduled_at"`
	DurationMinutes    int             `json:"duration_minutes"`
	InterviewType      string          `json:"interview_type"`
	Location           string          `json:"location"`
	MeetingLink        string          `json:"meeting_link,omitempty"`
	Interviewers       []string        `json:"interviewers"`
	Status             InterviewStatus `json:"status"`
	CandidateConfirmed bool            `json:"candidate_confirmed"`
	Notes              string          `json:"notes,omitempty"`
	Feedback           string          `json:"feedback,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`

	// Populated by joined list queries.
	CandidateName string `json:"candidate_name,omitempty"`
	JobTitle      string `json:"job_title,omitempty"`
}

// EndsAt returns the end of the interview.
func (i *Interview) EndsAt() time.Time {
	return i.ScheduledAt.Add(time.Duration(i.DurationMinutes) * time.Minute)
}

// Active reports whether the interview still occupies its slot.
func (i *Interview) Active() bool {
	return i.Status != InterviewStatusCancelled
}

// ScheduleInterviewRequest asks for an interview to be booked for a candidate.
type ScheduleInterviewRequest struct {
	CandidateID   uuid.UUID  `json:"candidate_id" validate:"required"`
	InterviewType string     `json:"interview_type,omitempty" validate:"omitempty,oneof=initial technical final"`
	PreferredTime *time.Time `json:"preferred_time,omitempty"`
	Location      string     `json:"location,omitempty"`
	Interviewers  []string   `json:"interviewers,omitempty" validate:"dive,email"`
	Notes         string     `json:"notes,omitempty"`
}

// Validate validates the ScheduleInterviewRequest using the validator.
func (r *ScheduleInterviewRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Candidate responses to an interview invitation.
const (
	ResponseAccept     = "accept"
	ResponseDecline    = "decline"
	ResponseReschedule = "reschedule"
)

// InterviewResponseRequest records a candidate's reply to an invitation.
type InterviewResponseRequest struct {
	Response string     `json:"response" validate:"required,oneof=accept decline reschedule"`
	NewTime  *time.Time `json:"new_time,omitempty" validate:"required_if=Response reschedule"`
	Message  string     `json:"message,omitempty"`
}

// Validate validates the InterviewResponseRequest using the validator.
func (r *InterviewResponseRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
