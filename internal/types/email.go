package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// EmailType identifies the template an email was rendered from.
type EmailType string

// Email types
const (
	EmailInvitation          EmailType = "invitation"
	EmailConfirmation        EmailType = "confirmation"
	EmailReminder            EmailType = "reminder"
	EmailApplicationReceived EmailType = "application_received"
	EmailRejection           EmailType = "rejection"
	EmailRequestInfo         EmailType = "request_info"
	EmailCustom              EmailType = "custom"
)

// EmailStatus is the delivery state of an email record.
type EmailStatus string

// Email statuses
const (
	EmailStatusPending EmailStatus = "pending"
	EmailStatusSent    EmailStatus = "sent"
	EmailStatusFailed  EmailStatus = "failed"
)

// Email is a message addressed to a candidate. Delivery is recorded, not performed.
type Email struct {
	ID          uuid.UUID   `json:"id"`
	CandidateID uuid.UUID   `json:"candidate_id"`
	InterviewID *uuid.UUID  `json:"interview_id,omitempty"`
	Type        EmailType   `json:"type"`
	Subject     string      `json:"subject"`
	Body        string      `json:"body"`
	Status      EmailStatus `json:"status"`
	SentAt      *time.Time  `json:"sent_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// SendEmailRequest asks for a manual email to a candidate.
type SendEmailRequest struct {
	CandidateID   uuid.UUID `json:"candidate_id" validate:"required"`
	EmailType     string    `json:"email_type" validate:"required,oneof=rejection request_info custom"`
	CustomMessage string    `json:"custom_message,omitempty" validate:"required_if=EmailType custom"`
	Subject       string    `json:"subject,omitempty" validate:"max=200"`
	Fields        []string  `json:"requested_fields,omitempty"`
}

// Validate validates the SendEmailRequest using the validator.
func (r *SendEmailRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// DashboardStats is the recruiter dashboard summary.
type DashboardStats struct {
	ActiveJobs          int         `json:"active_jobs"`
	TotalCandidates     int         `json:"total_candidates"`
	ScheduledInterviews int         `json:"scheduled_interviews"`
	RecentCandidates    []Candidate `json:"recent_candidates"`
}
