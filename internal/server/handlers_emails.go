package server

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/talentflow/internal/emails"
	"github.com/jonathan/talentflow/internal/types"
)

// composeEmail renders kind for a candidate. Delivery is recorded as sent;
// no mail is transmitted.
func (s *Server) composeEmail(c *types.Candidate, kind types.EmailType, data emails.Data, interviewID *uuid.UUID) (*types.Email, error) {
	msg, err := s.renderer.Render(kind, data)
	if err != nil {
		return nil, err
	}
	sentAt := s.now().UTC()
	return &types.Email{
		CandidateID: c.ID,
		InterviewID: interviewID,
		Type:        kind,
		Subject:     msg.Subject,
		Body:        msg.Body,
		Status:      types.EmailStatusSent,
		SentAt:      &sentAt,
	}, nil
}

// recordEmail composes and stores a notification. Failures are logged only.
func (s *Server) recordEmail(ctx context.Context, c *types.Candidate, kind types.EmailType, data emails.Data, interviewID *uuid.UUID) {
	email, err := s.composeEmail(c, kind, data, interviewID)
	if err == nil {
		err = s.store.CreateEmail(ctx, email)
	}
	if err != nil {
		s.log.Warn("failed to record email",
			zap.Stringer("candidate_id", c.ID),
			zap.String("type", string(kind)),
			zap.Error(err))
	}
}

// handleSendEmail records a rejection, information request or custom email.
func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req types.SendEmailRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validate(&req); err != nil {
		s.fail(w, r, err)
		return
	}

	c, err := s.store.GetCandidate(r.Context(), req.CandidateID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if c == nil {
		s.fail(w, r, &ErrNotFound{Resource: "candidate", ID: req.CandidateID})
		return
	}
	jobTitle := c.JobTitle
	if jobTitle == "" {
		if job, err := s.store.GetJob(r.Context(), c.JobID); err == nil && job != nil {
			jobTitle = job.Title
		}
	}

	email, err := s.composeEmail(c, types.EmailType(req.EmailType), emails.Data{
		CandidateName: c.Name,
		JobTitle:      jobTitle,
		Message:       req.CustomMessage,
		Subject:       req.Subject,
		InfoNeeded:    req.Fields,
	}, nil)
	if err != nil {
		s.fail(w, r, &ErrValidation{Field: "email_type", Message: err.Error()})
		return
	}
	if err := s.store.CreateEmail(r.Context(), email); err != nil {
		s.fail(w, r, err)
		return
	}

	s.log.Info("email recorded", zap.Stringer("candidate_id", c.ID), zap.String("type", req.EmailType))
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"message": "Email sent successfully",
		"email":   email,
	})
}
