package server

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/emails"
	"github.com/jonathan/talentflow/internal/scheduling"
	"github.com/jonathan/talentflow/internal/types"
)

// SlotsResponse lists the free interview start times.
type SlotsResponse struct {
	From            time.Time   `json:"from"`
	To              time.Time   `json:"to"`
	DurationMinutes int         `json:"duration_minutes"`
	Slots           []time.Time `json:"slots"`
}

var interviewStatuses = map[string]types.InterviewStatus{
	string(types.InterviewStatusScheduled): types.InterviewStatusScheduled,
	string(types.InterviewStatusConfirmed): types.InterviewStatusConfirmed,
	string(types.InterviewStatusCompleted): types.InterviewStatusCompleted,
	string(types.InterviewStatusCancelled): types.InterviewStatusCancelled,
}

func (s *Server) handleListInterviews(w http.ResponseWriter, r *http.Request) {
	var filter db.InterviewFilter
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, ok := interviewStatuses[raw]
		if !ok {
			s.fail(w, r, &ErrValidation{Field: "status", Message: "unknown interview status"})
			return
		}
		filter.Status = &status
	}

	interviews, err := s.store.ListInterviews(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, interviews)
}

// bookedInterviews returns the interviews that still hold a slot.
func (s *Server) bookedInterviews(r *http.Request) ([]types.Interview, error) {
	return s.store.ListInterviews(r.Context(), db.InterviewFilter{ActiveOnly: true})
}

func (s *Server) handleInterviewSlots(w http.ResponseWriter, r *http.Request) {
	booked, err := s.bookedInterviews(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	now := s.now()
	from, to := s.scheduler.Window(now)
	s.jsonResponse(w, http.StatusOK, SlotsResponse{
		From:            from,
		To:              to,
		DurationMinutes: int(s.scheduler.Options().Duration / time.Minute),
		Slots:           s.scheduler.Slots(booked, now),
	})
}

// handleScheduleInterview books an interview, moves the candidate to
// interview_scheduled and records the invitation.
func (s *Server) handleScheduleInterview(w http.ResponseWriter, r *http.Request) {
	var req types.ScheduleInterviewRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validate(&req); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx := r.Context()
	c, err := s.store.GetCandidate(ctx, req.CandidateID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if c == nil {
		s.fail(w, r, &ErrNotFound{Resource: "candidate", ID: req.CandidateID})
		return
	}
	job, err := s.store.GetJob(ctx, c.JobID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if job == nil {
		s.fail(w, r, &ErrNotFound{Resource: "job", ID: c.JobID})
		return
	}

	booked, err := s.bookedInterviews(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	iv, err := s.scheduler.Schedule(c, &req, booked, s.now())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	invitation, err := s.composeEmail(c, types.EmailInvitation, emails.Data{
		CandidateName: c.Name,
		JobTitle:      job.Title,
		Interview:     iv,
	}, nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.ScheduleInterview(ctx, iv, invitation); err != nil {
		s.fail(w, r, err)
		return
	}
	iv.CandidateName = c.Name
	iv.JobTitle = job.Title

	s.log.Info("interview scheduled",
		zap.Stringer("interview_id", iv.ID),
		zap.Stringer("candidate_id", c.ID),
		zap.Time("scheduled_at", iv.ScheduledAt))
	s.jsonResponse(w, http.StatusCreated, map[string]any{
		"message":      "Interview scheduled successfully",
		"interview_id": iv.ID,
		"interview":    iv,
	})
}

// handleInterviewResponse records an accept, decline or reschedule reply.
// Accepting records a confirmation email.
func (s *Server) handleInterviewResponse(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.InterviewResponseRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validate(&req); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx := r.Context()
	iv, err := s.store.GetInterview(ctx, id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if iv == nil {
		s.fail(w, r, &ErrNotFound{Resource: "interview", ID: id})
		return
	}
	booked, err := s.bookedInterviews(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if err := scheduling.ApplyResponse(iv, &req, booked, s.now()); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := s.store.UpdateInterview(ctx, iv); err != nil {
		s.fail(w, r, err)
		return
	}

	if req.Response == types.ResponseAccept {
		c, err := s.store.GetCandidate(ctx, iv.CandidateID)
		if err == nil && c != nil {
			s.recordEmail(ctx, c, types.EmailConfirmation, emails.Data{
				CandidateName: c.Name,
				JobTitle:      iv.JobTitle,
				Interview:     iv,
			}, &iv.ID)
		}
	}

	s.log.Info("interview response recorded",
		zap.Stringer("interview_id", iv.ID),
		zap.String("response", req.Response),
		zap.String("status", string(iv.Status)))
	s.jsonResponse(w, http.StatusOK, iv)
}
