package server

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/types"
)

// CandidateDetailResponse is a candidate with its job, latest interview and email history.
type CandidateDetailResponse struct {
	Candidate *types.Candidate `json:"candidate"`
	Job       *types.Job       `json:"job"`
	Interview *types.Interview `json:"interview"`
	Emails    []types.Email    `json:"emails"`
}

var candidateStatuses = map[string]types.CandidateStatus{
	string(types.CandidateStatusNew):                types.CandidateStatusNew,
	string(types.CandidateStatusApproved):           types.CandidateStatusApproved,
	string(types.CandidateStatusRejected):           types.CandidateStatusRejected,
	string(types.CandidateStatusInterviewScheduled): types.CandidateStatusInterviewScheduled,
}

// handleListCandidates lists candidates best score first, filtered by
// ?job_id=, ?status= and ?limit=.
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter db.CandidateFilter

	if raw := q.Get("job_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			s.fail(w, r, &ErrValidation{Field: "job_id", Message: "must be a UUID"})
			return
		}
		filter.JobID = &id
	}
	if raw := q.Get("status"); raw != "" {
		status, ok := candidateStatuses[raw]
		if !ok {
			s.fail(w, r, &ErrValidation{Field: "status", Message: "unknown candidate status"})
			return
		}
		filter.Status = &status
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.fail(w, r, &ErrValidation{Field: "limit", Message: "must be a positive integer"})
			return
		}
		filter.Limit = n
	}

	candidates, err := s.store.ListCandidates(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, candidates)
}

func (s *Server) loadCandidate(r *http.Request) (*types.Candidate, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	c, err := s.store.GetCandidate(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &ErrNotFound{Resource: "candidate", ID: id}
	}
	return c, nil
}

func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	c, err := s.loadCandidate(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ctx := r.Context()
	job, err := s.store.GetJob(ctx, c.JobID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	interview, err := s.store.LatestInterviewForCandidate(ctx, c.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	history, err := s.store.ListEmailsByCandidate(ctx, c.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, CandidateDetailResponse{
		Candidate: c,
		Job:       job,
		Interview: interview,
		Emails:    history,
	})
}

// handleUpdateCandidateStatus moves a candidate through review. Scores are untouched.
func (s *Server) handleUpdateCandidateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.UpdateCandidateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validate(&req); err != nil {
		s.fail(w, r, err)
		return
	}

	var notes *string
	if req.Notes != "" {
		notes = &req.Notes
	}
	if err := s.store.UpdateCandidateStatus(r.Context(), id, candidateStatuses[req.Status], notes); err != nil {
		s.fail(w, r, err)
		return
	}

	c, err := s.store.GetCandidate(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if c == nil {
		s.fail(w, r, &ErrNotFound{Resource: "candidate", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, c)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.DashboardStats(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, stats)
}
