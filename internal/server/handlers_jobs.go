package server

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/export"
	"github.com/jonathan/talentflow/internal/ingestion"
	"github.com/jonathan/talentflow/internal/ranking"
	"github.com/jonathan/talentflow/internal/server/middleware"
	"github.com/jonathan/talentflow/internal/types"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// JobDetailResponse is a job with its candidates, best score first.
type JobDetailResponse struct {
	Job        *types.Job        `json:"job"`
	Candidates []types.Candidate `json:"candidates"`
}

// RescoreResponse reports a scoring pass over a job's candidates.
type RescoreResponse struct {
	JobID      uuid.UUID          `json:"job_id"`
	Scored     int                `json:"scored"`
	Failures   []ranking.Failure  `json:"failures"`
	Candidates []*types.Candidate `json:"candidates"`
}

// handleListJobs lists jobs. status defaults to active; "all" lists every job.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	var filter *types.JobStatus
	switch raw := r.URL.Query().Get("status"); raw {
	case "all":
	case "":
		active := types.JobStatusActive
		filter = &active
	default:
		status, ok := types.ParseJobStatus(raw)
		if !ok {
			s.fail(w, r, &ErrValidation{Field: "status", Message: "must be active, closed, on_hold or all"})
			return
		}
		filter = &status
	}

	jobs, err := s.store.ListJobs(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, jobs)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var req types.CreateJobRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validate(&req); err != nil {
		s.fail(w, r, err)
		return
	}

	status := types.JobStatusActive
	if req.Status != "" {
		status, _ = types.ParseJobStatus(req.Status)
	}

	job := &types.Job{
		Title:        strings.TrimSpace(req.Title),
		Department:   strings.TrimSpace(req.Department),
		Description:  req.Description,
		Requirements: cleanRequirements(req.Requirements),
		Status:       status,
	}
	if userID, err := middleware.GetUserID(r); err == nil {
		job.CreatedBy = &userID
	}

	if err := s.store.CreateJob(r.Context(), job); err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.Info("job created", zap.Stringer("job_id", job.ID), zap.String("title", job.Title))
	s.jsonResponse(w, http.StatusCreated, job)
}

// cleanRequirements trims terms and drops blanks so skill lists are never null.
func cleanRequirements(req types.JobRequirements) types.JobRequirements {
	req.RequiredSkills = cleanTerms(req.RequiredSkills)
	req.PreferredSkills = cleanTerms(req.PreferredSkills)
	req.Certifications = cleanTerms(req.Certifications)
	req.EducationLevel = strings.TrimSpace(req.EducationLevel)
	return req
}

func cleanTerms(terms []string) []string {
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// loadJob fetches the job named by the {id} path value.
func (s *Server) loadJob(r *http.Request) (*types.Job, error) {
	id, err := pathID(r)
	if err != nil {
		return nil, err
	}
	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &ErrNotFound{Resource: "job", ID: id}
	}
	return job, nil
}

func (s *Server) jobCandidates(r *http.Request, jobID uuid.UUID) ([]types.Candidate, error) {
	return s.store.ListCandidates(r.Context(), db.CandidateFilter{JobID: &jobID})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.loadJob(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	candidates, err := s.jobCandidates(r, job.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, JobDetailResponse{Job: job, Candidates: candidates})
}

// handleUpdateJobStatus changes the status only; requirements stay fixed.
func (s *Server) handleUpdateJobStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	var req types.UpdateJobStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := validate(&req); err != nil {
		s.fail(w, r, err)
		return
	}
	status, _ := types.ParseJobStatus(req.Status)

	if err := s.store.UpdateJobStatus(r.Context(), id, status); err != nil {
		s.fail(w, r, err)
		return
	}
	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if job == nil {
		s.fail(w, r, &ErrNotFound{Resource: "job", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleRescoreJob scores every candidate of the job again with the current
// configuration. This is the only way existing scores change.
func (s *Server) handleRescoreJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.loadJob(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	candidates, err := s.jobCandidates(r, job.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	ptrs := make([]*types.Candidate, len(candidates))
	for i := range candidates {
		ptrs[i] = &candidates[i]
	}
	batch, err := s.scoreAndSave(r.Context(), job, ptrs)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, RescoreResponse{
		JobID:      job.ID,
		Scored:     len(batch.Ranked),
		Failures:   failures(batch),
		Candidates: rankedCandidates(batch),
	})
}

// handleRankingSummary aggregates the job's scored candidates. ?top=N limits
// the top candidate list.
func (s *Server) handleRankingSummary(w http.ResponseWriter, r *http.Request) {
	top := ranking.DefaultTopN
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.fail(w, r, &ErrValidation{Field: "top", Message: "must be a positive integer"})
			return
		}
		top = n
	}

	job, err := s.loadJob(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	candidates, err := s.jobCandidates(r, job.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ranking.Summarize(candidates, s.engine.Config().Thresholds, top))
}

// handleExportJob downloads the job's ranking as a spreadsheet.
func (s *Server) handleExportJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.loadJob(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	candidates, err := s.jobCandidates(r, job.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	summary := ranking.Summarize(candidates, s.engine.Config().Thresholds, ranking.DefaultTopN)

	var buf bytes.Buffer
	if err := export.WriteRankingWorkbook(&buf, job, candidates, summary, s.now()); err != nil {
		s.fail(w, r, err)
		return
	}

	filename := "ranking-" + ingestion.SafeFilename(strings.ToLower(job.Title)) + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.log.Warn("failed to write export", zap.Error(err))
	}
}
