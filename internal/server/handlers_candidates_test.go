package server

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentflow/internal/types"
)

func candidateNames(cs []types.Candidate) []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}

func TestListCandidates(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(types.RoleInterviewer)
	writer := env.token(types.RoleRecruiter)
	backend := env.createJob(writer, types.CreateJobRequest{Title: "Backend"})
	frontend := env.createJob(writer, types.CreateJobRequest{Title: "Frontend"})
	env.addCandidate(backend.ID, "Ann", score(40))
	env.addCandidate(backend.ID, "Bob", nil)
	env.addCandidate(frontend.ID, "Cat", score(85))
	rejected := env.addCandidate(frontend.ID, "Dan", score(10))
	env.store.candidates[rejected.ID].Status = types.CandidateStatusRejected

	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{"Cat", "Ann", "Dan", "Bob"}},
		{"?job_id=" + backend.ID.String(), []string{"Ann", "Bob"}},
		{"?status=rejected", []string{"Dan"}},
		{"?limit=2", []string{"Cat", "Ann"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := env.do(http.MethodGet, "/api/candidates"+tt.query, nil, tok)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.want, candidateNames(decode[[]types.Candidate](t, w)))
		})
	}

	for _, bad := range []string{"?job_id=nope", "?status=hired", "?limit=-1"} {
		w := env.do(http.MethodGet, "/api/candidates"+bad, nil, tok)
		assert.Equal(t, http.StatusBadRequest, w.Code, bad)
	}
}

func TestGetCandidate(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(types.RoleRecruiter)
	job := env.createJob(tok, types.CreateJobRequest{Title: "Go Engineer"})
	c := env.addCandidate(job.ID, "Jane Doe", score(80))

	w := env.do(http.MethodGet, "/api/candidates/"+c.ID.String(), nil, tok)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[CandidateDetailResponse](t, w)
	assert.Equal(t, c.ID, detail.Candidate.ID)
	assert.Equal(t, job.ID, detail.Job.ID)
	assert.Nil(t, detail.Interview)
	assert.Empty(t, detail.Emails)

	iv := env.schedule(tok, types.ScheduleInterviewRequest{CandidateID: c.ID})

	detail = decode[CandidateDetailResponse](t, env.do(http.MethodGet, "/api/candidates/"+c.ID.String(), nil, tok))
	require.NotNil(t, detail.Interview)
	assert.Equal(t, iv.ID, detail.Interview.ID)
	require.Len(t, detail.Emails, 1)
	assert.Equal(t, types.EmailInvitation, detail.Emails[0].Type)
	assert.Equal(t, types.CandidateStatusInterviewScheduled, detail.Candidate.Status)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/candidates/"+uuid.NewString(), nil, tok).Code)
}

func TestUpdateCandidateStatus(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(types.RoleRecruiter)
	job := env.createJob(tok, types.CreateJobRequest{Title: "Go Engineer"})
	c := env.addCandidate(job.ID, "Jane Doe", score(66))
	path := "/api/candidates/" + c.ID.String() + "/status"

	w := env.do(http.MethodPut, path, types.UpdateCandidateStatusRequest{Status: "approved", Notes: "Strong references"}, tok)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[types.Candidate](t, w)
	assert.Equal(t, types.CandidateStatusApproved, updated.Status)
	assert.Equal(t, "Strong references", updated.Notes)
	require.NotNil(t, updated.RankingScore)
	assert.Equal(t, 66.0, *updated.RankingScore)

	// empty notes keep the existing ones
	w = env.do(http.MethodPut, path, types.UpdateCandidateStatusRequest{Status: "rejected"}, tok)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Strong references", decode[types.Candidate](t, w).Notes)

	assert.Equal(t, http.StatusBadRequest,
		env.do(http.MethodPut, path, types.UpdateCandidateStatusRequest{Status: "hired"}, tok).Code)
	assert.Equal(t, http.StatusNotFound,
		env.do(http.MethodPut, "/api/candidates/"+uuid.NewString()+"/status", types.UpdateCandidateStatusRequest{Status: "approved"}, tok).Code)
	assert.Equal(t, http.StatusForbidden,
		env.do(http.MethodPut, path, types.UpdateCandidateStatusRequest{Status: "approved"}, env.token(types.RoleInterviewer)).Code)
}
