package server

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentflow/internal/config"
	"github.com/jonathan/talentflow/internal/types"
)

const janeResume = `Jane Doe
jane.doe@example.com | +1 555 123 4567

## Work Experience
- Senior Engineer, Acme (2017 - 2023)

## Education
- Bachelor of Science in Computer Science

## Skills
Go, PostgreSQL, Docker`

const johnResume = `John Smith
john@example.com

## Skills
Excel`

type upload struct {
	name string
	body string
}

func multipartBody(t *testing.T, files ...upload) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		part, err := mw.CreateFormFile(uploadField, f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) upload(path, token string, files ...upload) *httptest.ResponseRecorder {
	e.t.Helper()
	body, contentType := multipartBody(e.t, files...)
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	req.RemoteAddr = "192.0.2.10:51234"
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func TestUploadResumes(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(types.RoleRecruiter)
	job := env.createJob(tok, types.CreateJobRequest{Title: "Go Engineer", Requirements: goRequirements})
	existing := env.addCandidate(job.ID, "Earlier Applicant", score(12))

	w := env.upload("/api/jobs/"+job.ID.String()+"/upload-resumes", tok,
		upload{"john.txt", johnResume},
		upload{"jane.txt", janeResume},
		upload{"setup.exe", "MZ"},
		upload{"blank.txt", "  \n\n "},
	)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[UploadResponse](t, w)
	assert.Equal(t, "Successfully processed 2 resumes", resp.Message)
	assert.Equal(t, 2, resp.ProcessedCount)
	assert.Equal(t, 4, resp.TotalUploaded)
	assert.Empty(t, resp.Failures)
	require.Len(t, resp.Skipped, 2)
	assert.Equal(t, "setup.exe", resp.Skipped[0].Filename)
	assert.Equal(t, "blank.txt", resp.Skipped[1].Filename)

	require.Len(t, resp.Candidates, 2)
	jane, john := resp.Candidates[0], resp.Candidates[1]
	assert.Equal(t, "Jane Doe", jane.Name)
	assert.Equal(t, "jane.doe@example.com", jane.Email)
	assert.Equal(t, "John Smith", john.Name)
	require.NotNil(t, jane.RankingScore)
	require.NotNil(t, john.RankingScore)
	assert.Greater(t, *jane.RankingScore, *john.RankingScore)
	assert.Equal(t, types.TierStrong, *jane.Tier)

	data, err := os.ReadFile(jane.ResumePath)
	require.NoError(t, err)
	assert.Equal(t, janeResume, string(data))
	assert.Equal(t, filepath.Join(env.srv.uploads.Dir, job.ID.String()), filepath.Dir(jane.ResumePath))

	// earlier candidates keep their score
	prior, err := env.store.GetCandidate(t.Context(), existing.ID)
	require.NoError(t, err)
	assert.Equal(t, 12.0, *prior.RankingScore)

	sent := env.store.emailsOfType(types.EmailApplicationReceived)
	require.Len(t, sent, 2)
	assert.Equal(t, types.EmailStatusSent, sent[0].Status)
	assert.Contains(t, sent[0].Subject, "Go Engineer")
}

func TestUploadResumes_SaveRankingFails(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(types.RoleRecruiter)
	job := env.createJob(tok, types.CreateJobRequest{Title: "Go Engineer", Requirements: goRequirements})
	env.store.saveErr = map[string]error{"John Smith": errors.New("connection reset")}

	w := env.upload("/api/jobs/"+job.ID.String()+"/upload-resumes", tok,
		upload{"jane.txt", janeResume},
		upload{"john.txt", johnResume},
	)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[UploadResponse](t, w)
	assert.Equal(t, 2, resp.ProcessedCount)
	require.Len(t, resp.Candidates, 1)
	assert.Equal(t, "Jane Doe", resp.Candidates[0].Name)
	require.Len(t, resp.Failures, 1)
	assert.Equal(t, "John Smith", resp.Failures[0].Name)
	assert.Equal(t, "failed to save ranking", resp.Failures[0].Reason)

	stored, err := env.store.GetCandidate(t.Context(), resp.Failures[0].CandidateID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.RankingScore)

	assert.Len(t, env.store.emailsOfType(types.EmailApplicationReceived), 2)
}

func TestUploadResumes_CreateCandidateFails(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(types.RoleRecruiter)
	job := env.createJob(tok, types.CreateJobRequest{Title: "Go Engineer", Requirements: goRequirements})
	path := "/api/jobs/" + job.ID.String() + "/upload-resumes"

	t.Run("after the first candidate", func(t *testing.T) {
		env.store.createErr = map[string]error{"John Smith": errors.New("connection reset")}
		w := env.upload(path, tok,
			upload{"jane.txt", janeResume},
			upload{"john.txt", johnResume},
			upload{"setup.exe", "MZ"},
		)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		resp := decode[UploadResponse](t, w)
		assert.Equal(t, 1, resp.ProcessedCount)
		require.Len(t, resp.Candidates, 1)
		require.NotNil(t, resp.Candidates[0].RankingScore)
		require.Len(t, resp.Skipped, 2)
		assert.Equal(t, SkippedFile{Filename: "john.txt", Reason: "candidate could not be saved"}, resp.Skipped[0])
		assert.Equal(t, "setup.exe", resp.Skipped[1].Filename)
	})

	t.Run("on the first candidate", func(t *testing.T) {
		env.store.createErr = map[string]error{"Jane Doe": errors.New("connection reset")}
		w := env.upload(path, tok, upload{"jane.txt", janeResume})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestUploadResumes_Rejected(t *testing.T) {
	env := newTestEnv(t)
	tok := env.token(types.RoleRecruiter)
	job := env.createJob(tok, types.CreateJobRequest{Title: "Go Engineer", Requirements: goRequirements})
	path := "/api/jobs/" + job.ID.String() + "/upload-resumes"

	t.Run("no files", func(t *testing.T) {
		w := env.upload(path, tok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("nothing usable", func(t *testing.T) {
		w := env.upload(path, tok, upload{"photo.png", "png"})
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "no valid resumes uploaded")
		assert.Contains(t, w.Body.String(), "photo.png")
	})

	t.Run("not multipart", func(t *testing.T) {
		w := env.do(http.MethodPost, path, []byte("{}"), tok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown job", func(t *testing.T) {
		w := env.upload("/api/jobs/00000000-0000-0000-0000-000000000001/upload-resumes", tok, upload{"a.txt", janeResume})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	assert.Empty(t, env.store.candidates)
}

func TestUploadResumes_TooLarge(t *testing.T) {
	env := newTestEnv(t, func(c *config.Config) { c.Uploads.MaxBytes = 64 })
	tok := env.token(types.RoleRecruiter)
	job := env.createJob(tok, types.CreateJobRequest{Title: "Go Engineer"})

	w := env.upload("/api/jobs/"+job.ID.String()+"/upload-resumes", tok, upload{"jane.txt", janeResume})
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestNameFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"jane_doe-resume.pdf", "Jane Doe Resume"},
		{"émile.txt", "Émile"},
		{"___.docx", "Unknown Candidate"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, nameFromFilename(tt.in))
		})
	}
}
