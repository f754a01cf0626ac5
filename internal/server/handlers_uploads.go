package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talentflow/internal/emails"
	"github.com/jonathan/talentflow/internal/ingestion"
	"github.com/jonathan/talentflow/internal/ranking"
	"github.com/jonathan/talentflow/internal/types"
)

// uploadField is the multipart field carrying resume files.
const uploadField = "resumes"

// multipartMemory is how much of a form is buffered before spilling to disk.
const multipartMemory = 8 << 20

// SkippedFile is an uploaded file that did not become a candidate.
type SkippedFile struct {
	Filename string `json:"filename"`
	Reason   string `json:"reason"`
}

// UploadResponse reports a resume upload.
type UploadResponse struct {
	Message        string             `json:"message"`
	ProcessedCount int                `json:"processed_count"`
	TotalUploaded  int                `json:"total_uploaded"`
	Skipped        []SkippedFile      `json:"skipped"`
	Failures       []ranking.Failure  `json:"failures"`
	Candidates     []*types.Candidate `json:"candidates"`
}

// extracted is the outcome of reading one uploaded file.
type extracted struct {
	filename string
	path     string
	parsed   *ingestion.Parsed
	err      error
}

// handleUploadResumes stores each resume, extracts a profile, creates a
// candidate and scores the new candidates. Existing candidates are not rescored.
func (s *Server) handleUploadResumes(w http.ResponseWriter, r *http.Request) {
	job, err := s.loadJob(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
			return
		}
		s.fail(w, r, &ErrValidation{Message: "expected a multipart form"})
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	files := r.MultipartForm.File[uploadField]
	if len(files) == 0 {
		s.fail(w, r, &ErrValidation{Field: uploadField, Message: "no files uploaded"})
		return
	}

	results := s.extractAll(r.Context(), job, files)

	skipped := make([]SkippedFile, 0)
	created := make([]*types.Candidate, 0, len(results))
	for i, res := range results {
		if res.err != nil {
			s.log.Info("resume skipped", zap.String("filename", res.filename), zap.Error(res.err))
			skipped = append(skipped, SkippedFile{Filename: res.filename, Reason: res.err.Error()})
			continue
		}
		c := &types.Candidate{
			JobID:      job.ID,
			Name:       res.parsed.Name,
			Email:      res.parsed.Email,
			Phone:      res.parsed.Phone,
			ResumePath: res.path,
			Profile:    res.parsed.Profile,
			Status:     types.CandidateStatusNew,
		}
		if c.Name == "" {
			c.Name = nameFromFilename(res.filename)
		}
		if err := s.store.CreateCandidate(r.Context(), c); err != nil {
			if len(created) == 0 {
				s.fail(w, r, err)
				return
			}
			// Candidates already created are still scored and notified below.
			s.log.Error("failed to create candidate", zap.String("filename", res.filename), zap.Error(err))
			for _, rest := range results[i:] {
				reason := "candidate could not be saved"
				if rest.err != nil {
					reason = rest.err.Error()
				}
				skipped = append(skipped, SkippedFile{Filename: rest.filename, Reason: reason})
			}
			break
		}
		created = append(created, c)
	}

	if len(created) == 0 {
		s.jsonResponse(w, http.StatusBadRequest, map[string]any{
			"error":   "no valid resumes uploaded",
			"skipped": skipped,
		})
		return
	}

	batch, err := s.scoreAndSave(r.Context(), job, created)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	for _, c := range created {
		s.recordEmail(r.Context(), c, types.EmailApplicationReceived, emails.Data{
			CandidateName: c.Name,
			JobTitle:      job.Title,
		}, nil)
	}

	s.jsonResponse(w, http.StatusOK, UploadResponse{
		Message:        fmt.Sprintf("Successfully processed %d resumes", len(created)),
		ProcessedCount: len(created),
		TotalUploaded:  len(files),
		Skipped:        skipped,
		Failures:       failures(batch),
		Candidates:     rankedCandidates(batch),
	})
}

// extractAll reads, stores and parses files concurrently, keeping upload order.
func (s *Server) extractAll(ctx context.Context, job *types.Job, files []*multipart.FileHeader) []extracted {
	vocab := ingestion.VocabularyFor(job)
	results := make([]extracted, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.parallelism))
	for i, fh := range files {
		g.Go(func() error {
			results[i] = s.extractOne(gctx, job, fh, vocab)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (s *Server) extractOne(ctx context.Context, job *types.Job, fh *multipart.FileHeader, vocab ingestion.Vocabulary) extracted {
	res := extracted{filename: fh.Filename}
	if err := ctx.Err(); err != nil {
		res.err = err
		return res
	}
	if !ingestion.IsSupported(fh.Filename) {
		res.err = &ingestion.UnsupportedFormatError{Filename: fh.Filename, Ext: strings.ToLower(filepath.Ext(fh.Filename))}
		return res
	}

	data, err := readPart(fh)
	if err != nil {
		res.err = err
		return res
	}
	text, err := ingestion.ExtractText(fh.Filename, data)
	if err != nil {
		res.err = err
		return res
	}
	if res.path, err = s.uploads.Save(job.ID, fh.Filename, data); err != nil {
		res.err = err
		return res
	}
	res.parsed = ingestion.ExtractProfile(text, vocab)
	return res
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload %s: %w", fh.Filename, err)
	}
	return data, nil
}

// nameFromFilename turns "jane_doe-resume.pdf" into "Jane Doe Resume".
func nameFromFilename(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	words := strings.FieldsFunc(base, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	if len(words) == 0 {
		return "Unknown Candidate"
	}
	return strings.Join(words, " ")
}
