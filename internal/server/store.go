package server

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/types"
)

// UserStore is the account lookup the login flow needs.
type UserStore interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
}

// Store is the persistence used by the API. Lookups return (nil, nil) for
// missing rows; updates return db.ErrNotFound.
type Store interface {
	UserStore

	Ping(ctx context.Context) error

	CreateJob(ctx context.Context, job *types.Job) error
	GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error)
	ListJobs(ctx context.Context, status *types.JobStatus) ([]types.Job, error)
	UpdateJobStatus(ctx context.Context, id uuid.UUID, status types.JobStatus) error

	CreateCandidate(ctx context.Context, c *types.Candidate) error
	GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error)
	ListCandidates(ctx context.Context, f db.CandidateFilter) ([]types.Candidate, error)
	UpdateCandidateStatus(ctx context.Context, id uuid.UUID, status types.CandidateStatus, notes *string) error
	SaveRanking(ctx context.Context, id uuid.UUID, score float64, details *types.RankingDetails, tier types.Tier) error

	ScheduleInterview(ctx context.Context, iv *types.Interview, invitation *types.Email) error
	GetInterview(ctx context.Context, id uuid.UUID) (*types.Interview, error)
	LatestInterviewForCandidate(ctx context.Context, candidateID uuid.UUID) (*types.Interview, error)
	ListInterviews(ctx context.Context, f db.InterviewFilter) ([]types.Interview, error)
	UpdateInterview(ctx context.Context, iv *types.Interview) error

	CreateEmail(ctx context.Context, e *types.Email) error
	ListEmailsByCandidate(ctx context.Context, candidateID uuid.UUID) ([]types.Email, error)

	DashboardStats(ctx context.Context) (*types.DashboardStats, error)
}

var _ Store = (*db.DB)(nil)
