package server

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/talentflow/internal/db"
	"github.com/jonathan/talentflow/internal/types"
)

// fakeStore is an in-memory Store with the ordering rules of the database.
type fakeStore struct {
	mu         sync.Mutex
	clock      time.Time
	pingErr    error
	users      map[uuid.UUID]*db.User
	jobs       map[uuid.UUID]*types.Job
	candidates map[uuid.UUID]*types.Candidate
	interviews map[uuid.UUID]*types.Interview
	emails     []types.Email
	saves      int
	// createErr and saveErr fail CreateCandidate and SaveRanking by candidate name.
	createErr map[string]error
	saveErr   map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		clock:      testNow,
		users:      make(map[uuid.UUID]*db.User),
		jobs:       make(map[uuid.UUID]*types.Job),
		candidates: make(map[uuid.UUID]*types.Candidate),
		interviews: make(map[uuid.UUID]*types.Interview),
	}
}

// tick returns a strictly increasing timestamp so creation order is observable.
func (f *fakeStore) tick() time.Time {
	f.clock = f.clock.Add(time.Second)
	return f.clock
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) addUser(name, email, hash, role string, active bool) *db.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &db.User{ID: uuid.New(), Name: name, Email: strings.ToLower(email), PasswordHash: hash,
		Role: role, IsActive: active, CreatedAt: f.tick()}
	u.UpdatedAt = u.CreatedAt
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) GetUserByID(_ context.Context, id uuid.UUID) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == strings.ToLower(strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateJob(_ context.Context, job *types.Job) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	job.ID = uuid.New()
	job.CreatedAt = f.tick()
	job.UpdatedAt = job.CreatedAt
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeStore) countFor(jobID uuid.UUID) int {
	n := 0
	for _, c := range f.candidates {
		if c.JobID == jobID {
			n++
		}
	}
	return n
}

func (f *fakeStore) GetJob(_ context.Context, id uuid.UUID) (*types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	cp.CandidateCount = f.countFor(id)
	return &cp, nil
}

func (f *fakeStore) ListJobs(_ context.Context, status *types.JobStatus) ([]types.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.Job, 0)
	for _, j := range f.jobs {
		if status == nil || j.Status == *status {
			cp := *j
			cp.CandidateCount = f.countFor(j.ID)
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].CreatedAt.After(out[k].CreatedAt) })
	return out, nil
}

func (f *fakeStore) UpdateJobStatus(_ context.Context, id uuid.UUID, status types.JobStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	j, ok := f.jobs[id]
	if !ok {
		return db.ErrNotFound
	}
	j.Status = status
	j.UpdatedAt = f.tick()
	return nil
}

func (f *fakeStore) withTitle(c *types.Candidate) types.Candidate {
	cp := *c
	if j, ok := f.jobs[c.JobID]; ok {
		cp.JobTitle = j.Title
	}
	return cp
}

func (f *fakeStore) CreateCandidate(_ context.Context, c *types.Candidate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.jobs[c.JobID]; !ok {
		return errors.New("foreign key violation: job")
	}
	if err := f.createErr[c.Name]; err != nil {
		return err
	}
	if c.Status == "" {
		c.Status = types.CandidateStatusNew
	}
	c.ID = uuid.New()
	c.CreatedAt = f.tick()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	f.candidates[c.ID] = &cp
	return nil
}

func (f *fakeStore) GetCandidate(_ context.Context, id uuid.UUID) (*types.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[id]
	if !ok {
		return nil, nil
	}
	cp := f.withTitle(c)
	return &cp, nil
}

func (f *fakeStore) ListCandidates(_ context.Context, filter db.CandidateFilter) ([]types.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.Candidate, 0)
	for _, c := range f.candidates {
		if filter.JobID != nil && c.JobID != *filter.JobID {
			continue
		}
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		out = append(out, f.withTitle(c))
	}
	sort.Slice(out, func(i, k int) bool {
		a, b := out[i], out[k]
		switch {
		case a.RankingScore != nil && b.RankingScore == nil:
			return true
		case a.RankingScore == nil && b.RankingScore != nil:
			return false
		case a.RankingScore != nil && *a.RankingScore != *b.RankingScore:
			return *a.RankingScore > *b.RankingScore
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeStore) UpdateCandidateStatus(_ context.Context, id uuid.UUID, status types.CandidateStatus, notes *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[id]
	if !ok {
		return db.ErrNotFound
	}
	c.Status = status
	if notes != nil {
		c.Notes = *notes
	}
	c.UpdatedAt = f.tick()
	return nil
}

func (f *fakeStore) SaveRanking(_ context.Context, id uuid.UUID, score float64, details *types.RankingDetails, tier types.Tier) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[id]
	if !ok {
		return db.ErrNotFound
	}
	if err := f.saveErr[c.Name]; err != nil {
		return err
	}
	d := *details
	c.RankingScore = &score
	c.RankingDetails = &d
	c.Tier = &tier
	f.saves++
	return nil
}

func (f *fakeStore) insertEmail(e *types.Email) {
	e.ID = uuid.New()
	e.CreatedAt = f.tick()
	if e.Status == "" {
		e.Status = types.EmailStatusPending
	}
	f.emails = append(f.emails, *e)
}

func (f *fakeStore) ScheduleInterview(_ context.Context, iv *types.Interview, invitation *types.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.candidates[iv.CandidateID]
	if !ok {
		return db.ErrNotFound
	}
	iv.ID = uuid.New()
	iv.CreatedAt = f.tick()
	iv.UpdatedAt = iv.CreatedAt
	stored := *iv
	stored.CandidateName = c.Name
	if j, ok := f.jobs[c.JobID]; ok {
		stored.JobTitle = j.Title
	}
	f.interviews[iv.ID] = &stored
	c.Status = types.CandidateStatusInterviewScheduled
	if invitation != nil {
		invitation.InterviewID = &iv.ID
		f.insertEmail(invitation)
	}
	return nil
}

func (f *fakeStore) GetInterview(_ context.Context, id uuid.UUID) (*types.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	iv, ok := f.interviews[id]
	if !ok {
		return nil, nil
	}
	cp := *iv
	return &cp, nil
}

func (f *fakeStore) LatestInterviewForCandidate(_ context.Context, candidateID uuid.UUID) (*types.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *types.Interview
	for _, iv := range f.interviews {
		if iv.CandidateID == candidateID && (latest == nil || iv.CreatedAt.After(latest.CreatedAt)) {
			latest = iv
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (f *fakeStore) ListInterviews(_ context.Context, filter db.InterviewFilter) ([]types.Interview, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.Interview, 0)
	for _, iv := range f.interviews {
		if filter.Status != nil && iv.Status != *filter.Status {
			continue
		}
		if filter.ActiveOnly && !iv.Active() {
			continue
		}
		if filter.From != nil && iv.ScheduledAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && !iv.ScheduledAt.Before(*filter.To) {
			continue
		}
		out = append(out, *iv)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ScheduledAt.Before(out[k].ScheduledAt) })
	return out, nil
}

func (f *fakeStore) UpdateInterview(_ context.Context, iv *types.Interview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.interviews[iv.ID]
	if !ok {
		return db.ErrNotFound
	}
	stored.Status = iv.Status
	stored.ScheduledAt = iv.ScheduledAt
	stored.CandidateConfirmed = iv.CandidateConfirmed
	stored.Notes = iv.Notes
	stored.Feedback = iv.Feedback
	stored.UpdatedAt = f.tick()
	return nil
}

func (f *fakeStore) CreateEmail(_ context.Context, e *types.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.candidates[e.CandidateID]; !ok {
		return errors.New("foreign key violation: candidate")
	}
	f.insertEmail(e)
	return nil
}

func (f *fakeStore) ListEmailsByCandidate(_ context.Context, candidateID uuid.UUID) ([]types.Email, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]types.Email, 0)
	for i := len(f.emails) - 1; i >= 0; i-- {
		if f.emails[i].CandidateID == candidateID {
			out = append(out, f.emails[i])
		}
	}
	return out, nil
}

func (f *fakeStore) emailsOfType(kind types.EmailType) []types.Email {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []types.Email
	for _, e := range f.emails {
		if e.Type == kind {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeStore) DashboardStats(context.Context) (*types.DashboardStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &types.DashboardStats{TotalCandidates: len(f.candidates), RecentCandidates: make([]types.Candidate, 0)}
	for _, j := range f.jobs {
		if j.Status == types.JobStatusActive {
			stats.ActiveJobs++
		}
	}
	for _, iv := range f.interviews {
		if iv.Status == types.InterviewStatusScheduled {
			stats.ScheduledInterviews++
		}
	}
	recent := make([]types.Candidate, 0, len(f.candidates))
	for _, c := range f.candidates {
		recent = append(recent, f.withTitle(c))
	}
	sort.Slice(recent, func(i, k int) bool { return recent[i].CreatedAt.After(recent[k].CreatedAt) })
	if len(recent) > 5 {
		recent = recent[:5]
	}
	stats.RecentCandidates = append(stats.RecentCandidates, recent...)
	return stats, nil
}

var _ Store = (*fakeStore)(nil)
