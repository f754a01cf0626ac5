package ranking

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talentflow/internal/types"
)

// DefaultParallelism bounds concurrent scoring when no limit is given.
const DefaultParallelism = 4

// Ranked pairs a candidate with its scoring result.
type Ranked struct {
	Candidate *types.Candidate
	Result    *Result
}

// Failure records a candidate that could not be scored.
type Failure struct {
	CandidateID uuid.UUID `json:"candidate_id"`
	Name        string    `json:"name"`
	Err         error     `json:"-"`
	Reason      string    `json:"reason"`
}

// Batch is the outcome of ranking a set of candidates for one job.
type Batch struct {
	Ranked   []Ranked
	Failures []Failure
}

// Rank scores every candidate for job concurrently and returns them best first.
// Candidates that fail validation are reported in Failures and do not stop the batch.
// Only context cancellation aborts the whole call.
func (e *Engine) Rank(ctx context.Context, job *types.Job, candidates []*types.Candidate, parallelism int) (*Batch, error) {
	if job == nil || job.ID == uuid.Nil {
		return nil, checkInputs(job, &types.Candidate{})
	}
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}

	results := make([]*Result, len(candidates))
	errs := make([]error, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, c := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i], errs[i] = e.Score(job, c)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &Batch{Ranked: make([]Ranked, 0, len(candidates))}
	for i, c := range candidates {
		if errs[i] != nil {
			f := Failure{Err: errs[i], Reason: errs[i].Error()}
			if c != nil {
				f.CandidateID = c.ID
				f.Name = c.Name
			}
			batch.Failures = append(batch.Failures, f)
			continue
		}
		batch.Ranked = append(batch.Ranked, Ranked{Candidate: c, Result: results[i]})
	}
	SortRanked(batch.Ranked)
	return batch, nil
}

// SortRanked orders by score descending, then name and id for stable output.
func SortRanked(ranked []Ranked) {
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.Result.RankingScore != b.Result.RankingScore {
			return a.Result.RankingScore > b.Result.RankingScore
		}
		if a.Candidate.Name != b.Candidate.Name {
			return a.Candidate.Name < b.Candidate.Name
		}
		return a.Candidate.ID.String() < b.Candidate.ID.String()
	})
}

// Candidates applies every result to its candidate and returns them in rank order.
func (b *Batch) Candidates() []*types.Candidate {
	out := make([]*types.Candidate, 0, len(b.Ranked))
	for _, r := range b.Ranked {
		Apply(r.Candidate, r.Result)
		out = append(out, r.Candidate)
	}
	return out
}
