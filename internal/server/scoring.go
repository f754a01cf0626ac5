package server

import (
	"context"

	"go.uber.org/zap"

	"github.com/jonathan/talentflow/internal/ranking"
	"github.com/jonathan/talentflow/internal/types"
)

// scoreAndSave ranks candidates for job and persists every result. Score,
// details and tier of a candidate are always written together. A candidate
// whose result cannot be saved moves from Ranked to Failures, so the batch
// reports exactly what was stored.
func (s *Server) scoreAndSave(ctx context.Context, job *types.Job, candidates []*types.Candidate) (*ranking.Batch, error) {
	batch, err := s.engine.Rank(ctx, job, candidates, s.parallelism)
	if err != nil {
		return nil, err
	}

	saved := batch.Ranked[:0]
	for _, r := range batch.Ranked {
		res := r.Result
		if err := s.store.SaveRanking(ctx, r.Candidate.ID, res.RankingScore, &res.Details, res.Tier); err != nil {
			s.log.Error("failed to save ranking",
				zap.Stringer("candidate_id", r.Candidate.ID),
				zap.Error(err))
			batch.Failures = append(batch.Failures, ranking.Failure{
				CandidateID: r.Candidate.ID,
				Name:        r.Candidate.Name,
				Err:         err,
				Reason:      "failed to save ranking",
			})
			continue
		}
		ranking.Apply(r.Candidate, res)
		saved = append(saved, r)
		s.log.Debug("candidate scored",
			zap.Stringer("candidate_id", r.Candidate.ID),
			zap.Float64("score", res.RankingScore),
			zap.String("tier", string(res.Tier)),
			zap.Int("diagnostics", len(res.Details.Diagnostics)))
	}
	batch.Ranked = saved

	for _, f := range batch.Failures {
		s.log.Warn("candidate not scored",
			zap.Stringer("candidate_id", f.CandidateID),
			zap.String("reason", f.Reason))
	}

	s.log.Info("scoring pass complete",
		zap.Stringer("job_id", job.ID),
		zap.Int("scored", len(batch.Ranked)),
		zap.Int("failed", len(batch.Failures)))
	return batch, nil
}

// rankedCandidates returns the scored candidates of a batch, best first.
func rankedCandidates(batch *ranking.Batch) []*types.Candidate {
	out := make([]*types.Candidate, 0, len(batch.Ranked))
	for _, r := range batch.Ranked {
		out = append(out, r.Candidate)
	}
	return out
}

// failures never marshals as null.
func failures(batch *ranking.Batch) []ranking.Failure {
	if batch.Failures == nil {
		return []ranking.Failure{}
	}
	return batch.Failures
}
