package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/talentflow/internal/types"
)

const candidateColumns = `c.id, c.job_id, c.name, c.email, c.phone, c.resume_path, c.profile, c.status,
	c.notes, c.ranking_score, c.ranking_details, c.tier, c.created_at, c.updated_at, j.title`

func scanCandidate(row rowScanner) (*types.Candidate, error) {
	var c types.Candidate
	var profileJSON, detailsJSON []byte
	err := row.Scan(&c.ID, &c.JobID, &c.Name, &c.Email, &c.Phone, &c.ResumePath, &profileJSON, &c.Status,
		&c.Notes, &c.RankingScore, &detailsJSON, &c.Tier, &c.CreatedAt, &c.UpdatedAt, &c.JobTitle)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(profileJSON, &c.Profile); err != nil {
		return nil, err
	}
	if len(detailsJSON) > 0 {
		c.RankingDetails = &types.RankingDetails{}
		if err := unmarshalJSONB(detailsJSON, c.RankingDetails); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// CreateCandidate inserts the candidate and fills its ID and timestamps.
// Any score already on the record is stored with it.
func (db *DB) CreateCandidate(ctx context.Context, c *types.Candidate) error {
	profileJSON, err := marshalJSONB(c.Profile)
	if err != nil {
		return err
	}
	var detailsJSON []byte
	if c.RankingDetails != nil {
		if detailsJSON, err = marshalJSONB(c.RankingDetails); err != nil {
			return err
		}
	}
	if c.Status == "" {
		c.Status = types.CandidateStatusNew
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO candidates (job_id, name, email, phone, resume_path, profile, status, notes,
		                         ranking_score, ranking_details, tier)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		c.JobID, c.Name, c.Email, c.Phone, c.ResumePath, profileJSON, c.Status, c.Notes,
		c.RankingScore, detailsJSON, c.Tier,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create candidate: %w", err)
	}
	return nil
}

// GetCandidate returns the candidate or nil when absent.
func (db *DB) GetCandidate(ctx context.Context, id uuid.UUID) (*types.Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates c JOIN jobs j ON j.id = c.job_id
		 WHERE c.id = $1`, id)
	c, err := scanCandidate(row)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate: %w", err)
	}
	return c, nil
}

// CandidateFilter narrows ListCandidates. Zero values match everything.
type CandidateFilter struct {
	JobID  *uuid.UUID
	Status *types.CandidateStatus
	Limit  int
}

// ListCandidates returns candidates best score first; unscored candidates
// follow, newest first.
func (db *DB) ListCandidates(ctx context.Context, f CandidateFilter) ([]types.Candidate, error) {
	query := `SELECT ` + candidateColumns + `
		 FROM candidates c JOIN jobs j ON j.id = c.job_id
		 WHERE 1=1`
	var args []any
	if f.JobID != nil {
		args = append(args, *f.JobID)
		query += fmt.Sprintf(" AND c.job_id = $%d", len(args))
	}
	if f.Status != nil {
		args = append(args, *f.Status)
		query += fmt.Sprintf(" AND c.status = $%d", len(args))
	}
	query += ` ORDER BY c.ranking_score DESC NULLS LAST, c.created_at DESC, c.id`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	out := make([]types.Candidate, 0)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// UpdateCandidateStatus sets the status and, when notes is non-nil, the notes.
func (db *DB) UpdateCandidateStatus(ctx context.Context, id uuid.UUID, status types.CandidateStatus, notes *string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE candidates
		 SET status = $1, notes = COALESCE($2, notes), updated_at = NOW()
		 WHERE id = $3`,
		status, notes, id)
	if err != nil {
		return fmt.Errorf("failed to update candidate status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveRanking writes score, details and tier in one statement so readers
// never see a score paired with a stale tier.
func (db *DB) SaveRanking(ctx context.Context, id uuid.UUID, score float64, details *types.RankingDetails, tier types.Tier) error {
	detailsJSON, err := marshalJSONB(details)
	if err != nil {
		return err
	}
	tag, err := db.pool.Exec(ctx,
		`UPDATE candidates
		 SET ranking_score = $1, ranking_details = $2, tier = $3, updated_at = NOW()
		 WHERE id = $4`,
		score, detailsJSON, tier, id)
	if err != nil {
		return fmt.Errorf("failed to save ranking: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
