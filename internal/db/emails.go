package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/talentflow/internal/types"
)

func insertEmail(ctx context.Context, tx pgx.Tx, e *types.Email) error {
	if e.Status == "" {
		e.Status = types.EmailStatusPending
	}
	return tx.QueryRow(ctx,
		`INSERT INTO emails (candidate_id, interview_id, type, subject, body, status, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		e.CandidateID, e.InterviewID, e.Type, e.Subject, e.Body, e.Status, e.SentAt,
	).Scan(&e.ID, &e.CreatedAt)
}

// CreateEmail records an email addressed to a candidate.
func (db *DB) CreateEmail(ctx context.Context, e *types.Email) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		if err := insertEmail(ctx, tx, e); err != nil {
			return fmt.Errorf("failed to create email: %w", err)
		}
		return nil
	})
}

// ListEmailsByCandidate returns a candidate's emails newest first.
func (db *DB) ListEmailsByCandidate(ctx context.Context, candidateID uuid.UUID) ([]types.Email, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, candidate_id, interview_id, type, subject, body, status, sent_at, created_at
		 FROM emails WHERE candidate_id = $1
		 ORDER BY created_at DESC, id`, candidateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list emails: %w", err)
	}
	defer rows.Close()

	out := make([]types.Email, 0)
	for rows.Next() {
		var e types.Email
		if err := rows.Scan(&e.ID, &e.CandidateID, &e.InterviewID, &e.Type, &e.Subject, &e.Body,
			&e.Status, &e.SentAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan email: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
