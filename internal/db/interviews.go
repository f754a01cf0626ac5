package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/talentflow/internal/types"
)

const interviewColumns = `i.id, i.candidate_id, i.job_id, i.scheduled_at, i.duration_minutes, i.interview_type,
	i.location, i.meeting_link, i.interviewers, i.status, i.candidate_confirmed, i.notes, i.feedback,
	i.created_at, i.updated_at, c.name, j.title`

const interviewFrom = ` FROM interviews i
	 JOIN candidates c ON c.id = i.candidate_id
	 JOIN jobs j ON j.id = i.job_id`

func scanInterview(row rowScanner) (*types.Interview, error) {
	var iv types.Interview
	var interviewers StringArray
	err := row.Scan(&iv.ID, &iv.CandidateID, &iv.JobID, &iv.ScheduledAt, &iv.DurationMinutes, &iv.InterviewType,
		&iv.Location, &iv.MeetingLink, &interviewers, &iv.Status, &iv.CandidateConfirmed, &iv.Notes, &iv.Feedback,
		&iv.CreatedAt, &iv.UpdatedAt, &iv.CandidateName, &iv.JobTitle)
	if err != nil {
		return nil, err
	}
	iv.Interviewers = []string(interviewers)
	return &iv, nil
}

func insertInterview(ctx context.Context, q pgx.Tx, iv *types.Interview) error {
	return q.QueryRow(ctx,
		`INSERT INTO interviews (candidate_id, job_id, scheduled_at, duration_minutes, interview_type,
		                         location, meeting_link, interviewers, status, candidate_confirmed, notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at, updated_at`,
		iv.CandidateID, iv.JobID, iv.ScheduledAt, iv.DurationMinutes, iv.InterviewType,
		iv.Location, iv.MeetingLink, StringArray(iv.Interviewers), iv.Status, iv.CandidateConfirmed, iv.Notes,
	).Scan(&iv.ID, &iv.CreatedAt, &iv.UpdatedAt)
}

// ScheduleInterview books the interview, moves the candidate to
// interview_scheduled and records the invitation in one transaction.
func (db *DB) ScheduleInterview(ctx context.Context, iv *types.Interview, invitation *types.Email) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		if err := insertInterview(ctx, tx, iv); err != nil {
			return fmt.Errorf("failed to create interview: %w", err)
		}
		tag, err := tx.Exec(ctx,
			`UPDATE candidates SET status = $1, updated_at = NOW() WHERE id = $2`,
			types.CandidateStatusInterviewScheduled, iv.CandidateID)
		if err != nil {
			return fmt.Errorf("failed to update candidate status: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		if invitation != nil {
			invitation.InterviewID = &iv.ID
			if err := insertEmail(ctx, tx, invitation); err != nil {
				return fmt.Errorf("failed to record invitation: %w", err)
			}
		}
		return nil
	})
}

// GetInterview returns the interview or nil when absent.
func (db *DB) GetInterview(ctx context.Context, id uuid.UUID) (*types.Interview, error) {
	iv, err := scanInterview(db.pool.QueryRow(ctx, `SELECT `+interviewColumns+interviewFrom+` WHERE i.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	return iv, nil
}

// LatestInterviewForCandidate returns the most recently booked interview or nil.
func (db *DB) LatestInterviewForCandidate(ctx context.Context, candidateID uuid.UUID) (*types.Interview, error) {
	iv, err := scanInterview(db.pool.QueryRow(ctx,
		`SELECT `+interviewColumns+interviewFrom+`
		 WHERE i.candidate_id = $1
		 ORDER BY i.created_at DESC LIMIT 1`, candidateID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get candidate interview: %w", err)
	}
	return iv, nil
}

// InterviewFilter narrows ListInterviews. Zero values match everything.
type InterviewFilter struct {
	Status *types.InterviewStatus
	// From and To bound scheduled_at, inclusive of From and exclusive of To.
	From, To *time.Time
	// ActiveOnly drops cancelled interviews.
	ActiveOnly bool
}

// ListInterviews returns interviews in schedule order.
func (db *DB) ListInterviews(ctx context.Context, f InterviewFilter) ([]types.Interview, error) {
	query := `SELECT ` + interviewColumns + interviewFrom + ` WHERE 1=1`
	var args []any
	if f.Status != nil {
		args = append(args, *f.Status)
		query += fmt.Sprintf(" AND i.status = $%d", len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		query += fmt.Sprintf(" AND i.scheduled_at >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		query += fmt.Sprintf(" AND i.scheduled_at < $%d", len(args))
	}
	if f.ActiveOnly {
		query += " AND i.status <> 'cancelled'"
	}
	query += ` ORDER BY i.scheduled_at, i.id`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer rows.Close()

	out := make([]types.Interview, 0)
	for rows.Next() {
		iv, err := scanInterview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interview: %w", err)
		}
		out = append(out, *iv)
	}
	return out, rows.Err()
}

// UpdateInterview persists status, schedule, confirmation, notes and feedback.
func (db *DB) UpdateInterview(ctx context.Context, iv *types.Interview) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE interviews
		 SET status = $1, scheduled_at = $2, candidate_confirmed = $3, notes = $4, feedback = $5,
		     updated_at = NOW()
		 WHERE id = $6`,
		iv.Status, iv.ScheduledAt, iv.CandidateConfirmed, iv.Notes, iv.Feedback, iv.ID)
	if err != nil {
		return fmt.Errorf("failed to update interview: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
