package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/talentflow/internal/types"
)

const jobColumns = `j.id, j.title, j.department, j.description, j.requirements, j.status,
	j.created_by, j.created_at, j.updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner, extra ...any) (*types.Job, error) {
	var j types.Job
	var reqJSON []byte
	dest := append([]any{&j.ID, &j.Title, &j.Department, &j.Description, &reqJSON, &j.Status,
		&j.CreatedBy, &j.CreatedAt, &j.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := unmarshalJSONB(reqJSON, &j.Requirements); err != nil {
		return nil, err
	}
	return &j, nil
}

// CreateJob inserts the job and fills its ID and timestamps.
func (db *DB) CreateJob(ctx context.Context, job *types.Job) error {
	reqJSON, err := marshalJSONB(job.Requirements)
	if err != nil {
		return err
	}
	if job.Status == "" {
		job.Status = types.JobStatusActive
	}
	err = db.pool.QueryRow(ctx,
		`INSERT INTO jobs (title, department, description, requirements, status, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		job.Title, job.Department, job.Description, reqJSON, job.Status, job.CreatedBy,
	).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create job: %w", err)
	}
	return nil
}

// GetJob returns the job or nil when absent.
func (db *DB) GetJob(ctx context.Context, id uuid.UUID) (*types.Job, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+`,
		        (SELECT COUNT(*) FROM candidates c WHERE c.job_id = j.id)
		 FROM jobs j WHERE j.id = $1`, id)
	var count int
	job, err := scanJob(row, &count)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	job.CandidateCount = count
	return job, nil
}

// ListJobs returns jobs newest first. A nil status lists every job.
func (db *DB) ListJobs(ctx context.Context, status *types.JobStatus) ([]types.Job, error) {
	query := `SELECT ` + jobColumns + `, COUNT(c.id)
		 FROM jobs j
		 LEFT JOIN candidates c ON c.job_id = j.id
		 WHERE 1=1`
	var args []any
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND j.status = $%d", len(args))
	}
	query += ` GROUP BY j.id ORDER BY j.created_at DESC`

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	jobs := make([]types.Job, 0)
	for rows.Next() {
		var count int
		job, err := scanJob(rows, &count)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		job.CandidateCount = count
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// UpdateJobStatus changes the status only; requirements are immutable.
func (db *DB) UpdateJobStatus(ctx context.Context, id uuid.UUID, status types.JobStatus) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE jobs SET status = $1, updated_at = NOW() WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
