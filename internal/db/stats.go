package db

import (
	"context"
	"fmt"

	"github.com/jonathan/talentflow/internal/types"
)

// recentCandidatesShown is the number of candidates on the dashboard.
const recentCandidatesShown = 5

// DashboardStats gathers the dashboard counters and the most recent candidates.
func (db *DB) DashboardStats(ctx context.Context) (*types.DashboardStats, error) {
	var stats types.DashboardStats
	err := db.pool.QueryRow(ctx,
		`SELECT
		     (SELECT COUNT(*) FROM jobs WHERE status = 'active'),
		     (SELECT COUNT(*) FROM candidates),
		     (SELECT COUNT(*) FROM interviews WHERE status = 'scheduled')`,
	).Scan(&stats.ActiveJobs, &stats.TotalCandidates, &stats.ScheduledInterviews)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard counters: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+candidateColumns+`
		 FROM candidates c JOIN jobs j ON j.id = c.job_id
		 ORDER BY c.created_at DESC, c.id
		 LIMIT $1`, recentCandidatesShown)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent candidates: %w", err)
	}
	defer rows.Close()

	stats.RecentCandidates = make([]types.Candidate, 0, recentCandidatesShown)
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		stats.RecentCandidates = append(stats.RecentCandidates, *c)
	}
	return &stats, rows.Err()
}
