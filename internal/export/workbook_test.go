package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/talentflow/internal/ranking"
	"github.com/jonathan/talentflow/internal/types"
)

func scored(name string, score float64, tier types.Tier) types.Candidate {
	return types.Candidate{
		ID:           uuid.New(),
		Name:         name,
		Email:        name + "@example.com",
		Status:       types.CandidateStatusNew,
		RankingScore: &score,
		Tier:         &tier,
		RankingDetails: &types.RankingDetails{
			SkillsMatch:         90,
			ExperienceRelevance: 100,
			EducationMatch:      50,
			OverallFit:          12.3456,
		},
	}
}

func TestWriteRankingWorkbook(t *testing.T) {
	job := &types.Job{
		ID:         uuid.New(),
		Title:      "Data Engineer",
		Department: "Platform",
		Requirements: types.JobRequirements{
			RequiredSkills: []string{"Go", "SQL"},
		},
	}
	candidates := []types.Candidate{
		scored("ada", 81, types.TierStrong),
		scored("bob", 42.5, types.TierModerate),
		{ID: uuid.New(), Name: "cy", Email: "cy@example.com", Status: types.CandidateStatusNew},
	}
	summary := ranking.Summarize(candidates, ranking.DefaultThresholds(), 5)
	generated := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, WriteRankingWorkbook(&buf, job, candidates, summary, generated))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{SummarySheet, CandidatesSheet}, f.GetSheetList())

	cell := func(sheet, axis string) string {
		t.Helper()
		v, err := f.GetCellValue(sheet, axis)
		require.NoError(t, err)
		return v
	}
	assert.Equal(t, "Ranking Report", cell(SummarySheet, "A1"))
	assert.Equal(t, "Data Engineer", cell(SummarySheet, "B2"))
	assert.Equal(t, "Go, SQL", cell(SummarySheet, "B4"))
	assert.Equal(t, "2026-03-04T10:00:00Z", cell(SummarySheet, "B5"))
	assert.Equal(t, "2", cell(SummarySheet, "B8"))
	assert.Equal(t, "1", cell(SummarySheet, "B10"))

	rows, err := f.GetRows(CandidatesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, CandidateHeaders, rows[0])
	assert.Equal(t, []string{"1", "ada", "ada@example.com", "81", "strong fit", "90", "100", "50", "12.35", "new"}, rows[1])
	assert.Equal(t, "42.5", rows[2][3])
	assert.Equal(t, "moderate fit", rows[2][4])
	assert.Equal(t, "unscored", rows[3][4])
	assert.Empty(t, rows[3][3])
}

func TestWriteRankingWorkbook_NoCandidates(t *testing.T) {
	var buf bytes.Buffer
	job := &types.Job{ID: uuid.New(), Title: "Empty"}

	err := WriteRankingWorkbook(&buf, job, nil, ranking.Summarize(nil, ranking.DefaultThresholds(), 0), time.Now())
	require.NoError(t, err)
	assert.NotZero(t, buf.Len())
}
