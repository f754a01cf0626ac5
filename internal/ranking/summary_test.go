package ranking

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/talentflow/internal/types"
)

func scored(name string, score float64, matched ...string) types.Candidate {
	return types.Candidate{
		ID:             uuid.New(),
		Name:           name,
		RankingScore:   floatPtr(score),
		RankingDetails: &types.RankingDetails{MatchedRequired: matched},
	}
}

func TestSummarize(t *testing.T) {
	cands := []types.Candidate{
		scored("C", 41),
		scored("A", 90, "Go", "SQL", "Docker", "Kafka"),
		{ID: uuid.New(), Name: "Unscored"},
		scored("B", 75.556, "Go"),
		scored("D", 10),
		scored("E", 39.99),
		scored("F", 60),
	}

	s := Summarize(cands, DefaultThresholds(), 0)

	assert.Equal(t, 6, s.TotalCandidates)
	assert.Equal(t, 2, s.TierDistribution[types.TierStrong])
	assert.Equal(t, 2, s.TierDistribution[types.TierModerate])
	assert.Equal(t, 2, s.TierDistribution[types.TierWeak])
	assert.Equal(t, 52.76, s.AverageScore)

	require.Len(t, s.TopCandidates, DefaultTopN)
	assert.Equal(t, "A", s.TopCandidates[0].Name)
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, s.TopCandidates[0].TopSkills)
	assert.Equal(t, 75.56, s.TopCandidates[1].Score)
	assert.Equal(t, types.TierStrong, s.TopCandidates[1].Tier)
	assert.Equal(t, "E", s.TopCandidates[4].Name)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, DefaultThresholds(), 3)
	assert.Equal(t, 0, s.TotalCandidates)
	assert.Equal(t, 0.0, s.AverageScore)
	assert.Empty(t, s.TopCandidates)
	assert.Len(t, s.TierDistribution, 3)
}
