package ranking

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/jonathan/talentflow/internal/types"
)

// DefaultTopN is the number of candidates listed in a summary.
const DefaultTopN = 5

// topSkillsShown caps the matched skills listed per top candidate.
const topSkillsShown = 3

// TopCandidate is a short entry in a ranking summary.
type TopCandidate struct {
	CandidateID uuid.UUID  `json:"candidate_id"`
	Name        string     `json:"name"`
	Score       float64    `json:"score"`
	Tier        types.Tier `json:"tier"`
	TopSkills   []string   `json:"top_skills"`
}

// Summary aggregates the scored candidates of a job.
type Summary struct {
	TotalCandidates  int                `json:"total_candidates"`
	TierDistribution map[types.Tier]int `json:"tier_distribution"`
	AverageScore     float64            `json:"average_score"`
	TopCandidates    []TopCandidate     `json:"top_candidates"`
}

// Summarize builds a summary over scored candidates. Unscored candidates are
// skipped. Tiers are recomputed from thresholds so the distribution always
// agrees with the scores.
func Summarize(candidates []types.Candidate, thresholds Thresholds, top int) Summary {
	if top <= 0 {
		top = DefaultTopN
	}
	s := Summary{
		TierDistribution: map[types.Tier]int{
			types.TierStrong:   0,
			types.TierModerate: 0,
			types.TierWeak:     0,
		},
		TopCandidates: make([]TopCandidate, 0, top),
	}

	scored := make([]types.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.RankingScore != nil {
			scored = append(scored, c)
		}
	}
	if len(scored) == 0 {
		return s
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := *scored[i].RankingScore, *scored[j].RankingScore
		if a != b {
			return a > b
		}
		return scored[i].Name < scored[j].Name
	})

	total := 0.0
	for i, c := range scored {
		score := *c.RankingScore
		tier := thresholds.Tier(score)
		s.TierDistribution[tier]++
		total += score
		if i < top {
			entry := TopCandidate{CandidateID: c.ID, Name: c.Name, Score: Round2(score), Tier: tier, TopSkills: []string{}}
			if c.RankingDetails != nil {
				matched := c.RankingDetails.MatchedRequired
				if len(matched) > topSkillsShown {
					matched = matched[:topSkillsShown]
				}
				entry.TopSkills = append(entry.TopSkills, matched...)
			}
			s.TopCandidates = append(s.TopCandidates, entry)
		}
	}
	s.TotalCandidates = len(scored)
	s.AverageScore = Round2(total / float64(len(scored)))
	return s
}

// Round2 rounds v to two decimal places for display.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
