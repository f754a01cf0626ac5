package ranking

import (
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/talentflow/internal/skills"
	"github.com/jonathan/talentflow/internal/types"
)

// Skill component weights inside skills_match.
const (
	requiredSkillsShare  = 0.7
	preferredSkillsShare = 0.3
)

type skillsOutcome struct {
	score            float64
	matchedRequired  []string
	missingRequired  []string
	matchedPreferred []string
}

// computeSkillsMatch scores overlap with required and preferred skills.
// An empty requirement list counts as fully met.
func computeSkillsMatch(req *types.JobRequirements, profile *types.CandidateProfile, diags *[]types.Diagnostic) skillsOutcome {
	required := skills.NewSet(req.RequiredSkills)
	preferred := skills.NewSet(req.PreferredSkills)
	candidate := skills.NewSet(profile.Skills)

	if required.Len() == 0 {
		*diags = append(*diags, types.Diagnostic{
			SubScore: types.SubScoreSkillsMatch,
			Code:     DiagRequiredSkillsEmpty,
			Message:  "job lists no required skills; required component treated as fully met",
		})
	}
	if candidate.Len() == 0 && (required.Len() > 0 || preferred.Len() > 0) {
		*diags = append(*diags, types.Diagnostic{
			SubScore: types.SubScoreSkillsMatch,
			Code:     DiagCandidateSkillsEmpty,
			Message:  "candidate lists no skills",
		})
	}

	out := skillsOutcome{
		matchedRequired:  required.Intersect(candidate),
		missingRequired:  required.Difference(candidate),
		matchedPreferred: preferred.Intersect(candidate),
	}
	out.score = 100*overlapRatio(len(out.matchedRequired), required.Len())*requiredSkillsShare +
		100*overlapRatio(len(out.matchedPreferred), preferred.Len())*preferredSkillsShare
	return out
}

func overlapRatio(matched, total int) float64 {
	if total == 0 {
		return 1.0
	}
	return float64(matched) / float64(total)
}

// computeExperienceRelevance gives full credit at or above the minimum and
// proportional credit below it.
func computeExperienceRelevance(years, minYears float64) float64 {
	if years >= minYears {
		return 100
	}
	return clamp(100 * years / math.Max(1, minYears))
}

// computeEducationMatch gives full credit at or above the required level and
// loses penalty points per level below it.
func computeEducationMatch(candidate, required EducationLevel, penaltyPerLevel float64) float64 {
	if candidate >= required {
		return 100
	}
	return clamp(100 - penaltyPerLevel*float64(required-candidate))
}

// computeOverallFit averages the holistic signals that are available:
// certification coverage and required-skill mentions in the free-text summary.
// None of them read the other sub-scores.
func computeOverallFit(req *types.JobRequirements, profile *types.CandidateProfile, baseline float64, diags *[]types.Diagnostic) float64 {
	var signals []float64

	jobCerts := skills.NewSet(req.Certifications)
	if jobCerts.Len() > 0 {
		held := jobCerts.Intersect(skills.NewSet(profile.Certifications))
		signals = append(signals, 100*float64(len(held))/float64(jobCerts.Len()))
	}

	required := skills.NewSet(req.RequiredSkills)
	if summary := strings.TrimSpace(profile.Summary); summary != "" && required.Len() > 0 {
		mentioned := 0
		for _, name := range required.Names() {
			if skills.Mentions(summary, name) {
				mentioned++
			}
		}
		signals = append(signals, 100*float64(mentioned)/float64(required.Len()))
	}

	if len(signals) == 0 {
		*diags = append(*diags, types.Diagnostic{
			SubScore: types.SubScoreOverallFit,
			Code:     DiagOverallFitBaseline,
			Message:  fmt.Sprintf("no certification or summary signal; using baseline %v", baseline),
		})
		return clamp(baseline)
	}

	sum := 0.0
	for _, s := range signals {
		sum += s
	}
	return clamp(sum / float64(len(signals)))
}

// Combine applies the weight table to the four sub-scores in canonical order.
func Combine(w Weights, d *types.RankingDetails) float64 {
	score := w.SkillsMatch*d.SkillsMatch +
		w.ExperienceRelevance*d.ExperienceRelevance +
		w.EducationMatch*d.EducationMatch +
		w.OverallFit*d.OverallFit
	return clamp(score)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
