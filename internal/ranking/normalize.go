package ranking

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonathan/talentflow/internal/types"
)

// EducationLevel is an ordered degree level.
type EducationLevel int

// Education levels in ascending order.
const (
	EducationNone EducationLevel = iota
	EducationHighSchool
	EducationAssociate
	EducationBachelor
	EducationMaster
	EducationPhD
)

var educationLevelNames = map[EducationLevel]string{
	EducationNone:       "none",
	EducationHighSchool: "high_school",
	EducationAssociate:  "associate",
	EducationBachelor:   "bachelor",
	EducationMaster:     "master",
	EducationPhD:        "phd",
}

func (l EducationLevel) String() string {
	if name, ok := educationLevelNames[l]; ok {
		return name
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// canonicalEducationLevels maps bare level names, including the ones String
// emits, after spaces and dashes become underscores and apostrophes are dropped.
var canonicalEducationLevels = map[string]EducationLevel{
	"none":           EducationNone,
	"no_requirement": EducationNone,
	"any":            EducationNone,
	"high_school":    EducationHighSchool,
	"highschool":     EducationHighSchool,
	"secondary":      EducationHighSchool,
	"associate":      EducationAssociate,
	"associates":     EducationAssociate,
	"bachelor":       EducationBachelor,
	"bachelors":      EducationBachelor,
	"master":         EducationMaster,
	"masters":        EducationMaster,
	"phd":            EducationPhD,
	"doctorate":      EducationPhD,
}

// educationPatterns are checked from the highest level down.
var educationPatterns = []struct {
	level   EducationLevel
	pattern *regexp.Regexp
}{
	{EducationPhD, regexp.MustCompile(`(?:^|[^a-z])(ph\.?\s?d\.?|doctorate|doctoral|doctor of|d\.phil)(?:$|[^a-z])`)},
	{EducationMaster, regexp.MustCompile(`(?:^|[^a-z])(masters?|master's|msc|m\.sc\.?|m\.s\.|mba|m\.eng\.?|meng|m\.a\.)(?:$|[^a-z])`)},
	{EducationBachelor, regexp.MustCompile(`(?:^|[^a-z])(bachelors?|bachelor's|bsc|b\.sc\.?|b\.s\.|bs|b\.a\.|ba|beng|b\.eng\.?|undergraduate)(?:$|[^a-z])`)},
	{EducationAssociate, regexp.MustCompile(`(?:^|[^a-z])(associates?'?s?\s+(?:degree|of)|associate's|a\.a\.|a\.s\.|aas)(?:$|[^a-z])`)},
	{EducationHighSchool, regexp.MustCompile(`(?:^|[^a-z])(high\s*school|secondary school|ged)(?:$|[^a-z])`)},
}

// ParseEducationLevel finds the highest degree level named in text.
func ParseEducationLevel(text string) (EducationLevel, bool) {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return EducationNone, false
	}
	key := strings.NewReplacer(" ", "_", "-", "_", "'", "", "’", "").Replace(strings.TrimRight(lower, "."))
	if level, ok := canonicalEducationLevels[key]; ok {
		return level, true
	}
	for _, p := range educationPatterns {
		if p.pattern.MatchString(lower) {
			return p.level, true
		}
	}
	return EducationNone, false
}

// Normalizer turns loosely structured candidate data into comparable values.
// Implementations must be deterministic.
type Normalizer interface {
	// ExperienceYears estimates total years of experience.
	ExperienceYears(profile *types.CandidateProfile) (float64, *types.Diagnostic)
	// EducationLevel returns the highest level across education entries.
	EducationLevel(entries []string) (EducationLevel, *types.Diagnostic)
}

var (
	yearsMentionPattern = regexp.MustCompile(`(?i)\b(\d{1,2}(?:\.\d+)?)\s*\+?\s*(?:years?|yrs?)\b`)
	yearRangePattern    = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})\s*(?:-|–|—|to)\s*((?:19|20)\d{2}|present|current|now)\b`)
)

// DefaultNormalizer reads explicit year counts, "N years" mentions and year ranges.
type DefaultNormalizer struct {
	// ReferenceYear closes open ranges such as "2019 - present".
	ReferenceYear int
	// Clock supplies the reference year when ReferenceYear is zero.
	// With neither set, open ranges are left out of the estimate.
	Clock func() time.Time
}

func (n DefaultNormalizer) referenceYear() int {
	if n.ReferenceYear != 0 {
		return n.ReferenceYear
	}
	if n.Clock != nil {
		return n.Clock().Year()
	}
	return 0
}

// ExperienceYears prefers the normalized total, then the largest "N years"
// mention, then the union of year ranges. With nothing usable it returns 0.
func (n DefaultNormalizer) ExperienceYears(profile *types.CandidateProfile) (float64, *types.Diagnostic) {
	if profile.ExperienceYears != nil {
		years := *profile.ExperienceYears
		if math.IsNaN(years) || math.IsInf(years, 0) || years < 0 {
			return 0, &types.Diagnostic{
				SubScore: types.SubScoreExperienceRelevance,
				Code:     DiagExperienceInvalid,
				Message:  fmt.Sprintf("experience years %v is not a non-negative number; using 0", years),
			}
		}
		return years, nil
	}

	best := -1.0
	for _, entry := range profile.Experience {
		trimmed := strings.TrimSpace(entry)
		if v, err := strconv.ParseFloat(trimmed, 64); err == nil && v >= 0 && !math.IsInf(v, 0) {
			best = math.Max(best, v)
			continue
		}
		for _, m := range yearsMentionPattern.FindAllStringSubmatch(trimmed, -1) {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				best = math.Max(best, v)
			}
		}
	}
	if best >= 0 {
		return best, nil
	}

	spans, skippedOpen := n.yearSpans(profile.Experience)
	if len(spans) > 0 {
		return unionLength(spans), nil
	}

	diag := &types.Diagnostic{
		SubScore: types.SubScoreExperienceRelevance,
		Code:     DiagExperienceUnavailable,
		Message:  "no experience duration found; using 0 years",
	}
	if skippedOpen {
		diag.Code = DiagExperiencePresentUnbounded
		diag.Message = "only open-ended experience ranges found and no reference year set; using 0 years"
	}
	return 0, diag
}

type span struct{ start, end int }

func (n DefaultNormalizer) yearSpans(entries []string) ([]span, bool) {
	var spans []span
	skippedOpen := false
	refYear := n.referenceYear()
	for _, entry := range entries {
		for _, m := range yearRangePattern.FindAllStringSubmatch(entry, -1) {
			start, _ := strconv.Atoi(m[1])
			end, err := strconv.Atoi(m[2])
			if err != nil {
				if refYear == 0 {
					skippedOpen = true
					continue
				}
				end = refYear
			}
			if end < start {
				continue
			}
			spans = append(spans, span{start, end})
		}
	}
	return spans, skippedOpen
}

// unionLength sums the years covered by spans, counting overlaps once.
func unionLength(spans []span) float64 {
	sort.Slice(spans, func(i, j int) bool {
		if spans[i].start != spans[j].start {
			return spans[i].start < spans[j].start
		}
		return spans[i].end < spans[j].end
	})
	total := 0
	cur := spans[0]
	for _, s := range spans[1:] {
		if s.start <= cur.end {
			if s.end > cur.end {
				cur.end = s.end
			}
			continue
		}
		total += cur.end - cur.start
		cur = s
	}
	total += cur.end - cur.start
	return float64(total)
}

// EducationLevel returns the highest recognized level across entries.
func (n DefaultNormalizer) EducationLevel(entries []string) (EducationLevel, *types.Diagnostic) {
	best := EducationNone
	recognized := false
	nonEmpty := false
	for _, entry := range entries {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		nonEmpty = true
		if level, ok := ParseEducationLevel(entry); ok {
			recognized = true
			if level > best {
				best = level
			}
		}
	}
	switch {
	case !nonEmpty:
		return EducationNone, &types.Diagnostic{
			SubScore: types.SubScoreEducationMatch,
			Code:     DiagEducationUnavailable,
			Message:  "no education entries; treated as no degree",
		}
	case !recognized:
		return EducationNone, &types.Diagnostic{
			SubScore: types.SubScoreEducationMatch,
			Code:     DiagEducationUnrecognized,
			Message:  "education entries name no recognized degree level; treated as no degree",
		}
	}
	return best, nil
}
