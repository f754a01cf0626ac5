package ingestion

import (
	"regexp"
	"strings"

	"github.com/jonathan/talentflow/internal/ranking"
	"github.com/jonathan/talentflow/internal/skills"
	"github.com/jonathan/talentflow/internal/types"
)

// Parsed is what a resume yields before it becomes a candidate.
type Parsed struct {
	Name    string
	Email   string
	Phone   string
	Profile types.CandidateProfile
}

// Vocabulary is the set of terms profile extraction looks for.
type Vocabulary struct {
	Skills         []string
	Certifications []string
}

// VocabularyFor builds the vocabulary of a job.
func VocabularyFor(job *types.Job) Vocabulary {
	if job == nil {
		return Vocabulary{}
	}
	return Vocabulary{
		Skills:         job.Vocabulary(),
		Certifications: job.Requirements.Certifications,
	}
}

type section int

const (
	sectionNone section = iota
	sectionSummary
	sectionExperience
	sectionEducation
	sectionSkills
	sectionCertifications
	sectionOther
)

var sectionHeadings = map[string]section{
	"summary":                 sectionSummary,
	"professional summary":    sectionSummary,
	"profile":                 sectionSummary,
	"about":                   sectionSummary,
	"about me":                sectionSummary,
	"objective":               sectionSummary,
	"experience":              sectionExperience,
	"work experience":         sectionExperience,
	"professional experience": sectionExperience,
	"employment":              sectionExperience,
	"employment history":      sectionExperience,
	"work history":            sectionExperience,
	"education":               sectionEducation,
	"academic background":     sectionEducation,
	"skills":                  sectionSkills,
	"technical skills":        sectionSkills,
	"core skills":             sectionSkills,
	"certifications":          sectionCertifications,
	"certificates":            sectionCertifications,
	"licenses":                sectionCertifications,
	"projects":                sectionOther,
	"languages":               sectionOther,
	"interests":               sectionOther,
	"references":              sectionOther,
	"contact":                 sectionOther,
}

var (
	emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phonePattern = regexp.MustCompile(`\+?\(?\d{1,3}\)?[-\s.]?\(?\d{1,4}\)?[-\s.]?\d{3,4}[-\s.]?\d{3,4}`)
	// "5 years", "3+ yrs", "2019 - 2023", "2020 – present"
	experienceHint = regexp.MustCompile(`(?i)\b\d+(\.\d+)?\s*\+?\s*(years?|yrs?)\b|\b(19|20)\d{2}\s*[-–—]\s*((19|20)\d{2}|present|current|now)\b`)
	listSeparators = regexp.MustCompile(`\s*[,;|/]\s*`)
)

// ExtractProfile derives a candidate profile from cleaned resume text.
// Skills and certifications are only taken from the vocabulary or from the
// resume's own skills and certifications sections.
func ExtractProfile(text string, vocab Vocabulary) *Parsed {
	p := &Parsed{
		Email: emailPattern.FindString(text),
		Phone: findPhone(text),
	}

	var (
		current      section
		summaryLines []string
		summaryDone  bool
		nameOpen     = true
		listedSkills []string
		listedCerts  []string
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if current == sectionSummary && len(summaryLines) > 0 {
				summaryDone = true
			}
			continue
		}
		if s, ok := headingSection(line); ok {
			current = s
			nameOpen = false
			continue
		}
		if nameOpen && !isContactLine(line) {
			// the name is the first line that is not contact details
			nameOpen = false
			if looksLikeName(line) {
				p.Name = strings.Trim(line, "# ")
				continue
			}
		}

		item, _ := bulletItem(line)
		switch current {
		case sectionSummary:
			if !summaryDone {
				summaryLines = append(summaryLines, item)
			}
		case sectionExperience:
			p.Profile.Experience = append(p.Profile.Experience, item)
		case sectionEducation:
			p.Profile.Education = append(p.Profile.Education, item)
		case sectionSkills:
			listedSkills = append(listedSkills, splitList(item)...)
		case sectionCertifications:
			listedCerts = append(listedCerts, item)
		case sectionNone:
			// resumes without headings still carry degree and tenure lines
			if level, ok := ranking.ParseEducationLevel(item); ok && level > ranking.EducationNone {
				p.Profile.Education = append(p.Profile.Education, item)
			} else if experienceHint.MatchString(item) {
				p.Profile.Experience = append(p.Profile.Experience, item)
			}
		}
	}

	p.Profile.Summary = strings.Join(summaryLines, " ")
	p.Profile.Skills = mergeTerms(mentioned(text, vocab.Skills), listedSkills)
	p.Profile.Certifications = mergeTerms(mentioned(text, vocab.Certifications), listedCerts)
	return p
}

// headingSection recognises a section heading such as "## Work Experience" or "SKILLS:".
func headingSection(line string) (section, bool) {
	if len(line) > 40 {
		return sectionNone, false
	}
	h := strings.Trim(line, "#*:= \t")
	h = strings.ToLower(strings.Join(strings.Fields(h), " "))
	s, ok := sectionHeadings[h]
	return s, ok
}

var nameNoise = []string{"resume", "curriculum vitae", "cv"}

func looksLikeName(line string) bool {
	if len(line) > 60 || strings.ContainsAny(line, "@:/0123456789") {
		return false
	}
	lower := strings.ToLower(strings.Trim(line, "# "))
	for _, n := range nameNoise {
		if lower == n {
			return false
		}
	}
	words := strings.Fields(line)
	return len(words) >= 1 && len(words) <= 5
}

func isContactLine(line string) bool {
	return emailPattern.MatchString(line) || findPhone(line) != ""
}

func findPhone(text string) string {
	for _, m := range phonePattern.FindAllString(text, -1) {
		digits := 0
		for _, r := range m {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		// skip year ranges like "2019-2023"
		if digits >= 10 {
			return strings.TrimSpace(m)
		}
	}
	return ""
}

func splitList(item string) []string {
	parts := listSeparators.Split(item, -1)
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// mentioned returns the terms the text mentions, in vocabulary order.
func mentioned(text string, terms []string) []string {
	var out []string
	for _, t := range terms {
		if skills.Mentions(text, t) {
			out = append(out, strings.TrimSpace(t))
		}
	}
	return out
}

// mergeTerms concatenates term lists dropping duplicates by skill key.
func mergeTerms(lists ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, list := range lists {
		for _, t := range list {
			k := skills.Key(t)
			if k == "" || seen[k] {
				continue
			}
			seen[k] = true
			out = append(out, t)
		}
	}
	return out
}
