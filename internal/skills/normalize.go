// Package skills normalizes skill names and compares skill sets.
package skills

import (
	"sort"
	"strings"
	"unicode"
)

// skillNormalizations maps common skill name variants to canonical names
var skillNormalizations = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue.js":     "Vue",
	"vuejs":      "Vue",
	"node.js":    "Node.js",
	"nodejs":     "Node.js",
	"node":       "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"psql":       "PostgreSQL",
	"mongo":      "MongoDB",
	"mongodb":    "MongoDB",
	"py":         "Python",
	"python3":    "Python",
	"aws":        "AWS",
	"amazon web services": "AWS",
	"gcp":                 "GCP",
	"google cloud":        "GCP",
	"sql":                 "SQL",
	"ml":                  "Machine Learning",
	"machine learning":    "Machine Learning",
	"ci/cd":               "CI/CD",
	"cicd":                "CI/CD",
}

// aliasesByCanonical is the reverse index of skillNormalizations, keyed by lower-cased canonical name.
var aliasesByCanonical = func() map[string][]string {
	out := make(map[string][]string)
	for alias, canonical := range skillNormalizations {
		key := strings.ToLower(canonical)
		out[key] = append(out[key], alias)
	}
	for key := range out {
		sort.Strings(out[key])
	}
	return out
}()

// Canonical normalizes a skill name to its display form.
func Canonical(skillName string) string {
	normalized := strings.Join(strings.Fields(skillName), " ")
	if normalized == "" {
		return ""
	}

	lower := strings.ToLower(normalized)
	if canonical, ok := skillNormalizations[lower]; ok {
		return canonical
	}

	// All-caps single words that aren't in the table keep their first letter only.
	if normalized == strings.ToUpper(normalized) && len(normalized) > 1 && !strings.Contains(lower, " ") {
		return strings.ToUpper(normalized[:1]) + lower[1:]
	}

	// Mixed case is returned as-is
	if normalized != strings.ToLower(normalized) {
		return normalized
	}

	if !strings.Contains(normalized, " ") {
		return strings.ToUpper(normalized[:1]) + normalized[1:]
	}
	return normalized
}

// Key returns the comparison key for a skill: trimmed, alias-collapsed and case folded.
// An empty key means the name carried no skill.
func Key(skillName string) string {
	return strings.ToLower(Canonical(skillName))
}

// Mentions reports whether text mentions the skill (or one of its aliases) as a whole term.
func Mentions(text, skillName string) bool {
	key := Key(skillName)
	if key == "" || text == "" {
		return false
	}
	lower := strings.ToLower(text)
	if containsTerm(lower, key) {
		return true
	}
	for _, alias := range aliasesByCanonical[key] {
		if containsTerm(lower, alias) {
			return true
		}
	}
	return false
}

// containsTerm finds term in text where the surrounding runes are not letters or digits.
func containsTerm(text, term string) bool {
	for start := 0; start < len(text); {
		idx := strings.Index(text[start:], term)
		if idx < 0 {
			return false
		}
		begin := start + idx
		end := begin + len(term)
		if boundaryBefore(text, begin) && boundaryAfter(text, end) {
			return true
		}
		start = begin + 1
	}
	return false
}

func boundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r := rune(text[i-1])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r := rune(text[i])
	// "c" must not match "c++" and "java" must not match "javascript"
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '#'
}
