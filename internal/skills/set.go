package skills

import "sort"

// Set is a deduplicated collection of skills keyed by Key.
// The first spelling seen for a key is kept for display.
type Set struct {
	names map[string]string
}

// NewSet builds a Set, dropping blank entries and duplicates.
func NewSet(names []string) Set {
	s := Set{names: make(map[string]string, len(names))}
	for _, name := range names {
		key := Key(name)
		if key == "" {
			continue
		}
		if _, exists := s.names[key]; !exists {
			s.names[key] = Canonical(name)
		}
	}
	return s
}

// Len returns the number of distinct skills.
func (s Set) Len() int {
	return len(s.names)
}

// Has reports whether the set contains the skill.
func (s Set) Has(name string) bool {
	_, ok := s.names[Key(name)]
	return ok
}

// Intersect returns the skills of s that other also has, sorted.
func (s Set) Intersect(other Set) []string {
	out := make([]string, 0)
	for key, display := range s.names {
		if _, ok := other.names[key]; ok {
			out = append(out, display)
		}
	}
	sort.Strings(out)
	return out
}

// Difference returns the skills of s that other lacks, sorted.
func (s Set) Difference(other Set) []string {
	out := make([]string, 0)
	for key, display := range s.names {
		if _, ok := other.names[key]; !ok {
			out = append(out, display)
		}
	}
	sort.Strings(out)
	return out
}

// Names returns the display names in sorted order.
func (s Set) Names() []string {
	out := make([]string, 0, len(s.names))
	for _, display := range s.names {
		out = append(out, display)
	}
	sort.Strings(out)
	return out
}
