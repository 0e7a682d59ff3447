package fuzzy

import (
	"fmt"
	"strings"
)

// Matcher decides whether a single query term matches a block of text.
// It is immutable and safe for concurrent use.
type Matcher struct {
	th Thresholds
}

// NewMatcher validates the thresholds and creates a Matcher.
func NewMatcher(th Thresholds) (*Matcher, error) {
	if err := th.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}
	th.Tiers = append([]Tier(nil), th.Tiers...)
	return &Matcher{th: th}, nil
}

// DefaultMatcher returns a Matcher with DefaultThresholds.
func DefaultMatcher() *Matcher {
	return &Matcher{th: DefaultThresholds()}
}

// Thresholds returns a copy of the matcher configuration.
func (m *Matcher) Thresholds() Thresholds {
	th := m.th
	th.Tiers = append([]Tier(nil), m.th.Tiers...)
	return th
}

// MaxDistance returns the absolute edit budget for term.
func (m *Matcher) MaxDistance(term string) int {
	return m.th.maxDistance(len([]rune(term)))
}

// Matches reports whether term matches haystack. Both must already be folded.
//
// Order: substring containment; short terms stop there; otherwise each haystack
// word is tried for prefix, bounded edit distance, then normalized similarity.
func (m *Matcher) Matches(term, haystack string) bool {
	if strings.Contains(haystack, term) {
		return true
	}

	t := []rune(term)
	if len(t) <= m.th.ShortTermMaxLen {
		return false
	}

	maxDist := m.th.maxDistance(len(t))
	for _, word := range Words(haystack) {
		if strings.HasPrefix(word, term) {
			return true
		}
		if m.closeEnough(t, []rune(word), maxDist) {
			return true
		}
	}
	return false
}

func (m *Matcher) closeEnough(term, word []rune, maxDist int) bool {
	longest := max(len(term), len(word))
	limit := max(maxDist, m.similarityBudget(longest))

	d, ok := distance(term, word, limit)
	if !ok {
		return false
	}
	if d <= maxDist {
		return true
	}
	return m.similar(d, longest)
}

func (m *Matcher) similar(d, longest int) bool {
	return 1-float64(d)/float64(longest) >= m.th.MinSimilarity
}

// similarityBudget returns the largest distance that still passes the similarity
// rule for words of the given length. Distances above it cannot match either rule
// once they also exceed the absolute budget.
func (m *Matcher) similarityBudget(longest int) int {
	for d := longest; d > 0; d-- {
		if m.similar(d, longest) {
			return d
		}
	}
	return 0
}
