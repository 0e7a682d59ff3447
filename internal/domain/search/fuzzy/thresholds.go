package fuzzy

import "fmt"

// Default matching thresholds. They are empirical; override them through config
// rather than changing the constants.
const (
	DefaultShortTermMaxLen = 2
	DefaultLongMaxDistance = 3
	DefaultMinSimilarity   = 0.70
)

// Tier caps the edit distance for terms up to MaxTermLen runes long.
type Tier struct {
	MaxTermLen  int
	MaxDistance int
}

// Thresholds configures a Matcher.
type Thresholds struct {
	// ShortTermMaxLen: terms this short (in runes) match by containment only.
	ShortTermMaxLen int
	// Tiers are ordered by MaxTermLen ascending; the first tier covering the term wins.
	Tiers []Tier
	// LongMaxDistance applies to terms longer than every tier.
	LongMaxDistance int
	// MinSimilarity is the inclusive lower bound for 1 - d/max(len(term), len(word)).
	MinSimilarity float64
}

// DefaultThresholds returns 1 edit up to 4 runes, 2 up to 7, 3 beyond, and 0.70 similarity.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ShortTermMaxLen: DefaultShortTermMaxLen,
		Tiers: []Tier{
			{MaxTermLen: 4, MaxDistance: 1},
			{MaxTermLen: 7, MaxDistance: 2},
		},
		LongMaxDistance: DefaultLongMaxDistance,
		MinSimilarity:   DefaultMinSimilarity,
	}
}

// Validate checks that the thresholds are internally consistent.
func (t Thresholds) Validate() error {
	if t.ShortTermMaxLen < 0 {
		return fmt.Errorf("short term length must not be negative, got %d", t.ShortTermMaxLen)
	}
	prev := 0
	for i, tier := range t.Tiers {
		if tier.MaxTermLen <= prev {
			return fmt.Errorf("tier %d: max term length %d must be greater than %d", i, tier.MaxTermLen, prev)
		}
		if tier.MaxDistance < 0 {
			return fmt.Errorf("tier %d: max distance must not be negative, got %d", i, tier.MaxDistance)
		}
		prev = tier.MaxTermLen
	}
	if t.LongMaxDistance < 0 {
		return fmt.Errorf("long max distance must not be negative, got %d", t.LongMaxDistance)
	}
	if t.MinSimilarity <= 0 || t.MinSimilarity > 1 {
		return fmt.Errorf("min similarity must be in (0, 1], got %v", t.MinSimilarity)
	}
	return nil
}

// maxDistance returns the absolute edit budget for a term of termLen runes.
func (t Thresholds) maxDistance(termLen int) int {
	for _, tier := range t.Tiers {
		if termLen <= tier.MaxTermLen {
			return tier.MaxDistance
		}
	}
	return t.LongMaxDistance
}
