// Package fuzzy implements typo-tolerant matching of query terms against record text.
//
// All functions compare runes exactly; callers fold case first (see Fold).
package fuzzy

// Distance returns the Levenshtein distance between a and b, counted in runes.
func Distance(a, b string) int {
	d, _ := distance([]rune(a), []rune(b), -1)
	return d
}

// DistanceWithin computes the distance between a and b but stops as soon as it is
// known to exceed limit. The returned distance is exact when ok is true; otherwise it
// is only a lower bound. A negative limit means unbounded.
func DistanceWithin(a, b string, limit int) (d int, ok bool) {
	return distance([]rune(a), []rune(b), limit)
}

func distance(a, b []rune, limit int) (int, bool) {
	// Distance is symmetric; keep the shorter string on the row axis.
	if len(a) < len(b) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a), limit < 0 || len(a) <= limit
	}
	if limit >= 0 && len(a)-len(b) > limit {
		return len(a) - len(b), false
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		rowMin := i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
			rowMin = min(rowMin, curr[j])
		}
		// Row minima never decrease, so the final cell is at least rowMin.
		if limit >= 0 && rowMin > limit {
			return rowMin, false
		}
		prev, curr = curr, prev
	}

	d := prev[len(b)]
	return d, limit < 0 || d <= limit
}
