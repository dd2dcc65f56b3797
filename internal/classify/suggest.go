package classify

import "strings"

// Closest returns the candidate nearest to value by edit distance. A candidate is
// close enough when its distance is at most half the length of the longer string.
// Ties go to the earlier candidate.
func Closest(value string, candidates []string) (string, bool) {
	v := []rune(strings.ToLower(strings.TrimSpace(value)))
	best, bestDist := "", -1
	for _, c := range candidates {
		cr := []rune(strings.ToLower(c))
		d := levenshtein(v, cr)
		longer := len(v)
		if len(cr) > longer {
			longer = len(cr)
		}
		if float64(d) > 0.5*float64(longer) {
			continue
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}

func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
