package search

import "sort"

// fuzzyKeywordMatch reports whether term is within maxDist edits of any
// keyword in kw. Keywords are scanned in sorted order so the result is
// deterministic.
func fuzzyKeywordMatch(term string, kw map[string]struct{}, maxDist int) (string, bool) {
	if len(kw) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(kw))
	for k := range kw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if editDistanceAtMost(term, k, maxDist) {
			return k, true
		}
	}
	return "", false
}

// editDistanceAtMost reports whether the Levenshtein distance between a
// and b is within maxDist. Length difference beyond the bound
// short-circuits without computing the matrix.
func editDistanceAtMost(a, b string, maxDist int) bool {
	ra := []rune(a)
	rb := []rune(b)
	diff := len(ra) - len(rb)
	if diff < 0 {
		diff = -diff
	}
	if diff > maxDist {
		return false
	}
	return levenshtein(ra, rb) <= maxDist
}

// levenshtein computes the edit distance between two rune slices with a
// single substitution/insertion/deletion costing 1.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min3(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
