package normalize

import "strings"

// FindBestMatch scores every candidate by how many whitespace tokens of query
// appear in it as a case-insensitive substring, and returns the candidate
// with the highest score. Only a strictly greater score replaces the current
// best, so equal scores keep the earlier candidate. ok is false when no
// candidate scores above zero or candidates is empty.
func FindBestMatch(candidates []string, query string) (best string, ok bool) {
	tokens := strings.Fields(strings.ToLower(query))

	bestScore := 0
	for _, candidate := range candidates {
		lower := strings.ToLower(candidate)
		score := 0
		for _, token := range tokens {
			if strings.Contains(lower, token) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = candidate
		}
	}

	if bestScore == 0 {
		return "", false
	}
	return best, true
}
