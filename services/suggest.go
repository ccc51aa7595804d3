package services

import (
	"sort"
	"strings"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
)

// minSuggestionSimilarity is the lowest similarity a suggestion may have
const minSuggestionSimilarity = 0.5

// normalizeTerm lower-cases and transliterates to ASCII
func normalizeTerm(input string) string {
	return strings.ToLower(strings.TrimSpace(unidecode.Unidecode(input)))
}

// similarity is 1 minus the edit distance over the longer length
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	maxLen := len(ra)
	if len(rb) > maxLen {
		maxLen = len(rb)
	}
	if maxLen == 0 {
		return 1.0
	}
	distance := levenshtein.DistanceForStrings(ra, rb, levenshtein.DefaultOptions)
	return 1.0 - float64(distance)/float64(maxLen)
}

// Suggest returns the vocabulary term closest to query, or "" when nothing
// is similar enough. Terms are considered whole and word by word.
func Suggest(query string, vocabulary []string) string {
	normalized := normalizeTerm(query)
	if normalized == "" {
		return ""
	}

	originals := make(map[string]string)
	add := func(term string) {
		key := normalizeTerm(term)
		if key == "" {
			return
		}
		if _, ok := originals[key]; !ok {
			originals[key] = strings.TrimSpace(term)
		}
	}
	for _, term := range vocabulary {
		add(term)
		for _, word := range strings.Fields(term) {
			if len([]rune(word)) >= 3 {
				add(word)
			}
		}
	}
	if len(originals) == 0 {
		return ""
	}
	if _, exact := originals[normalized]; exact {
		return ""
	}

	keys := make([]string, 0, len(originals))
	for k := range originals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// n-gram overlap narrows the candidates, edit distance picks the winner
	matcher := closestmatch.New(keys, []int{2, 3})
	best, bestScore := "", 0.0
	for _, candidate := range matcher.ClosestN(normalized, len(keys)) {
		score := similarity(normalized, candidate)
		if score > bestScore || (score == bestScore && best != "" && candidate < best) {
			best, bestScore = candidate, score
		}
	}
	if best == "" || bestScore < minSuggestionSimilarity {
		return ""
	}
	return originals[best]
}
