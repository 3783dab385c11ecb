package matcher

import (
	"strings"
	"unicode"
)

// genericBankingTerms are free-text tokens that carry no identity: payment
// channel noise that banks prepend or append to merchant names. They are
// stripped as whole words during normalization.
var genericBankingTerms = map[string]bool{
	"EFTPOS":   true,
	"PAYPAL":   true,
	"TRANSFER": true,
	"PAYMENT":  true,
	"WITHDRAW": true,
	"DEPOSIT":  true,
}

// DescriptionSimilarity computes a bounded similarity score in [0, 1] between
// two free-text transaction descriptions.
//
// This is deliberately a cheap heuristic with no edit-distance pass: amount
// and date dominate the confidence weighting, so description similarity only
// needs to separate "same merchant" from "different merchant", not rank near
// misses precisely.
func DescriptionSimilarity(a, b string) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0
	}

	normA := normalizeDescription(a)
	normB := normalizeDescription(b)

	if normA == "" || normB == "" {
		return 0
	}

	// Normalization already uppercases, so plain equality suffices.
	if normA == normB {
		return 1.0
	}

	if strings.Contains(normA, normB) || strings.Contains(normB, normA) {
		return 0.8
	}

	return wordOverlapScore(normA, normB)
}

// normalizeDescription canonicalizes a description for comparison: strips
// everything except letters, digits and whitespace, collapses whitespace,
// uppercases, then removes generic banking terms and purely numeric tokens
// (card and terminal numbers) as whole words.
func normalizeDescription(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(unicode.ToUpper(r))
		case unicode.IsSpace(r):
			sb.WriteRune(' ')
		}
	}

	words := strings.Fields(sb.String())
	kept := words[:0]
	for _, w := range words {
		if genericBankingTerms[w] || isNumericToken(w) {
			continue
		}
		kept = append(kept, w)
	}

	return strings.Join(kept, " ")
}

// isNumericToken reports whether a token consists solely of digits
func isNumericToken(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

// wordOverlapScore scores two normalized descriptions by word-set
// intersection, scaled by 0.6 so partial overlap never outranks a
// containment match.
func wordOverlapScore(a, b string) float64 {
	wordsA := strings.Fields(a)
	wordsB := strings.Fields(b)

	if len(wordsA) == 0 || len(wordsB) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(wordsA))
	for _, w := range wordsA {
		setA[w] = true
	}

	seen := make(map[string]bool, len(wordsB))
	common := 0
	for _, w := range wordsB {
		if setA[w] && !seen[w] {
			common++
			seen[w] = true
		}
	}

	larger := len(setA)
	uniqueB := len(uniqueWords(wordsB))
	if uniqueB > larger {
		larger = uniqueB
	}

	return float64(common) / float64(larger) * 0.6
}

func uniqueWords(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
