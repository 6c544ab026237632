// Package merchant normalizes raw transaction descriptions into stable
// merchant patterns so occurrences of the same payee cluster together
// even when the bank decorates the text with generic payment words.
package merchant

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// noiseTokens are generic payment words that carry no merchant identity.
var noiseTokens = map[string]bool{
	"recurring": true,
	"bill":      true,
	"payment":   true,
	"auto":      true,
	"autopay":   true,
}

// maxPatternTokens caps how many description tokens identify a merchant.
const maxPatternTokens = 3

// ExtractPattern reduces a raw statement description to a merchant pattern:
// lowercased, noise words dropped, at most the first three surviving tokens
// joined by single spaces. It accepts any input, never fails, and is
// idempotent. When nothing survives it returns the empty string.
func ExtractPattern(description string) string {
	tokens := strings.Fields(strings.ToLower(description))

	kept := make([]string, 0, maxPatternTokens)
	for _, token := range tokens {
		if noiseTokens[token] {
			continue
		}
		kept = append(kept, token)
		if len(kept) == maxPatternTokens {
			break
		}
	}
	return strings.Join(kept, " ")
}

// Similarity scores how alike two merchant patterns are, from 0 to 1,
// using Levenshtein distance relative to the longer pattern. Two equal
// patterns score 1; an empty pattern against a non-empty one scores 0.
func Similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	maxLen := utf8.RuneCountInString(a)
	if l := utf8.RuneCountInString(b); l > maxLen {
		maxLen = l
	}
	if maxLen == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(maxLen)
}
