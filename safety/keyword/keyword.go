package keyword

import (
	"slices"
	"strings"
)

// Helper to check a single token against a list of tokens
func TokenInSet(tok string, set []string) bool {
	return slices.Contains(set, tok)
}

// ContainsAnyToken reports whether any token from the tokenized text is in
// the given set. Exact token matching; "attacking" does not match "attack".
func ContainsAnyToken(text string, set []string) bool {
	for _, tok := range TokenizeText(text) {
		if TokenInSet(tok, set) {
			return true
		}
	}
	return false
}

// ContainsAnyKeyword reports whether any keyword from the set occurs as a
// substring of the normalized text. Substring matching catches inflected
// forms: "attacking" and "attacked" both contain "attack".
func ContainsAnyKeyword(text string, set []string) bool {
	folded := normalizeText(text)
	for _, kw := range set {
		if strings.Contains(folded, kw) {
			return true
		}
	}
	return false
}
