package keyword

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var nonTokenChars = regexp.MustCompile(`[^\pL\pN\s]+`)

// Lower-cases, strips punctuation, and applies unicode normalization and
// some unicode folding.
func normalizeText(text string) string {
	// the transform chain needs to be re-defined in every function call to prevent a race condition
	normFunc := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	bare := strings.ToLower(nonTokenChars.ReplaceAllString(text, " "))
	folded, _, err := transform.String(normFunc, bare)
	if err != nil {
		slog.Warn("unicode normalization error", "err", err)
		return bare
	}
	return folded
}

// Splits free-form text in to normalized tokens.
//
// Video context summaries and transcripts arrive from upstream speech and
// vision services with inconsistent casing and punctuation; normalizing
// before matching keeps the keyword checks insensitive to that.
func TokenizeText(text string) []string {
	return strings.Fields(normalizeText(text))
}
