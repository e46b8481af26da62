package cardtext

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// separators are tried in order by the generic separator loop.
var separators = []string{"|", ";", "\t", ":", "-", "="}

var (
	// punctuationSplit matches "<text ending in . ? !><space><text>".
	punctuationSplit = regexp.MustCompile(`^(.+?[.?!])\s+(.+)$`)

	// englishBoundary finds whitespace before a common English leading word.
	englishBoundary = regexp.MustCompile(
		`(?i)\s+(?:hello|hi|how|what|where|when|why|i'll|i'm|i've|i|you|we|they|it|this|that|a|an|the|do|does|did|can|could|will|would|is|are|was|were)\s+`)
)

// minEnglishBoundaryIndex keeps the English split from firing inside a short
// leading word.
const minEnglishBoundaryIndex = 5

// parsePipe handles lines containing '|' by their number of non-empty tokens.
func parsePipe(line string) (Card, bool) {
	var tokens []string
	for _, t := range strings.Split(line, "|") {
		if t = strings.TrimSpace(t); t != "" {
			tokens = append(tokens, t)
		}
	}

	switch len(tokens) {
	case 0:
		return Card{}, false
	case 1:
		if punctuationSplit.MatchString(tokens[0]) {
			return splitPunctuation(tokens[0], 0)
		}
		return splitEnglishBoundary(tokens[0])
	case 2:
		// "front | front repeated. back" keeps only the second token.
		if punctuationSplit.MatchString(tokens[1]) {
			return splitPunctuation(tokens[1], 0)
		}
		return newCard(tokens[0], tokens[1])
	default:
		return newCard(tokens[0], tokens[1])
	}
}

// splitOnSeparators tries each separator in turn. The first separator whose
// first two parts are both non-empty wins; any further parts are ignored.
func splitOnSeparators(line string) (Card, bool) {
	for _, sep := range separators {
		if !strings.Contains(line, sep) {
			continue
		}
		parts := strings.Split(line, sep)
		if c, ok := newCard(parts[0], parts[1]); ok {
			return c, true
		}
	}
	return Card{}, false
}

// splitPunctuation splits at the first '.', '?' or '!' followed by whitespace.
// A period ending the front is dropped; '?' and '!' are kept. Both sides must
// be longer than minLen runes.
func splitPunctuation(s string, minLen int) (Card, bool) {
	m := punctuationSplit.FindStringSubmatch(s)
	if m == nil {
		return Card{}, false
	}
	front, back := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	if utf8.RuneCountInString(front) <= minLen || utf8.RuneCountInString(back) <= minLen {
		return Card{}, false
	}
	return newCard(strings.TrimSuffix(front, "."), back)
}

// splitEnglishBoundary splits before the first common English word found past
// minEnglishBoundaryIndex.
func splitEnglishBoundary(s string) (Card, bool) {
	loc := englishBoundary.FindStringIndex(s)
	if loc == nil || loc[0] <= minEnglishBoundaryIndex {
		return Card{}, false
	}
	return newCard(s[:loc[0]], s[loc[0]:])
}
