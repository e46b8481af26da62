package cardtext

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minLenientLineLength is the shortest trimmed line the fallback considers.
const minLenientLineLength = 5

// lenientSeparators are tried in order; the line is split at the first
// occurrence of the first one present.
var lenientSeparators = []string{"|", ":", "-", "=", "\t"}

var parenthetical = regexp.MustCompile(`\([^)]*\)`)

// metaWords are labels a model emits instead of card content.
var metaWords = map[string]struct{}{
	"word":        {},
	"words":       {},
	"translation": {},
	"text":        {},
	"front":       {},
	"back":        {},
	"question":    {},
	"answer":      {},
	"term":        {},
	"definition":  {},
	"meaning":     {},
	"example":     {},
	"card":        {},
	"flashcard":   {},
}

func isMetaWord(s string) bool {
	s = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), ":"))
	_, ok := metaWords[s]
	return ok
}

func (c Card) isMeta() bool {
	return isMetaWord(c.Front) || isMetaWord(c.Back)
}

// parseLenient scans prose-like text for anything resembling a pair. It is
// used when the structured pass produced nothing.
func parseLenient(text string) []Card {
	var cards []Card
	for line := range Lines(text) {
		if utf8.RuneCountInString(line) < minLenientLineLength {
			continue
		}
		for _, sep := range lenientSeparators {
			front, back, found := strings.Cut(line, sep)
			if !found {
				continue
			}
			front = parenthetical.ReplaceAllString(stripNumbering(front), "")
			back = parenthetical.ReplaceAllString(back, "")
			c, ok := newCard(front, back)
			if ok && !c.isMeta() {
				cards = append(cards, c)
			}
			break
		}
	}
	return cards
}
