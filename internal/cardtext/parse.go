package cardtext

import (
	"strings"
	"unicode/utf8"
)

// minLineLength is the shortest trimmed line the structured parser considers.
const minLineLength = 3

// Options selects the parsing mode. The zero value parses structured input,
// normalizes both sides and keeps every distinct card.
type Options struct {
	// PreserveCase keeps fields exactly as written instead of normalizing them.
	PreserveCase bool
	// FilterMetaWords rejects label pairs such as "word | translation" in the
	// structured pass too. The lenient fallback always filters them.
	FilterMetaWords bool
	// Lenient runs the fallback parser when the structured pass finds nothing.
	Lenient bool
	// EnglishBoundary splits separator-less lines before a common English
	// leading word.
	EnglishBoundary bool
	// MaxCards truncates the deduplicated result. Zero means no limit.
	MaxCards int
}

// Parse extracts cards from text according to opts. The result is
// deduplicated, keeps source order and is never nil.
func Parse(text string, opts Options) []Card {
	cards := make([]Card, 0)
	for line := range Lines(text) {
		if utf8.RuneCountInString(line) < minLineLength {
			continue
		}
		c, ok := parseLine(stripNumbering(line), opts)
		if !ok {
			continue
		}
		if opts.FilterMetaWords && c.isMeta() {
			continue
		}
		if c, ok = finish(c, opts); ok {
			cards = append(cards, c)
		}
	}

	if len(cards) == 0 && opts.Lenient {
		for _, c := range parseLenient(text) {
			if c, ok := finish(c, opts); ok {
				cards = append(cards, c)
			}
		}
	}

	cards = RemoveDuplicates(cards)
	if opts.MaxCards > 0 && len(cards) > opts.MaxCards {
		cards = cards[:opts.MaxCards]
	}
	return cards
}

// ParseAndNormalize parses pasted or generated text into normalized cards,
// falling back to the lenient parser when nothing structured is found.
func ParseAndNormalize(text string) []Card {
	return Parse(text, Options{Lenient: true})
}

// ParsePreservingCase parses bulk-pasted text keeping the original casing.
// It also splits combined fields on an English word boundary, which suits
// language-learning lists such as "Hoe gaat het How are you".
func ParsePreservingCase(text string) []Card {
	return Parse(text, Options{PreserveCase: true, EnglishBoundary: true})
}

// finish applies output normalization and re-checks the card invariant.
func finish(c Card, opts Options) (Card, bool) {
	if opts.PreserveCase {
		return c, c.valid()
	}
	c = Card{Front: Normalize(c.Front), Back: Normalize(c.Back)}
	return c, c.valid()
}

// parseLine runs the structured heuristics against one cleaned line.
func parseLine(line string, opts Options) (Card, bool) {
	if line == "" {
		return Card{}, false
	}

	hasPipe := strings.Contains(line, "|")
	if hasPipe {
		if c, ok := parsePipe(line); ok {
			return c, true
		}
	}

	if c, ok := splitOnSeparators(line); ok {
		return c, true
	}

	if !hasPipe {
		if c, ok := splitPunctuation(line, 3); ok {
			return c, true
		}
	}

	if opts.EnglishBoundary && !hasSeparator(line) && !punctuationSplit.MatchString(line) {
		return splitEnglishBoundary(line)
	}
	return Card{}, false
}

// hasSeparator reports whether line contains any explicit separator.
func hasSeparator(line string) bool {
	for _, sep := range separators {
		if strings.Contains(line, sep) {
			return true
		}
	}
	return false
}
