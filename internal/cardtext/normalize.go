package cardtext

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// punctuationAllowed lists the non-alphanumeric characters kept by Normalize.
const punctuationAllowed = "'-.,?!()/&"

// Normalize returns the comparison form of a card field: lowercased, NFC
// composed, restricted to letters (diacritics included), digits and basic
// punctuation, with whitespace runs collapsed to single spaces and the ends
// trimmed. It is idempotent. The result is meant for comparison and
// deduplication, never for display.
func Normalize(text string) string {
	s := norm.NFC.String(strings.ToLower(text))

	var b strings.Builder
	b.Grow(len(s))
	pendingSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
			continue
		case r == '’' || r == '‘':
			r = '\''
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.Is(unicode.Mn, r):
		case strings.ContainsRune(punctuationAllowed, r):
		default:
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}

	// Dropping a character can leave a base letter next to a combining mark,
	// and composition can yield an uppercase letter.
	return strings.ToLower(norm.NFC.String(b.String()))
}
