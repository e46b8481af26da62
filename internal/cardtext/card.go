package cardtext

import "strings"

// Card is a front/back pair extracted from text. It has no identity yet;
// persistence assigns one.
type Card struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// newCard trims both sides and reports whether the pair is usable: both
// sides non-empty and not the same text ignoring case and spacing.
func newCard(front, back string) (Card, bool) {
	c := Card{
		Front: strings.TrimSpace(front),
		Back:  strings.TrimSpace(back),
	}
	return c, c.valid()
}

func (c Card) valid() bool {
	if c.Front == "" || c.Back == "" {
		return false
	}
	return !sameText(c.Front, c.Back)
}

// sameText compares two strings ignoring case and whitespace runs.
func sameText(a, b string) bool {
	return strings.EqualFold(collapseSpaces(a), collapseSpaces(b))
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
