package cardtext

import (
	"iter"
	"regexp"
	"strings"
)

// numberingPrefix matches list numbering such as "1.", "12)" or "3 ".
var numberingPrefix = regexp.MustCompile(`^\d+[.)]?\s*`)

// Lines yields the trimmed, non-empty lines of text. The sequence is lazy and
// can be ranged over any number of times.
func Lines(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		rest := text
		for rest != "" {
			var line string
			if i := strings.IndexByte(rest, '\n'); i >= 0 {
				line, rest = rest[:i], rest[i+1:]
			} else {
				line, rest = rest, ""
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}

// stripNumbering removes a leading list number from an already trimmed line.
func stripNumbering(line string) string {
	return strings.TrimSpace(numberingPrefix.ReplaceAllString(line, ""))
}
