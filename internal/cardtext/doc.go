// Package cardtext turns free-form text into flashcard front/back pairs.
//
// Text arrives from two producers: a user pasting cards into a textarea and an
// AI model asked to answer with one "Front | Back" pair per line. Neither is
// reliable, so parsing is a chain of line-level heuristics: pipe-aware
// splitting, a generic separator loop, a punctuation split and, optionally, an
// English word boundary. A lenient fallback runs when the structured pass finds
// nothing at all.
//
// Everything in this package is pure and synchronous. Lines that no heuristic
// accepts are dropped; callers decide what an empty result means.
//
// The positional heuristics are best effort. The punctuation split cannot tell
// an abbreviation from the intended front/back boundary, and the English
// boundary will misfire on non-English text containing words such as "is" or
// "it". Prefer an explicit separator wherever the input format can be
// controlled.
package cardtext
