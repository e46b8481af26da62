// Package generation defines the boundary between the application and the
// language models that draft flashcards from a short description.
//
// A TextGenerator returns raw model output in the "Front | Back" line format.
// Turning that text into cards is left to the cardtext parser, so every
// provider shares the same post-processing.
package generation
