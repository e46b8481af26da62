// Package gemini implements generation.TextGenerator with Google's Gemini API.
//
// Requests are retried with exponential backoff and jitter when the API
// reports a transient failure (rate limiting or a server error). Responses
// blocked by safety filters and empty responses are permanent failures.
package gemini
