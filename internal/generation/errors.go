package generation

import "errors"

// Common errors returned by generators.
var (
	// ErrInvalidConfig is returned when the generator configuration is invalid.
	ErrInvalidConfig = errors.New("invalid generator configuration")

	// ErrInvalidRequest is returned when a request fails validation.
	ErrInvalidRequest = errors.New("invalid generation request")

	// ErrUnavailable is returned when the model server cannot be reached.
	ErrUnavailable = errors.New("language model unavailable")

	// ErrModelNotFound is returned when the configured model is not installed.
	ErrModelNotFound = errors.New("language model not found")

	// ErrTimeout is returned when generation exceeds its deadline.
	ErrTimeout = errors.New("language model timed out")

	// ErrInvalidResponse is returned when the model response is empty or malformed.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when the model blocks the content due to safety filters.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned for temporary errors that might resolve on retry.
	ErrTransientFailure = errors.New("transient error during generation")
)

// UserMessage turns a generation error into an actionable message for the
// person who asked for cards. model is the configured model name.
func UserMessage(err error, model string) string {
	switch {
	case errors.Is(err, ErrTimeout):
		return "AI generation timed out. Try fewer cards or try again later."
	case errors.Is(err, ErrModelNotFound):
		return "Model " + model + " not found. Install it by running: ollama pull " + model
	case errors.Is(err, ErrUnavailable):
		return "Could not connect to the AI server. Make sure Ollama is running and " +
			model + " is installed. Run: ollama pull " + model
	case errors.Is(err, ErrContentBlocked):
		return "The AI provider declined to generate cards for this description."
	case errors.Is(err, ErrInvalidRequest):
		return err.Error()
	default:
		return "AI generation failed. Please try again."
	}
}
