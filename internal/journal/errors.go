package journal

import "errors"

// Error categories returned by the store and service. Callers match with
// errors.Is; details travel in the wrapping message.
var (
	// ErrValidation marks malformed or constraint-violating input,
	// e.g. an event whose start date is after its end date.
	ErrValidation = errors.New("validation failed")

	// ErrReference marks a dangling foreign key, e.g. a moment naming a
	// nonexistent event.
	ErrReference = errors.New("referenced entity does not exist")

	// ErrNotFound marks an operation targeting a nonexistent id where
	// existence is required.
	ErrNotFound = errors.New("not found")

	// ErrPersistence marks a durable storage read or write failure.
	ErrPersistence = errors.New("persistence failed")

	// ErrGeneration marks a failed or unparseable AI generation or
	// transcription call.
	ErrGeneration = errors.New("generation failed")
)
