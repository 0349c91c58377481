package llm

import "fmt"

// ConfigurationError means no backend credential is present. It is a
// "feature unavailable" condition, distinct from call failures, so callers
// can disable AI features instead of retrying.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string { return e.Message }

func errNotConfigured() *ConfigurationError {
	return &ConfigurationError{Message: "Gemini API key not configured. Set GOOGLE_API_KEY in environment."}
}

// EmbeddingError wraps a failed embedding backend call.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("failed to generate embedding: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// GenerationError wraps a failed generation backend call.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate response: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
