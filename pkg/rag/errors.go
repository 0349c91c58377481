package rag

// ValidationError reports caller-correctable input problems: a missing
// required field, an unsupported source kind or content below the minimum
// length.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
