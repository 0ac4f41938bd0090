package types

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a resource is absent or not visible to the caller.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

// ErrValidation indicates an invalid request field.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.Message)
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUpstreamModel indicates the language model failed or returned unusable output.
type ErrUpstreamModel struct {
	Err error
}

func (e *ErrUpstreamModel) Error() string {
	return fmt.Sprintf("upstream model error: %v", e.Err)
}

func (e *ErrUpstreamModel) Unwrap() error {
	return e.Err
}

// ErrLLMUnavailable is returned by the LLM client when no API key is configured.
var ErrLLMUnavailable = errors.New("language model is not configured")
