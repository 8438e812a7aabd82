package chat

import (
	"fmt"
)

// InvalidAIResponseError means the model answered without any text.
type InvalidAIResponseError struct {
	Err error
}

func (e *InvalidAIResponseError) Error() string {
	return fmt.Sprintf("invalid AI response: %v", e.Err)
}

func (e *InvalidAIResponseError) Unwrap() error { return e.Err }

// TimeoutError means the AI call did not finish before its deadline.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("AI call timed out: %v", e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }
