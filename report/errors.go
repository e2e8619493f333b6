package report

import (
	"errors"
	"fmt"
)

// MalformedReplyMessage is the only error text shown to users. Every other
// failure surfaces as a generic fault.
const MalformedReplyMessage = "Failed to decode the response into JSON. Please check the format of the OpenAI response."

var (
	// ErrMalformedReply means the completion text is not well-formed JSON.
	ErrMalformedReply = errors.New("reply is not well-formed JSON")

	ErrMissingField = errors.New("missing field")
	ErrWrongKind    = errors.New("unexpected value kind")
	ErrRateFormat   = errors.New("rate is not a percentage")
	ErrCountFormat  = errors.New("case count is not a non-negative number")
)

// FieldError reports a well-formed reply whose shape or content does not
// match what the dashboard needs. Field is a dotted path such as
// "statistics.recovery_rate"; "$" designates the whole document.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Missing returns a FieldError for an absent key.
func Missing(field string) *FieldError {
	return &FieldError{Field: field, Err: ErrMissingField}
}
