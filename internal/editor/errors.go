package editor

import (
	"errors"
	"fmt"
)

// ValidationError reports a draft that cannot be submitted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is matches any ValidationError on the same field.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Field == t.Field
}

// ErrNameRequired is returned by Submit when the restaurant name is empty.
var ErrNameRequired = &ValidationError{Field: "name", Reason: "please enter a restaurant name"}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
