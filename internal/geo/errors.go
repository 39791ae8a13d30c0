package geo

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is matched by every *ValidationError.
var ErrInvalidArgument = errors.New("invalid argument")

// ValidationError reports a rejected input by parameter name.
type ValidationError struct {
	Param    string
	Value    any
	Expected string
}

func (e *ValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Param, e.Expected)
	}
	return fmt.Sprintf("invalid %s %v (%s)", e.Param, e.Value, e.Expected)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidArgument }

// Invalid is a shorthand used by the codecs.
func Invalid(param string, value any, expected string) error {
	return &ValidationError{Param: param, Value: value, Expected: expected}
}
