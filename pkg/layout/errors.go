package layout

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every argument validation failure.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError reports a rejected input to a layout operation.
type ArgumentError struct {
	Op     string // operation, e.g. "place"
	Arg    string // argument name
	Value  any
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("layout: %s: %s %v: %s", e.Op, e.Arg, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidArgument.
func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

func invalid(op, arg string, value any, reason string) error {
	return &ArgumentError{Op: op, Arg: arg, Value: value, Reason: reason}
}
