package scene

import "errors"

var (
	// ErrInvalidArgument is returned when a required value is missing or
	// violates an invariant of the model.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfRange is returned when an attribute is queried for a time at
	// which the shape is not on stage.
	ErrOutOfRange = errors.New("time out of range")
)
