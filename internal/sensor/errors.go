package sensor

import "errors"

// Classification failures. None of them are fatal, the candidate is
// simply dropped.
var (
	ErrMissing      = errors.New("missing sensor")
	ErrUnrecognized = errors.New("this does not look like a temp sensor")
	ErrBadIndex     = errors.New("failed reading sensor ID")
	ErrImprobable   = errors.New("improbable value detected")
	ErrNoName       = errors.New("cannot resolve sensor name")
	ErrOutOfRange   = errors.New("reading out of range")
)
