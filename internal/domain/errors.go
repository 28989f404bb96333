package domain

import (
	"errors"
	"fmt"
)

// InputError is caused by something the user typed. Its message is shown back
// to them verbatim; everything else is treated as an internal failure.
type InputError struct{ Msg string }

func (e *InputError) Error() string { return e.Msg }

func Inputf(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
