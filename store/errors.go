package store

import (
	"errors"

	"github.com/hashicorp/go-multierror"
)

// ErrNotFound signals a lookup miss: the referenced form version or
// submission does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError carries one or more input problems detected before
// anything is written to storage.
type ValidationError struct {
	Errs *multierror.Error
}

func (e ValidationError) Error() string {
	return e.Errs.Error()
}

func (e ValidationError) Unwrap() error {
	return e.Errs
}

func IsValidation(err error) bool {
	var v ValidationError
	return errors.As(err, &v)
}

func validation(errs *multierror.Error) error {
	if errs.ErrorOrNil() == nil {
		return nil
	}
	return ValidationError{errs}
}
