package services

import (
	"github.com/pkg/errors"
)

// opError tags a collaborator failure with one of the domain sentinels so
// callers can match on the category while the cause stays reachable.
type opError struct {
	kind  error
	cause error
}

func (e *opError) Error() string { return e.kind.Error() + ": " + e.cause.Error() }

func (e *opError) Is(target error) bool { return target == e.kind }

func (e *opError) Unwrap() error { return e.cause }

func markError(kind, cause error, msg string) error {
	return errors.Wrap(&opError{kind: kind, cause: cause}, msg)
}
