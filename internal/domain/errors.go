package domain

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrRateLimited     = errors.New("rate limited")
	ErrNotFound        = errors.New("not found")
	ErrInternal        = errors.New("internal error")
)

// AccessError carries the internal reason a guard stage denied a request.
// Code is written to the server log only; clients receive the generic
// message for the wrapped sentinel.
type AccessError struct {
	Code string
	Err  error
}

func (e *AccessError) Error() string {
	if e == nil {
		return ""
	}
	return e.Code
}

func (e *AccessError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func IsAccessError(err error) (*AccessError, bool) {
	var access *AccessError
	if errors.As(err, &access) {
		return access, true
	}
	return nil, false
}
