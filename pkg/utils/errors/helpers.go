package errors

import stderrors "errors"

// FromError converts any error to Errno.
// If err is or wraps an Errno, that Errno is returned.
// Otherwise, it is wrapped as ErrInternal.
func FromError(err error) *Errno {
	if err == nil {
		return nil
	}
	var e *Errno
	if stderrors.As(err, &e) {
		return e
	}
	return ErrInternal.WithCause(err)
}

// IsCode checks if the error has the given error code.
func IsCode(err error, code int) bool {
	var e *Errno
	if stderrors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the error code from an error.
// Returns -1 if the error is not an Errno.
func GetCode(err error) int {
	var e *Errno
	if stderrors.As(err, &e) {
		return e.Code
	}
	return -1
}

// HasStatus reports whether err carries an Errno mapped to the given HTTP status.
func HasStatus(err error, status int) bool {
	var e *Errno
	if stderrors.As(err, &e) {
		return e.HTTPStatus() == status
	}
	return false
}
