package datasource

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// QueryError marks a failed persistence operation.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s failed: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// WrapQuery wraps err as a QueryError for op. gorm.ErrRecordNotFound is
// returned unchanged so it is reported as a missing resource.
func WrapQuery(op string, err error) error {
	if err == nil || errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	var qe *QueryError
	if errors.As(err, &qe) {
		return err
	}
	return &QueryError{Op: op, Err: err}
}
