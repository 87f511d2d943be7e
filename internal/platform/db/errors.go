package db

import (
	"errors"
	"fmt"
)

// DataAccessError wraps any failure that reaches the store: connectivity,
// malformed query, driver error, or a row that cannot be scanned. The
// underlying cause is preserved and the core never retries on its own.
type DataAccessError struct {
	Op  string
	Err error
}

func (e *DataAccessError) Error() string {
	return fmt.Sprintf("data access: %s: %v", e.Op, e.Err)
}

func (e *DataAccessError) Unwrap() error { return e.Err }

// AccessErr wraps err as a DataAccessError for the given operation.
// Returns nil when err is nil so call sites can wrap unconditionally.
func AccessErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DataAccessError{Op: op, Err: err}
}

// IsDataAccess reports whether err is (or wraps) a DataAccessError.
func IsDataAccess(err error) bool {
	var dae *DataAccessError
	return errors.As(err, &dae)
}
