package descent

import "fmt"

// Error is a contract-violation error raised at the package boundary:
// unknown optimizer id, mismatched start dimension, malformed objective.
// Numerical edge cases never produce an Error; they are absorbed by the
// algorithms' documented fallbacks.
type Error struct {
	// Op is the operation that rejected the input.
	Op string
	// Message describes the violation.
	Message string
	// Err is the underlying error, if any.
	Err error
}

// Error returns the string representation of the error.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying error, if any.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// newErrorf creates a boundary error for the given operation.
func newErrorf(op, format string, args ...interface{}) *Error {
	return &Error{Op: op, Message: fmt.Sprintf(format, args...)}
}

// IsContractError reports whether err is a descent boundary error and, if so,
// returns it.
func IsContractError(err error) (*Error, bool) {
	if e, ok := err.(*Error); ok {
		return e, true
	}
	return nil, false
}
