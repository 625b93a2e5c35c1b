package sieveline

import "fmt"

// A ValidationError reports malformed input: mismatched slice lengths,
// non-positive bucket or point counts.
type ValidationError struct {
	Op  string
	Msg string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func errValidation(op, format string, args ...interface{}) error {
	return &ValidationError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// An InterpolationError reports a method specific failure: an unknown method
// name, too few finite samples for the chosen method, or a numerical fit
// failure such as a singular system.
type InterpolationError struct {
	Method string
	Msg    string
	Err    error
}

func (e *InterpolationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("interpolate %s: %s: %s", e.Method, e.Msg, e.Err)
	}
	return fmt.Sprintf("interpolate %s: %s", e.Method, e.Msg)
}

func (e *InterpolationError) Unwrap() error { return e.Err }

func errInterpolation(method, format string, args ...interface{}) error {
	return &InterpolationError{Method: method, Msg: fmt.Sprintf(format, args...)}
}

func wrapInterpolation(method string, err error, msg string) error {
	return &InterpolationError{Method: method, Msg: msg, Err: err}
}
