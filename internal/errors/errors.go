// Package errors defines the eleven-kind error taxonomy (spec §7) used
// uniformly across the I/O, Admin, Query and Config facades.
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard errors package functions.
var (
	As     = errors.As
	Is     = errors.Is
	New    = errors.New
	Unwrap = errors.Unwrap
)

// Error kinds. Ok has no sentinel: a nil error means Ok everywhere in
// this module.
var (
	// ErrNotFound: no such path.
	ErrNotFound = errors.New("not found")
	// ErrUnavailable: path exists but no value has been pushed yet.
	ErrUnavailable = errors.New("unavailable")
	// ErrDuplicate: conflicting definition, or a routing change would
	// create a cycle.
	ErrDuplicate = errors.New("duplicate")
	// ErrBadParameter: malformed path, wrong type, invalid JSON, unit
	// mismatch, or any other caller-supplied value that fails validation.
	ErrBadParameter = errors.New("bad parameter")
	// ErrNoMemory: allocation failed; the sample or operation was dropped.
	ErrNoMemory = errors.New("no memory")
	// ErrOverflow: caller-supplied buffer was too small.
	ErrOverflow = errors.New("overflow")
	// ErrInProgress: blocked by an active update barrier.
	ErrInProgress = errors.New("in progress")
	// ErrNotPermitted: namespace reassignment rejected on a hosted build.
	ErrNotPermitted = errors.New("not permitted")
	// ErrFormatError: type mismatch on a typed getter.
	ErrFormatError = errors.New("format error")
	// ErrFault: unclassified internal error.
	ErrFault = errors.New("fault")
)

var allKinds = []error{
	ErrNotFound,
	ErrUnavailable,
	ErrDuplicate,
	ErrBadParameter,
	ErrNoMemory,
	ErrOverflow,
	ErrInProgress,
	ErrNotPermitted,
	ErrFormatError,
	ErrFault,
}

// Wrap wraps an error with additional context, preserving its kind for
// GetErrorCode via %w.
func Wrap(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// WrapWithCode wraps err's context under a specific error kind.
func WrapWithCode(err error, code error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}

	wrappedErr := fmt.Errorf(format+": %w", append(args, err)...)
	return fmt.Errorf("%w: %w", code, wrappedErr)
}

// GetErrorCode extracts the error kind from an error, or nil if err is
// nil or does not wrap a known kind (in which case callers should treat
// it as Fault).
func GetErrorCode(err error) error {
	if err == nil {
		return nil
	}

	for _, code := range allKinds {
		if errors.Is(err, code) {
			return code
		}
	}

	return nil
}

// GetErrorCodeString returns the spec §7/§8 name for an error's kind.
func GetErrorCodeString(err error) string {
	if err == nil {
		return "OK"
	}

	code := GetErrorCode(err)
	if code == nil {
		return "FAULT"
	}

	switch code {
	case ErrNotFound:
		return "NOT_FOUND"
	case ErrUnavailable:
		return "UNAVAILABLE"
	case ErrDuplicate:
		return "DUPLICATE"
	case ErrBadParameter:
		return "BAD_PARAMETER"
	case ErrNoMemory:
		return "NO_MEMORY"
	case ErrOverflow:
		return "OVERFLOW"
	case ErrInProgress:
		return "IN_PROGRESS"
	case ErrNotPermitted:
		return "NOT_PERMITTED"
	case ErrFormatError:
		return "FORMAT_ERROR"
	case ErrFault:
		return "FAULT"
	default:
		return "FAULT"
	}
}

// HTTPStatus maps an error kind to the HTTP status the facade layer
// reports it as.
func HTTPStatus(err error) int {
	switch GetErrorCode(err) {
	case ErrNotFound:
		return 404
	case ErrUnavailable:
		return 409
	case ErrDuplicate:
		return 409
	case ErrBadParameter:
		return 400
	case ErrNoMemory:
		return 507
	case ErrOverflow:
		return 400
	case ErrInProgress:
		return 423
	case ErrNotPermitted:
		return 403
	case ErrFormatError:
		return 400
	default:
		return 500
	}
}
