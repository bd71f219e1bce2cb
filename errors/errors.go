// Package errors provides error types and classification for wagon operations.
package errors

import (
	"errors"
	"fmt"
)

// Error represents a wagon operation error with context about the operation that failed.
// It wraps the underlying cause with the bucket and key involved, when known.
type Error struct {
	// Op is the operation that failed (e.g., "connect", "get", "put")
	Op string

	// Bucket is the bucket backing the repository (if applicable)
	Bucket string

	// Key is the storage object key (if applicable)
	Key string

	// Err is the underlying error, usually one of the sentinel kinds below
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	if e.Bucket != "" && e.Key != "" {
		return fmt.Sprintf("wagon.%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	if e.Bucket != "" {
		return fmt.Sprintf("wagon.%s bucket %s: %v", e.Op, e.Bucket, e.Err)
	}
	if e.Key != "" {
		return fmt.Sprintf("wagon.%s object %s: %v", e.Op, e.Key, e.Err)
	}
	return fmt.Sprintf("wagon.%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// WithBucket adds bucket context to an existing error.
func (e *Error) WithBucket(bucket string) *Error {
	e.Bucket = bucket
	return e
}

// WithKey adds object key context to an existing error.
func (e *Error) WithKey(key string) *Error {
	e.Key = key
	return e
}

// WithMessage wraps the underlying error with a custom message.
func (e *Error) WithMessage(message string) *Error {
	e.Err = fmt.Errorf("%s: %w", message, e.Err)
	return e
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{
		Op:  op,
		Err: err,
	}
}

// Wrap classifies cause under kind for the given operation.
// Both kind and cause remain reachable through errors.Is and errors.As.
func Wrap(op string, kind, cause error) *Error {
	if cause == nil {
		return NewError(op, kind)
	}
	return &Error{
		Op:  op,
		Err: fmt.Errorf("%w: %w", kind, cause),
	}
}

// Error kinds surfaced to wagon callers.
// These can be used with errors.Is() for error checking.
var (
	// ErrConnectionFailed indicates that a session could not be opened or closed
	ErrConnectionFailed = errors.New("connection failed")

	// ErrAuthenticationFailed indicates that credentials could not be resolved
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrTransferFailed indicates that a get or put was aborted
	ErrTransferFailed = errors.New("transfer failed")

	// ErrResourceDoesNotExist indicates that a path the call requires is absent
	ErrResourceDoesNotExist = errors.New("resource does not exist")

	// ErrUnsupportedOperation indicates a capability this wagon does not provide
	ErrUnsupportedOperation = errors.New("operation not supported")

	// ErrInvalidArgument indicates a missing or malformed argument
	ErrInvalidArgument = errors.New("invalid argument")
)

// Backend-level conditions reported by object storage implementations.
var (
	// ErrObjectNotFound indicates that the requested object does not exist
	ErrObjectNotFound = errors.New("object not found")

	// ErrBucketNotFound indicates that the requested bucket does not exist
	ErrBucketNotFound = errors.New("bucket not found")

	// ErrAccessDenied indicates that access to the resource is denied
	ErrAccessDenied = errors.New("access denied")
)

// IsObjectNotFound checks if an error indicates that an object was not found.
func IsObjectNotFound(err error) bool {
	return errors.Is(err, ErrObjectNotFound)
}

// IsTransferFailed checks if an error aborted a transfer.
func IsTransferFailed(err error) bool {
	return errors.Is(err, ErrTransferFailed)
}

// IsUnsupported checks if an error reports an unsupported operation.
func IsUnsupported(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}
