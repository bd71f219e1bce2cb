package errors

import "errors"

// ErrorCode represents a specific error condition reported by a wagon.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// CodeNotFound indicates a requested resource does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeUnauthorized indicates credentials could not be resolved or were rejected.
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"

	// CodeForbidden indicates the identity lacks permission for the operation.
	CodeForbidden ErrorCode = "FORBIDDEN"

	// CodeInvalidInput indicates the provided input is invalid or missing.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeNetwork indicates a session could not be established or torn down.
	CodeNetwork ErrorCode = "NETWORK_ERROR"

	// CodeTransferFailed indicates a get or put was aborted.
	CodeTransferFailed ErrorCode = "TRANSFER_FAILED"

	// CodeNotImplemented indicates the requested functionality is not implemented.
	CodeNotImplemented ErrorCode = "NOT_IMPLEMENTED"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)

// codeOrder lists kinds from most to least specific. A transfer failure caused by
// access denial reports CodeForbidden rather than CodeTransferFailed.
var codeOrder = []struct {
	kind error
	code ErrorCode
}{
	{ErrInvalidArgument, CodeInvalidInput},
	{ErrUnsupportedOperation, CodeNotImplemented},
	{ErrAccessDenied, CodeForbidden},
	{ErrAuthenticationFailed, CodeUnauthorized},
	{ErrResourceDoesNotExist, CodeNotFound},
	{ErrObjectNotFound, CodeNotFound},
	{ErrBucketNotFound, CodeNotFound},
	{ErrConnectionFailed, CodeNetwork},
	{ErrTransferFailed, CodeTransferFailed},
}

// Code classifies err. It returns the empty code for a nil error and CodeUnknown
// when no known kind is present in the chain.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}
	for _, c := range codeOrder {
		if errors.Is(err, c.kind) {
			return c.code
		}
	}
	return CodeUnknown
}
