package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "bucket and key",
			err:  NewError("get", ErrTransferFailed).WithBucket("repo-bucket").WithKey("repo/a.jar"),
			want: "wagon.get repo-bucket/repo/a.jar: transfer failed",
		},
		{
			name: "bucket only",
			err:  NewError("list", ErrAccessDenied).WithBucket("repo-bucket"),
			want: "wagon.list bucket repo-bucket: access denied",
		},
		{
			name: "key only",
			err:  NewError("put", ErrTransferFailed).WithKey("repo/a.jar"),
			want: "wagon.put object repo/a.jar: transfer failed",
		},
		{
			name: "no context",
			err:  NewError("connect", ErrInvalidArgument).WithMessage("repository cannot be nil"),
			want: "wagon.connect: repository cannot be nil: invalid argument",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrap_KeepsKindAndCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: %w", ErrAccessDenied)
	err := Wrap("get", ErrTransferFailed, cause)

	assert.True(t, errors.Is(err, ErrTransferFailed))
	assert.True(t, errors.Is(err, ErrAccessDenied))
	assert.True(t, IsTransferFailed(err))
	assert.False(t, IsObjectNotFound(err))
}

func TestWrap_NilCause(t *testing.T) {
	err := Wrap("putDirectory", ErrUnsupportedOperation, nil)

	assert.True(t, IsUnsupported(err))
	assert.Equal(t, "wagon.putDirectory: operation not supported", err.Error())
}

func TestCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"nil", nil, ""},
		{"invalid", NewError("connect", ErrInvalidArgument), CodeInvalidInput},
		{"unsupported", NewError("resourceExists", ErrUnsupportedOperation), CodeNotImplemented},
		{"auth", Wrap("connect", ErrAuthenticationFailed, errors.New("no secret")), CodeUnauthorized},
		{"missing dir", NewError("getFileList", ErrResourceDoesNotExist), CodeNotFound},
		{"connection", Wrap("disconnect", ErrConnectionFailed, errors.New("boom")), CodeNetwork},
		{"transfer", Wrap("put", ErrTransferFailed, errors.New("reset")), CodeTransferFailed},
		{"transfer denied", Wrap("put", ErrTransferFailed, ErrAccessDenied), CodeForbidden},
		{"unknown", errors.New("something else"), CodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Code(tt.err))
		})
	}
}
