package s3

import (
	stderrors "errors"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
)

// translateError classifies an SDK error into one of the wagon error kinds.
func translateError(op string, err error) *errors.Error {
	var noSuchKey *types.NoSuchKey
	if stderrors.As(err, &noSuchKey) {
		return errors.Wrap(op, errors.ErrObjectNotFound, err)
	}
	var notFound *types.NotFound
	if stderrors.As(err, &notFound) {
		return errors.Wrap(op, errors.ErrObjectNotFound, err)
	}
	var noSuchBucket *types.NoSuchBucket
	if stderrors.As(err, &noSuchBucket) {
		return errors.Wrap(op, errors.ErrBucketNotFound, err)
	}

	var apiErr smithy.APIError
	if stderrors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return errors.Wrap(op, errors.ErrObjectNotFound, err)
		case "NoSuchBucket":
			return errors.Wrap(op, errors.ErrBucketNotFound, err)
		case "AccessDenied", "Forbidden":
			return errors.Wrap(op, errors.ErrAccessDenied, err)
		case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return errors.Wrap(op, errors.ErrAuthenticationFailed, err)
		}
	}

	return errors.Wrap(op, errors.ErrTransferFailed, err)
}
