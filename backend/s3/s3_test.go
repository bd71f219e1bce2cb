package s3

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/backend"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/internal/testutil"
)

func TestBackend_GetObject(t *testing.T) {
	mock := &testutil.MockS3Client{
		GetObjectFunc: func(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
			assert.Equal(t, "bucket", aws.ToString(in.Bucket))
			assert.Equal(t, "repo/a/b.jar", aws.ToString(in.Key))
			return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader("0123456789"))}, nil
		},
	}
	b := NewWithClient(mock, nil)

	var buf bytes.Buffer
	n, err := b.GetObject(context.Background(), "bucket", "repo/a/b.jar", &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
	assert.Equal(t, "0123456789", buf.String())
}

func TestBackend_GetObjectErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{name: "no such key type", err: &types.NoSuchKey{}, kind: errors.ErrObjectNotFound},
		{name: "not found code", err: &smithy.GenericAPIError{Code: "NotFound"}, kind: errors.ErrObjectNotFound},
		{name: "no such bucket", err: &types.NoSuchBucket{}, kind: errors.ErrBucketNotFound},
		{name: "access denied", err: &smithy.GenericAPIError{Code: "AccessDenied"}, kind: errors.ErrAccessDenied},
		{
			name: "bad signature",
			err:  &smithy.GenericAPIError{Code: "SignatureDoesNotMatch"},
			kind: errors.ErrAuthenticationFailed,
		},
		{name: "anything else", err: io.ErrUnexpectedEOF, kind: errors.ErrTransferFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &testutil.MockS3Client{
				GetObjectFunc: func(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
					return nil, tt.err
				},
			}
			_, err := NewWithClient(mock, nil).GetObject(context.Background(), "bucket", "k", io.Discard)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.ErrorIs(t, err, tt.err)

			var werr *errors.Error
			require.ErrorAs(t, err, &werr)
			assert.Equal(t, "bucket", werr.Bucket)
			assert.Equal(t, "k", werr.Key)
		})
	}
}

func TestBackend_PutObject(t *testing.T) {
	var got *s3.PutObjectInput
	var body []byte
	mock := &testutil.MockS3Client{
		PutObjectFunc: func(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			got = in
			body, _ = io.ReadAll(in.Body)
			return &s3.PutObjectOutput{}, nil
		},
	}

	err := NewWithClient(mock, nil).PutObject(context.Background(), "bucket", "repo/x.pom",
		strings.NewReader("<project/>"), 10, "text/xml")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "repo/x.pom", aws.ToString(got.Key))
	assert.Equal(t, int64(10), aws.ToInt64(got.ContentLength))
	assert.Equal(t, "text/xml", aws.ToString(got.ContentType))
	assert.Equal(t, "<project/>", string(body))
}

func TestBackend_PutObjectFailure(t *testing.T) {
	mock := &testutil.MockS3Client{
		PutObjectFunc: func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			return nil, &smithy.GenericAPIError{Code: "AccessDenied"}
		},
	}
	err := NewWithClient(mock, nil).PutObject(context.Background(), "bucket", "k", strings.NewReader(""), 0, "")
	assert.ErrorIs(t, err, errors.ErrAccessDenied)
}

func TestBackend_ListObjects(t *testing.T) {
	modified := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	mock := &testutil.MockS3Client{
		ListObjectsV2Func: func(
			_ context.Context,
			in *s3.ListObjectsV2Input,
			_ ...func(*s3.Options),
		) (*s3.ListObjectsV2Output, error) {
			assert.Equal(t, int32(100), aws.ToInt32(in.MaxKeys))
			if in.ContinuationToken == nil {
				return &s3.ListObjectsV2Output{
					Contents: []types.Object{{
						Key:          aws.String("a.jar"),
						Size:         aws.Int64(3),
						ETag:         aws.String(`"abc"`),
						LastModified: aws.Time(modified),
						StorageClass: types.ObjectStorageClassStandard,
					}},
					IsTruncated:           aws.Bool(true),
					NextContinuationToken: aws.String("next"),
				}, nil
			}
			assert.Equal(t, "next", aws.ToString(in.ContinuationToken))
			return &s3.ListObjectsV2Output{
				Contents:    []types.Object{{Key: aws.String("b.jar")}},
				IsTruncated: aws.Bool(false),
			}, nil
		},
	}
	b := NewWithClient(mock, nil)

	page, err := b.ListObjects(context.Background(), backend.ListInput{Bucket: "bucket", MaxKeys: 100})
	require.NoError(t, err)
	require.Len(t, page.Objects, 1)
	assert.Equal(t, backend.Object{
		Key:          "a.jar",
		Size:         3,
		ETag:         `"abc"`,
		LastModified: modified,
		StorageClass: "STANDARD",
	}, page.Objects[0])
	assert.Equal(t, "next", page.NextContinuationToken)

	page, err = b.ListObjects(context.Background(), backend.ListInput{
		Bucket:            "bucket",
		MaxKeys:           100,
		ContinuationToken: "next",
	})
	require.NoError(t, err)
	assert.Empty(t, page.NextContinuationToken)
	assert.Equal(t, "b.jar", page.Objects[0].Key)
}

func TestBackend_ClosedRejectsCalls(t *testing.T) {
	b := NewWithClient(&testutil.MockS3Client{}, nil)
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, err := b.GetObject(context.Background(), "bucket", "k", io.Discard)
	assert.ErrorIs(t, err, errors.ErrConnectionFailed)
	err = b.PutObject(context.Background(), "bucket", "k", strings.NewReader(""), 0, "")
	assert.ErrorIs(t, err, errors.ErrConnectionFailed)
	_, err = b.ListObjects(context.Background(), backend.ListInput{Bucket: "bucket"})
	assert.ErrorIs(t, err, errors.ErrConnectionFailed)
}

// isolateAWSEnv keeps shared config files and profile settings of the host
// out of credential resolution.
func isolateAWSEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AWS_CONFIG_FILE", "/nonexistent/config")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/nonexistent/credentials")
	t.Setenv("AWS_PROFILE", "")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
}

func TestLoadAWSConfig_StaticIdentity(t *testing.T) {
	isolateAWSEnv(t)
	t.Setenv("AWS_ACCESS_KEY_ID", "AMBIENTKEY")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "ambientsecret")

	cfg, err := LoadAWSConfig(context.Background(), backend.Config{
		Region: "eu-west-1",
		Identity: &backend.Identity{
			AccessKeyID:     "AKIDEXAMPLE",
			SecretAccessKey: "secret",
			SessionToken:    "token",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)

	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AKIDEXAMPLE", creds.AccessKeyID, "explicit identity must not fall back to ambient")
	assert.Equal(t, "secret", creds.SecretAccessKey)
	assert.Equal(t, "token", creds.SessionToken)
}

func TestLoadAWSConfig_AmbientChain(t *testing.T) {
	isolateAWSEnv(t)
	t.Setenv("AWS_ACCESS_KEY_ID", "AMBIENTKEY")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "ambientsecret")
	t.Setenv("AWS_SESSION_TOKEN", "")

	cfg, err := LoadAWSConfig(context.Background(), backend.Config{Region: "us-east-1"})
	require.NoError(t, err)

	creds, err := cfg.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AMBIENTKEY", creds.AccessKeyID)
}
