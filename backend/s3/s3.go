// Package s3 is the Amazon S3 backend of the wagon, built on aws-sdk-go-v2.
//
// Importing the package registers the "s3" scheme:
//
//	import _ "github.com/input-output-hk/catalyst-forge-libs/wagon/backend/s3"
package s3

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/backend"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
)

// API is the subset of the S3 client used by the backend.
// It exists so tests can substitute a mock client.
type API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(
		ctx context.Context,
		params *s3.ListObjectsV2Input,
		optFns ...func(*s3.Options),
	) (*s3.ListObjectsV2Output, error)
}

// Backend talks to S3 through a single client handle.
type Backend struct {
	api    API
	logger *slog.Logger
	closed atomic.Bool
}

// New builds a Backend from cfg. It satisfies backend.Factory.
func New(ctx context.Context, cfg backend.Config) (backend.Backend, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	awsCfg, err := LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	cfg.Logger.Debug("s3 client created",
		"region", awsCfg.Region,
		"endpoint", cfg.Endpoint,
		"static_identity", cfg.Identity != nil)

	return NewWithClient(client, cfg.Logger), nil
}

// NewWithClient wraps an existing API implementation.
// This is primarily used for testing with mocked clients.
func NewWithClient(api API, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{api: api, logger: logger}
}

// LoadAWSConfig resolves the aws.Config for cfg. A static identity is used
// exactly as given; without one the SDK's default credential chain applies.
func LoadAWSConfig(ctx context.Context, cfg backend.Config) (aws.Config, error) {
	httpClient := awshttp.NewBuildableClient().WithTransportOptions(func(tr *http.Transport) {
		backend.ConfigureTransport(tr, cfg, cfg.Endpoint)
	})

	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithHTTPClient(httpClient),
	}
	if id := cfg.Identity; id != nil {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(id.AccessKeyID, id.SecretAccessKey, id.SessionToken),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return aws.Config{}, errors.Wrap("loadConfig", errors.ErrConnectionFailed, err)
	}
	return awsCfg, nil
}

// GetObject streams bucket/key into w.
func (b *Backend) GetObject(ctx context.Context, bucket, key string, w io.Writer) (int64, error) {
	if err := b.checkOpen("getObject"); err != nil {
		return 0, err
	}

	out, err := b.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, translateError("getObject", err).WithBucket(bucket).WithKey(key)
	}
	defer out.Body.Close()

	n, err := io.Copy(w, out.Body)
	if err != nil {
		return n, errors.Wrap("getObject", errors.ErrTransferFailed, err).WithBucket(bucket).WithKey(key)
	}
	return n, nil
}

// PutObject uploads size bytes read from r to bucket/key.
func (b *Backend) PutObject(
	ctx context.Context,
	bucket, key string,
	r io.Reader,
	size int64,
	contentType string,
) error {
	if err := b.checkOpen("putObject"); err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := b.api.PutObject(ctx, input); err != nil {
		return translateError("putObject", err).WithBucket(bucket).WithKey(key)
	}
	return nil
}

// ListObjects fetches one ListObjectsV2 page.
func (b *Backend) ListObjects(ctx context.Context, in backend.ListInput) (*backend.ListOutput, error) {
	if err := b.checkOpen("listObjects"); err != nil {
		return nil, err
	}

	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(in.Bucket),
	}
	if in.Prefix != "" {
		input.Prefix = aws.String(in.Prefix)
	}
	if in.MaxKeys > 0 {
		input.MaxKeys = aws.Int32(in.MaxKeys)
	}
	if in.ContinuationToken != "" {
		input.ContinuationToken = aws.String(in.ContinuationToken)
	}

	out, err := b.api.ListObjectsV2(ctx, input)
	if err != nil {
		return nil, translateError("listObjects", err).WithBucket(in.Bucket)
	}

	result := &backend.ListOutput{
		Objects: make([]backend.Object, 0, len(out.Contents)),
	}
	for _, obj := range out.Contents {
		result.Objects = append(result.Objects, backend.Object{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			ETag:         aws.ToString(obj.ETag),
			LastModified: aws.ToTime(obj.LastModified),
			StorageClass: string(obj.StorageClass),
		})
	}
	if aws.ToBool(out.IsTruncated) {
		result.NextContinuationToken = aws.ToString(out.NextContinuationToken)
	}

	return result, nil
}

// Close marks the backend closed. The SDK client holds no resources that
// need explicit release; closing twice is harmless.
func (b *Backend) Close() error {
	b.closed.Store(true)
	return nil
}

func (b *Backend) checkOpen(op string) error {
	if b.closed.Load() {
		return errors.Wrap(op, errors.ErrConnectionFailed, fmt.Errorf("backend closed"))
	}
	return nil
}

var _ backend.Backend = (*Backend)(nil)
