// Package minio is a backend for S3-compatible object stores built on
// minio-go. It serves repositories whose URL scheme is "minio".
//
// Importing the package registers the scheme:
//
//	import _ "github.com/input-output-hk/catalyst-forge-libs/wagon/backend/minio"
package minio

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/backend"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
)

// DefaultEndpoint is used when the configuration names no endpoint.
const DefaultEndpoint = "https://s3.amazonaws.com"

// API is the subset of minio-go used by the backend.
type API interface {
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) error
	ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// clientAPI adapts *minio.Client to API.
type clientAPI struct {
	client *minio.Client
}

func (c clientAPI) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	return c.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
}

func (c clientAPI) PutObject(
	ctx context.Context,
	bucket, key string,
	r io.Reader,
	size int64,
	opts minio.PutObjectOptions,
) error {
	_, err := c.client.PutObject(ctx, bucket, key, r, size, opts)
	return err
}

func (c clientAPI) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return c.client.ListObjects(ctx, bucket, opts)
}

// Backend talks to an S3-compatible store through minio-go.
type Backend struct {
	api    API
	logger *slog.Logger
	closed atomic.Bool
}

// New builds a Backend from cfg. It satisfies backend.Factory.
func New(_ context.Context, cfg backend.Config) (backend.Backend, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	host, secure, err := splitEndpoint(endpoint)
	if err != nil {
		return nil, errors.Wrap("connect", errors.ErrConnectionFailed, err)
	}

	tr, err := minio.DefaultTransport(secure)
	if err != nil {
		return nil, errors.Wrap("connect", errors.ErrConnectionFailed, err)
	}
	backend.ConfigureTransport(tr, cfg, endpoint)

	lookup := minio.BucketLookupAuto
	if cfg.ForcePathStyle {
		lookup = minio.BucketLookupPath
	}

	client, err := minio.New(host, &minio.Options{
		Creds:        Credentials(cfg.Identity),
		Secure:       secure,
		Region:       cfg.Region,
		Transport:    tr,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, errors.Wrap("connect", errors.ErrConnectionFailed, err)
	}

	cfg.Logger.Debug("minio client created",
		"endpoint", host,
		"secure", secure,
		"region", cfg.Region,
		"static_identity", cfg.Identity != nil)

	return NewWithClient(clientAPI{client: client}, cfg.Logger), nil
}

// NewWithClient wraps an existing API implementation.
// This is primarily used for testing with fake clients.
func NewWithClient(api API, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Backend{api: api, logger: logger}
}

// Credentials returns the minio credential set for id. A nil identity
// resolves through the environment, the shared AWS credentials file and
// finally instance metadata.
func Credentials(id *backend.Identity) *credentials.Credentials {
	if id != nil {
		return credentials.NewStaticV4(id.AccessKeyID, id.SecretAccessKey, id.SessionToken)
	}
	return credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.EnvMinio{},
		&credentials.FileAWSCredentials{},
		&credentials.IAM{Client: &http.Client{Transport: http.DefaultTransport}},
	})
}

// splitEndpoint turns "https://host:port" into the bare host minio-go
// expects and whether TLS is used. A scheme-less endpoint is treated as TLS.
func splitEndpoint(endpoint string) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		return endpoint, true, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	switch u.Scheme {
	case "https":
		return u.Host, true, nil
	case "http":
		return u.Host, false, nil
	default:
		return "", false, fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
}

// GetObject streams bucket/key into w.
func (b *Backend) GetObject(ctx context.Context, bucket, key string, w io.Writer) (int64, error) {
	if err := b.checkOpen("getObject"); err != nil {
		return 0, err
	}

	obj, err := b.api.GetObject(ctx, bucket, key)
	if err != nil {
		return 0, translateError("getObject", err).WithBucket(bucket).WithKey(key)
	}
	defer obj.Close()

	// minio-go defers the request until the first read, so a missing
	// object surfaces from Copy.
	n, err := io.Copy(w, obj)
	if err != nil {
		return n, translateError("getObject", err).WithBucket(bucket).WithKey(key)
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

	err := b.api.PutObject(ctx, bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return translateError("putObject", err).WithBucket(bucket).WithKey(key)
	}
	return nil
}

// ListObjects returns one page of the listing. The continuation token is the
// last key of the previous page and is passed back as StartAfter.
func (b *Backend) ListObjects(ctx context.Context, in backend.ListInput) (*backend.ListOutput, error) {
	if err := b.checkOpen("listObjects"); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := minio.ListObjectsOptions{
		Prefix:     in.Prefix,
		Recursive:  true,
		StartAfter: in.ContinuationToken,
	}
	if in.MaxKeys > 0 {
		opts.MaxKeys = int(in.MaxKeys)
	}

	out := &backend.ListOutput{}
	for info := range b.api.ListObjects(ctx, in.Bucket, opts) {
		if info.Err != nil {
			return nil, translateError("listObjects", info.Err).WithBucket(in.Bucket)
		}
		if in.MaxKeys > 0 && len(out.Objects) == int(in.MaxKeys) {
			// one object past the page proves there is more to read
			out.NextContinuationToken = out.Objects[len(out.Objects)-1].Key
			break
		}
		out.Objects = append(out.Objects, backend.Object{
			Key:          info.Key,
			Size:         info.Size,
			ETag:         info.ETag,
			LastModified: info.LastModified,
			StorageClass: info.StorageClass,
		})
	}

	return out, nil
}

// Close marks the backend closed. Closing twice is harmless.
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

// translateError classifies a minio-go error into one of the wagon error kinds.
func translateError(op string, err error) *errors.Error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return errors.Wrap(op, errors.ErrObjectNotFound, err)
	case "NoSuchBucket":
		return errors.Wrap(op, errors.ErrBucketNotFound, err)
	case "AccessDenied":
		return errors.Wrap(op, errors.ErrAccessDenied, err)
	case "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
		return errors.Wrap(op, errors.ErrAuthenticationFailed, err)
	}
	return errors.Wrap(op, errors.ErrTransferFailed, err)
}

var _ backend.Backend = (*Backend)(nil)
