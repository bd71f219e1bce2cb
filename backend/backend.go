// Package backend defines the object storage surface a wagon transfers against.
//
// A Backend is bound to one identity and one region for its whole life. The
// wagon builds a new Backend through a Factory every time a session opens and
// closes it when the session ends.
package backend

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/wagontypes"
)

// Backend is the object storage collaborator of a wagon.
//
// Implementations report a missing object from GetObject with an error that
// matches errors.ErrObjectNotFound. Any other error is a transfer failure.
type Backend interface {
	// GetObject streams the object at bucket/key into w and returns the number of bytes written.
	GetObject(ctx context.Context, bucket, key string, w io.Writer) (int64, error)

	// PutObject uploads size bytes from r to bucket/key.
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, contentType string) error

	// ListObjects returns a single page of a bucket listing.
	ListObjects(ctx context.Context, in ListInput) (*ListOutput, error)

	// Close releases the client handle. Closing twice must not fail.
	Close() error
}

// Lister is the listing subset of Backend used by object enumeration.
type Lister interface {
	ListObjects(ctx context.Context, in ListInput) (*ListOutput, error)
}

// ListInput requests one page of a listing.
type ListInput struct {
	Bucket string
	Prefix string

	// MaxKeys caps the page size; zero means the backend default
	MaxKeys int32

	// ContinuationToken resumes a listing; empty starts from the beginning
	ContinuationToken string
}

// ListOutput is one page of a listing.
type ListOutput struct {
	Objects []Object

	// NextContinuationToken is empty when the listing is exhausted
	NextContinuationToken string
}

// Object describes a stored object.
type Object struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
	StorageClass string
}

// Identity is a static credential set. A nil *Identity in Config selects the
// backend's ambient credential chain.
type Identity struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Config carries everything a Factory needs to build a client handle.
type Config struct {
	// Region is already resolved; it is never empty
	Region string

	// Identity is nil when the ambient credential chain should be used
	Identity *Identity

	// Endpoint overrides the service endpoint (S3-compatible stores, LocalStack)
	Endpoint string

	// ForcePathStyle selects path-style bucket addressing
	ForcePathStyle bool

	// ConnectTimeout bounds connection establishment
	ConnectTimeout time.Duration

	// ReadTimeout bounds the wait for response headers
	ReadTimeout time.Duration

	// Proxy is the proxy to route through, nil for direct connections
	Proxy *wagontypes.ProxyInfo

	// Logger receives backend diagnostics; it is never nil
	Logger *slog.Logger
}

// Factory builds a Backend from a Config.
type Factory func(ctx context.Context, cfg Config) (Backend, error)
