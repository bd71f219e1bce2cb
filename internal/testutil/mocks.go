// Package testutil provides test utilities and mocks for wagon packages.
// This package is internal and should only be used for testing within the module.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/backend"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
)

// MockS3Client is a mock implementation of the S3 client subset used by the
// s3 backend. Each operation can be customized through its function field.
type MockS3Client struct {
	PutObjectFunc     func(context.Context, *s3.PutObjectInput, ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObjectFunc     func(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	ListObjectsV2Func func(context.Context, *s3.ListObjectsV2Input, ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// PutObject mocks the S3 PutObject operation.
func (m *MockS3Client) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	optFns ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	if m.PutObjectFunc != nil {
		return m.PutObjectFunc(ctx, params, optFns...)
	}
	return &s3.PutObjectOutput{}, nil
}

// GetObject mocks the S3 GetObject operation.
func (m *MockS3Client) GetObject(
	ctx context.Context,
	params *s3.GetObjectInput,
	optFns ...func(*s3.Options),
) (*s3.GetObjectOutput, error) {
	if m.GetObjectFunc != nil {
		return m.GetObjectFunc(ctx, params, optFns...)
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(nil))}, nil
}

// ListObjectsV2 mocks the S3 ListObjectsV2 operation.
func (m *MockS3Client) ListObjectsV2(
	ctx context.Context,
	params *s3.ListObjectsV2Input,
	optFns ...func(*s3.Options),
) (*s3.ListObjectsV2Output, error) {
	if m.ListObjectsV2Func != nil {
		return m.ListObjectsV2Func(ctx, params, optFns...)
	}
	return &s3.ListObjectsV2Output{}, nil
}

// MemoryBackend is an in-memory backend.Backend. Objects live in a map keyed
// by "bucket/key". The Err fields inject failures into the matching call.
type MemoryBackend struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	GetErr   error
	PutErr   error
	ListErr  error
	CloseErr error

	// Closes counts calls to Close
	Closes int

	// ListCalls records every listing request
	ListCalls []backend.ListInput
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

// Seed stores data at bucket/key.
func (m *MemoryBackend) Seed(bucket, key string, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = append([]byte(nil), data...)
}

// Object returns the stored bytes at bucket/key.
func (m *MemoryBackend) Object(bucket, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[bucket+"/"+key]
	return data, ok
}

// ContentType returns the content type recorded for bucket/key.
func (m *MemoryBackend) ContentType(bucket, key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.types[bucket+"/"+key]
}

// GetObject implements backend.Backend.
func (m *MemoryBackend) GetObject(_ context.Context, bucket, key string, w io.Writer) (int64, error) {
	if m.GetErr != nil {
		return 0, m.GetErr
	}
	data, ok := m.Object(bucket, key)
	if !ok {
		return 0, errors.Wrap("getObject", errors.ErrObjectNotFound, fmt.Errorf("no such key")).
			WithBucket(bucket).WithKey(key)
	}
	n, err := w.Write(data)
	return int64(n), err
}

// PutObject implements backend.Backend.
func (m *MemoryBackend) PutObject(
	_ context.Context,
	bucket, key string,
	r io.Reader,
	size int64,
	contentType string,
) error {
	if m.PutErr != nil {
		return m.PutErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return fmt.Errorf("short body: got %d bytes, want %d", len(data), size)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[bucket+"/"+key] = data
	m.types[bucket+"/"+key] = contentType
	return nil
}

// ListObjects implements backend.Backend. Continuation tokens are the last key
// of the previous page.
func (m *MemoryBackend) ListObjects(_ context.Context, in backend.ListInput) (*backend.ListOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ListCalls = append(m.ListCalls, in)
	if m.ListErr != nil {
		return nil, m.ListErr
	}

	prefix := in.Bucket + "/"
	var keys []string
	for k := range m.objects {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			key := k[len(prefix):]
			if len(key) >= len(in.Prefix) && key[:len(in.Prefix)] == in.Prefix && key > in.ContinuationToken {
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)

	out := &backend.ListOutput{}
	limit := len(keys)
	if in.MaxKeys > 0 && int(in.MaxKeys) < limit {
		limit = int(in.MaxKeys)
		out.NextContinuationToken = keys[limit-1]
	}
	for _, key := range keys[:limit] {
		out.Objects = append(out.Objects, backend.Object{
			Key:  key,
			Size: int64(len(m.objects[prefix+key])),
		})
	}
	return out, nil
}

// Close implements backend.Backend.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closes++
	return m.CloseErr
}

// RecordingFactory returns a backend.Factory that hands out b and records
// every Config it was called with. A non-nil err fails the factory.
func RecordingFactory(b backend.Backend, err error, configs *[]backend.Config) backend.Factory {
	return func(_ context.Context, cfg backend.Config) (backend.Backend, error) {
		if configs != nil {
			*configs = append(*configs, cfg)
		}
		if err != nil {
			return nil, err
		}
		return b, nil
	}
}

var _ backend.Backend = (*MemoryBackend)(nil)
