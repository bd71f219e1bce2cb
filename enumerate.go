package wagon

import (
	"context"
	"fmt"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/backend"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
)

// ListAllObjects enumerates every object in the session bucket.
func (w *Wagon) ListAllObjects(ctx context.Context) (map[string]backend.Object, error) {
	w.mu.RLock()
	sess := w.sess
	connected := w.state == StateConnected
	w.mu.RUnlock()

	if !connected || sess == nil || sess.backend == nil {
		return nil, errors.Wrap("listAllObjects", errors.ErrConnectionFailed, fmt.Errorf("wagon is not connected"))
	}
	return EnumerateObjects(ctx, sess.backend, sess.repo.Host, w.pageSize)
}

// EnumerateObjects lists bucket page by page, following continuation tokens
// until none is returned, and merges the pages into one map keyed by object
// key. A pageSize of zero uses DefaultListPageSize. Backend errors are
// returned as is.
func EnumerateObjects(
	ctx context.Context,
	lister backend.Lister,
	bucket string,
	pageSize int32,
) (map[string]backend.Object, error) {
	if pageSize <= 0 {
		pageSize = DefaultListPageSize
	}

	objects := make(map[string]backend.Object)
	in := backend.ListInput{Bucket: bucket, MaxKeys: pageSize}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := lister.ListObjects(ctx, in)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Objects {
			objects[obj.Key] = obj
		}

		if page.NextContinuationToken == "" {
			return objects, nil
		}
		in.ContinuationToken = page.NextContinuationToken
	}
}
