package wagon

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/events"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/wagontypes"
)

// DefaultContentType is used when no content type can be detected.
const DefaultContentType = "application/octet-stream"

// FetchResult reports the outcome of a download.
type FetchResult struct {
	// Found is false when the remote object does not exist
	Found bool

	// Size is the number of bytes written to the destination
	Size int64
}

// transferSession returns the current session, failing with
// errors.ErrTransferFailed when the wagon is not connected or the repository
// has no base directory.
func (w *Wagon) transferSession(op string) (*session, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.state != StateConnected || w.sess == nil || w.sess.backend == nil {
		return nil, errors.Wrap(op, errors.ErrTransferFailed, fmt.Errorf("wagon is not connected"))
	}
	if !w.sess.repo.HasBasedir() {
		return nil, errors.Wrap(op, errors.ErrTransferFailed, fmt.Errorf("repository base directory is not set")).
			WithBucket(w.sess.repo.Host)
	}
	return w.sess, nil
}

// localPath resolves p on the wagon filesystem.
func (w *Wagon) localPath(p string) (string, error) {
	if !w.absPaths {
		return p, nil
	}
	return filepath.Abs(p)
}

func (w *Wagon) fireTransfer(
	t events.TransferEventType,
	req events.RequestType,
	res wagontypes.Resource,
	local string,
	err error,
) {
	w.events.FireTransfer(events.TransferEvent{
		Type:      t,
		Request:   req,
		Resource:  res,
		LocalFile: local,
		Err:       err,
	})
}

func (w *Wagon) progress(req events.RequestType, res wagontypes.Resource, local string) progressFunc {
	return func(transferred int64) {
		w.events.FireTransfer(events.TransferEvent{
			Type:        events.TransferProgress,
			Request:     req,
			Resource:    res,
			LocalFile:   local,
			Transferred: transferred,
			Total:       res.ContentLength,
		})
	}
}

// Get downloads resourceName to destination. A missing remote object leaves
// destination untouched and is not an error.
func (w *Wagon) Get(ctx context.Context, resourceName, destination string) error {
	_, err := w.Fetch(ctx, resourceName, destination)
	return err
}

// Fetch downloads resourceName to destination and reports whether the
// object existed.
//
// The object is written to destination + ".tmp" first and renamed into
// place once complete, replacing any existing file. The temporary file is
// removed on every path.
func (w *Wagon) Fetch(ctx context.Context, resourceName, destination string) (FetchResult, error) {
	sess, err := w.transferSession("get")
	if err != nil {
		return FetchResult{}, err
	}

	local, err := w.localPath(destination)
	if err != nil {
		return FetchResult{}, errors.Wrap("get", errors.ErrTransferFailed, err).WithKey(resourceName)
	}

	key := w.keyMapper(sess.repo.Basedir, resourceName)
	res := wagontypes.NewResource(resourceName)

	w.fireTransfer(events.TransferInitiated, events.RequestGet, res, local, nil)
	w.fireTransfer(events.TransferStarted, events.RequestGet, res, local, nil)
	defer w.fireTransfer(events.TransferCompleted, events.RequestGet, res, local, nil)

	result, err := w.download(ctx, sess, key, res, local)
	if err != nil {
		w.logger.Error("download failed",
			"bucket", sess.repo.Host,
			"key", key,
			"destination", local,
			"error", err)
		w.fireTransfer(events.TransferError, events.RequestGet, res, local, err)
		return FetchResult{}, err
	}

	if !result.Found {
		w.logger.Debug("remote object not found",
			"bucket", sess.repo.Host,
			"key", key)
		return result, nil
	}

	w.logger.Debug("download completed",
		"bucket", sess.repo.Host,
		"key", key,
		"destination", local,
		"bytes", result.Size)
	return result, nil
}

func (w *Wagon) download(
	ctx context.Context,
	sess *session,
	key string,
	res wagontypes.Resource,
	destination string,
) (FetchResult, error) {
	fail := func(err error) (FetchResult, error) {
		return FetchResult{}, errors.Wrap("get", errors.ErrTransferFailed, err).
			WithBucket(sess.repo.Host).WithKey(key)
	}

	if err := w.fs.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return fail(fmt.Errorf("create parent directory: %w", err))
	}

	tmp := destination + ".tmp"
	f, err := w.fs.Create(tmp)
	if err != nil {
		return fail(fmt.Errorf("create temporary file: %w", err))
	}
	defer func() {
		if err := w.fs.Remove(tmp); err != nil && !stderrors.Is(err, os.ErrNotExist) {
			w.logger.Warn("failed to remove temporary file", "path", tmp, "error", err)
		}
	}()

	pw := &progressWriter{w: f, progress: w.progress(events.RequestGet, res, destination)}
	n, getErr := sess.backend.GetObject(ctx, sess.repo.Host, key, pw)
	closeErr := f.Close()

	if getErr != nil {
		if errors.IsObjectNotFound(getErr) {
			return FetchResult{Found: false}, nil
		}
		return fail(getErr)
	}
	if closeErr != nil {
		return fail(fmt.Errorf("close temporary file: %w", closeErr))
	}

	if err := w.fs.Remove(destination); err != nil && !stderrors.Is(err, os.ErrNotExist) {
		return fail(fmt.Errorf("remove existing destination: %w", err))
	}
	if err := w.fs.Rename(tmp, destination); err != nil {
		return fail(fmt.Errorf("move temporary file into place: %w", err))
	}

	return FetchResult{Found: true, Size: n}, nil
}

// Put uploads the local file source as resourceName.
func (w *Wagon) Put(ctx context.Context, source, resourceName string) error {
	sess, err := w.transferSession("put")
	if err != nil {
		return err
	}

	local, err := w.localPath(source)
	if err != nil {
		return errors.Wrap("put", errors.ErrTransferFailed, err).WithKey(resourceName)
	}

	key := w.keyMapper(sess.repo.Basedir, resourceName)
	res := wagontypes.NewResource(resourceName)
	info, statErr := w.fs.Stat(local)
	if statErr == nil {
		res.ContentLength = info.Size()
		res.LastModified = info.ModTime()
	}

	w.fireTransfer(events.TransferInitiated, events.RequestPut, res, local, nil)
	w.fireTransfer(events.TransferStarted, events.RequestPut, res, local, nil)
	defer w.fireTransfer(events.TransferCompleted, events.RequestPut, res, local, nil)

	err = statErr
	if err == nil && info.IsDir() {
		err = fmt.Errorf("%s is a directory", local)
	}
	if err == nil {
		err = w.upload(ctx, sess, key, res, local)
	}
	if err != nil {
		if !errors.IsTransferFailed(err) {
			err = errors.Wrap("put", errors.ErrTransferFailed, err).WithBucket(sess.repo.Host).WithKey(key)
		}
		w.logger.Error("upload failed",
			"bucket", sess.repo.Host,
			"key", key,
			"source", local,
			"error", err)
		w.fireTransfer(events.TransferError, events.RequestPut, res, local, err)
		return err
	}

	w.logger.Debug("upload completed",
		"bucket", sess.repo.Host,
		"key", key,
		"source", local,
		"bytes", res.ContentLength)
	return nil
}

func (w *Wagon) upload(
	ctx context.Context,
	sess *session,
	key string,
	res wagontypes.Resource,
	source string,
) error {
	f, err := w.fs.Open(source)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	contentType := detectContentType(f, source)
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("rewind source: %w", err)
	}

	body := newProgressReader(f, w.progress(events.RequestPut, res, source))
	return sess.backend.PutObject(ctx, sess.repo.Host, key, body, res.ContentLength, contentType)
}

// detectContentType sniffs r, falling back to the extension of name.
func detectContentType(r io.Reader, name string) string {
	if mt, err := mimetype.DetectReader(r); err == nil && mt != nil && !mt.Is(DefaultContentType) {
		return mt.String()
	}
	if ext := strings.ToLower(filepath.Ext(name)); ext != "" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			return byExt
		}
	}
	return DefaultContentType
}

// GetFileList lists the entries of directory beneath the repository base
// directory on the local filesystem; "." lists the base directory itself.
// Directory entries carry a trailing "/".
//
// The listing reads local state, not the bucket. Use ListAllObjects for the
// remote view.
func (w *Wagon) GetFileList(_ context.Context, directory string) ([]string, error) {
	w.mu.RLock()
	sess := w.sess
	w.mu.RUnlock()

	if sess == nil || !sess.repo.HasBasedir() {
		return nil, errors.Wrap("getFileList", errors.ErrResourceDoesNotExist,
			fmt.Errorf("repository base directory is not set"))
	}

	dir := sess.repo.Basedir
	if directory != "." {
		dir = dir + "/" + directory
	}
	dir = strings.ReplaceAll(dir, "\\", "/")

	local, err := w.localPath(dir)
	if err != nil {
		return nil, errors.Wrap("getFileList", errors.ErrResourceDoesNotExist, err)
	}

	info, err := w.fs.Stat(local)
	if err != nil {
		return nil, errors.Wrap("getFileList", errors.ErrResourceDoesNotExist,
			fmt.Errorf("%s: %w", local, err))
	}
	if !info.IsDir() {
		return nil, errors.Wrap("getFileList", errors.ErrResourceDoesNotExist,
			fmt.Errorf("%s is not a directory", local))
	}

	entries, err := w.fs.ReadDir(local)
	if err != nil {
		return nil, errors.Wrap("getFileList", errors.ErrResourceDoesNotExist, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		names = append(names, name)
	}
	return names, nil
}

// GetIfNewer always reports false without contacting the backend.
// Timestamp comparison is not implemented; callers wanting the object
// must use Get.
func (w *Wagon) GetIfNewer(_ context.Context, resourceName, destination string, timestamp time.Time) (bool, error) {
	w.logger.Debug("getIfNewer is not implemented",
		"resource", resourceName,
		"destination", destination,
		"timestamp", timestamp)
	return false, nil
}

// PutDirectory is not supported.
func (w *Wagon) PutDirectory(context.Context, string, string) error {
	return errors.Wrap("putDirectory", errors.ErrUnsupportedOperation, nil)
}

// ResourceExists is not supported.
func (w *Wagon) ResourceExists(context.Context, string) (bool, error) {
	return false, errors.Wrap("resourceExists", errors.ErrUnsupportedOperation, nil)
}

// SupportsDirectoryCopy reports false; see PutDirectory.
func (w *Wagon) SupportsDirectoryCopy() bool {
	return false
}
