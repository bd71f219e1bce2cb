// Package wagon lets a build-artifact client treat an object storage bucket
// as a remote file repository.
//
// A Wagon maps repository-relative resource names onto object keys under the
// repository base directory, then uploads and downloads artifacts through a
// backend.Backend built for each session. Session and transfer lifecycle
// events are delivered synchronously to registered listeners.
//
// Backends are selected by repository URL scheme. Importing a backend package
// registers its scheme:
//
//	import (
//	    "github.com/input-output-hk/catalyst-forge-libs/wagon"
//	    _ "github.com/input-output-hk/catalyst-forge-libs/wagon/backend/s3"
//	)
//
//	repo, _ := wagontypes.ParseRepository("releases", "s3://my-bucket/maven")
//	w, err := wagon.OpenRepository(repo, wagon.WithRegion("eu-west-1"))
//	if err != nil {
//	    return err
//	}
//	if err := w.Connect(ctx, repo, nil, nil); err != nil {
//	    return err
//	}
//	defer w.Disconnect(ctx)
//
//	err = w.Put(ctx, "target/app-1.0.jar", "com/example/app/1.0/app-1.0.jar")
//
// A missing remote object is not an error for Get; use Fetch to learn whether
// anything was downloaded. Any other backend failure aborts the transfer with
// an error matching errors.ErrTransferFailed.
//
// Thread Safety: a Wagon may be shared between goroutines. Connect and
// Disconnect are serialized; transfers run against the session that was
// current when they started.
package wagon
