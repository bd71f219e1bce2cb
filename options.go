package wagon

import (
	"log/slog"
	"time"

	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/credentials"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/events"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/wagontypes"
)

// Option configures a Wagon.
type Option func(*Wagon)

// WithRegion sets the region. An empty region selects DefaultRegion at connect time.
func WithRegion(region string) Option {
	return func(w *Wagon) {
		w.region = region
	}
}

// WithTimeout sets the connection timeout.
func WithTimeout(d time.Duration) Option {
	return func(w *Wagon) {
		w.timeout = d
	}
}

// WithReadTimeout sets the read timeout, overriding the environment default.
func WithReadTimeout(d time.Duration) Option {
	return func(w *Wagon) {
		w.readTimeout = d
	}
}

// WithInteractive sets the interactive flag.
func WithInteractive(interactive bool) Option {
	return func(w *Wagon) {
		w.interactive = interactive
	}
}

// WithPermissionsOverride applies p to every repository on Connect.
func WithPermissionsOverride(p *wagontypes.Permissions) Option {
	return func(w *Wagon) {
		w.permissions = p
	}
}

// WithFilesystem sets the local filesystem transfers read from and write to.
// Paths are passed to it unchanged. The default is the OS filesystem, with
// relative paths resolved against the working directory.
func WithFilesystem(fs billy.Filesystem) Option {
	return func(w *Wagon) {
		w.fs = fs
		w.absPaths = false
	}
}

// WithLogger sets the logger. The default discards all output.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Wagon) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithKeyMapper replaces DefaultKeyMapper.
func WithKeyMapper(m KeyMapper) Option {
	return func(w *Wagon) {
		if m != nil {
			w.keyMapper = m
		}
	}
}

// WithListPageSize sets the page size of object enumeration.
func WithListPageSize(n int32) Option {
	return func(w *Wagon) {
		if n > 0 {
			w.pageSize = n
		}
	}
}

// WithEndpoint overrides the storage service endpoint, for S3-compatible
// stores and local emulators.
func WithEndpoint(endpoint string) Option {
	return func(w *Wagon) {
		w.endpoint = endpoint
	}
}

// WithForcePathStyle selects path-style bucket addressing.
func WithForcePathStyle(enabled bool) Option {
	return func(w *Wagon) {
		w.forcePathStyle = enabled
	}
}

// WithCredentialSource resolves the identity when the session's AuthInfo has
// no username. Without a source the backend's ambient chain is used.
func WithCredentialSource(src credentials.Source) Option {
	return func(w *Wagon) {
		w.source = src
	}
}

// WithClock sets the clock used to stamp events.
func WithClock(now func() time.Time) Option {
	return func(w *Wagon) {
		w.events = events.NewSupport(now)
	}
}
