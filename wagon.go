package wagon

import (
	"log/slog"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/backend"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/credentials"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/events"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/wagontypes"
)

const (
	// DefaultRegion is used when no region is configured.
	DefaultRegion = "us-east-1"

	// DefaultConnectionTimeout bounds connection establishment.
	DefaultConnectionTimeout = 60 * time.Second

	// DefaultReadTimeout bounds the wait for a response.
	DefaultReadTimeout = 30 * time.Minute

	// ReadTimeoutEnv overrides the default read timeout, in milliseconds.
	ReadTimeoutEnv = "MAVEN_WAGON_RTO"

	// DefaultListPageSize is the page size of object enumeration.
	DefaultListPageSize int32 = 100
)

// State is the connection state of a Wagon.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
	StateDisconnecting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	default:
		return "unknown"
	}
}

// session is the immutable state of one open connection. Reconnecting builds
// a new session and swaps it in.
type session struct {
	repo  wagontypes.Repository
	auth  wagontypes.AuthInfo
	proxy *wagontypes.ProxyInfo

	// identity is nil when the ambient credential chain is in use
	identity *backend.Identity
	region   string
	backend  backend.Backend
}

// Wagon transfers artifacts between the local filesystem and an object
// storage bucket.
type Wagon struct {
	factory   backend.Factory
	events    *events.Support
	fs        billy.Filesystem
	absPaths  bool
	logger    *slog.Logger
	keyMapper KeyMapper
	source    credentials.Source

	endpoint       string
	forcePathStyle bool
	pageSize       int32

	// connMu serializes Connect and Disconnect
	connMu sync.Mutex

	// mu guards everything below
	mu          sync.RWMutex
	state       State
	sess        *session
	region      string
	timeout     time.Duration
	readTimeout time.Duration
	interactive bool
	permissions *wagontypes.Permissions
}

// New creates a Wagon that builds its backend through factory.
//
// Example:
//
//	w := wagon.New(s3.New,
//	    wagon.WithRegion("us-west-2"),
//	    wagon.WithLogger(slog.Default()),
//	)
func New(factory backend.Factory, opts ...Option) *Wagon {
	w := &Wagon{
		factory:     factory,
		events:      events.NewSupport(nil),
		logger:      slog.New(slog.DiscardHandler),
		keyMapper:   DefaultKeyMapper,
		pageSize:    DefaultListPageSize,
		timeout:     DefaultConnectionTimeout,
		readTimeout: readTimeoutFromEnv(),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.fs == nil {
		// Default to OS filesystem rooted at /
		w.fs = osfs.New("/")
		w.absPaths = true
	}

	return w
}

// readTimeoutFromEnv returns the read timeout named by ReadTimeoutEnv, or
// DefaultReadTimeout when the variable is unset or malformed.
func readTimeoutFromEnv() time.Duration {
	raw := os.Getenv(ReadTimeoutEnv)
	if raw == "" {
		return DefaultReadTimeout
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ms <= 0 {
		return DefaultReadTimeout
	}
	return time.Duration(ms) * time.Millisecond
}

// SelectRegion returns configured when it is set and DefaultRegion otherwise.
func SelectRegion(configured string) string {
	if configured != "" {
		return configured
	}
	return DefaultRegion
}

// State returns the current connection state.
func (w *Wagon) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

func (w *Wagon) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// Repository returns a copy of the repository of the current or most recent
// session, or nil if the wagon never connected.
func (w *Wagon) Repository() *wagontypes.Repository {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.sess == nil {
		return nil
	}
	repo := w.sess.repo
	return &repo
}

// AuthInfo returns a copy of the authentication info of the current or most
// recent session, or nil if the wagon never connected.
func (w *Wagon) AuthInfo() *wagontypes.AuthInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.sess == nil {
		return nil
	}
	auth := w.sess.auth
	return &auth
}

// ProxyInfo returns the proxy selected for the current or most recent session.
func (w *Wagon) ProxyInfo() *wagontypes.ProxyInfo {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.sess == nil || w.sess.proxy == nil {
		return nil
	}
	proxy := *w.sess.proxy
	return &proxy
}

// Timeout returns the connection timeout.
func (w *Wagon) Timeout() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.timeout
}

// SetTimeout sets the connection timeout used by the next Connect.
func (w *Wagon) SetTimeout(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timeout = d
}

// ReadTimeout returns the read timeout.
func (w *Wagon) ReadTimeout() time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.readTimeout
}

// SetReadTimeout sets the read timeout used by the next Connect.
func (w *Wagon) SetReadTimeout(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.readTimeout = d
}

// Region returns the configured region, which may be empty.
func (w *Wagon) Region() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.region
}

// SetRegion sets the region used by the next Connect.
func (w *Wagon) SetRegion(region string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.region = region
}

// Interactive reports whether the wagon may prompt the user.
func (w *Wagon) Interactive() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.interactive
}

// SetInteractive sets the interactive flag.
func (w *Wagon) SetInteractive(interactive bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.interactive = interactive
}

// PermissionsOverride returns the permissions applied to repositories on Connect.
func (w *Wagon) PermissionsOverride() *wagontypes.Permissions {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.permissions
}

// SetPermissionsOverride sets the permissions applied to repositories on Connect.
// A nil value keeps the repository's own permissions.
func (w *Wagon) SetPermissionsOverride(p *wagontypes.Permissions) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.permissions = p
}

// AddSessionListener registers l for session events.
func (w *Wagon) AddSessionListener(l events.SessionListener) { w.events.AddSessionListener(l) }

// RemoveSessionListener unregisters l.
func (w *Wagon) RemoveSessionListener(l events.SessionListener) { w.events.RemoveSessionListener(l) }

// HasSessionListener reports whether l is registered.
func (w *Wagon) HasSessionListener(l events.SessionListener) bool {
	return w.events.HasSessionListener(l)
}

// AddTransferListener registers l for transfer events.
func (w *Wagon) AddTransferListener(l events.TransferListener) { w.events.AddTransferListener(l) }

// RemoveTransferListener unregisters l.
func (w *Wagon) RemoveTransferListener(l events.TransferListener) { w.events.RemoveTransferListener(l) }

// HasTransferListener reports whether l is registered.
func (w *Wagon) HasTransferListener(l events.TransferListener) bool {
	return w.events.HasTransferListener(l)
}
