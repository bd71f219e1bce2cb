package wagon

import (
	"context"
	"fmt"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/backend"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/events"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/wagontypes"
)

// Connect opens a session against repo.
//
// When auth carries no username, the username and password embedded in the
// repository URL are used. With no username at all the identity comes from
// the configured credential source, or from the backend's ambient chain when
// there is none. proxy may be nil.
//
// Connecting an already connected wagon replaces its session; the previous
// backend is closed once the new one is in place.
func (w *Wagon) Connect(
	ctx context.Context,
	repo *wagontypes.Repository,
	auth *wagontypes.AuthInfo,
	proxy wagontypes.ProxyInfoProvider,
) error {
	if repo == nil {
		return errors.Wrap("connect", errors.ErrInvalidArgument, fmt.Errorf("repository cannot be nil"))
	}

	w.connMu.Lock()
	defer w.connMu.Unlock()

	target := *repo
	if perms := w.PermissionsOverride(); perms != nil {
		p := *perms
		target.Permissions = &p
	}

	var info wagontypes.AuthInfo
	if auth != nil {
		info = *auth
	}
	if info.UserName == "" && target.Username != "" {
		info.UserName = target.Username
		if info.Password == "" {
			info.Password = target.Password
		}
	}

	var proxyInfo *wagontypes.ProxyInfo
	if proxy != nil {
		proxyInfo = proxy.ProxyInfo(target.Protocol)
	}

	w.setState(StateConnecting)
	w.events.FireSession(events.SessionOpening, target.ID)

	sess, err := w.openConnection(ctx, target, info, proxyInfo)
	if err != nil {
		w.logger.Error("connection refused",
			"repository", target.ID,
			"bucket", target.Host,
			"error", err)
		w.events.FireConnectionRefused(target.ID, err)
		w.setState(StateDisconnected)
		return err
	}

	w.events.FireSession(events.SessionOpened, target.ID)
	if sess.identity != nil {
		w.events.FireSession(events.SessionLoggedIn, target.ID)
	}
	w.setState(StateConnected)

	w.logger.Info("session opened",
		"repository", target.ID,
		"bucket", target.Host,
		"region", sess.region)
	return nil
}

// openConnection builds a backend for the target and swaps it into the
// wagon. The previous backend, if any, is closed after the swap.
func (w *Wagon) openConnection(
	ctx context.Context,
	repo wagontypes.Repository,
	auth wagontypes.AuthInfo,
	proxy *wagontypes.ProxyInfo,
) (*session, error) {
	identity, err := w.resolveIdentity(ctx, auth)
	if err != nil {
		return nil, err
	}

	region := SelectRegion(w.Region())
	cfg := backend.Config{
		Region:         region,
		Identity:       identity,
		Endpoint:       w.endpoint,
		ForcePathStyle: w.forcePathStyle,
		ConnectTimeout: w.Timeout(),
		ReadTimeout:    w.ReadTimeout(),
		Proxy:          proxy,
		Logger:         w.logger,
	}

	b, err := w.factory(ctx, cfg)
	if err != nil {
		return nil, errors.Wrap("connect", errors.ErrConnectionFailed, err).WithBucket(repo.Host)
	}

	next := &session{
		repo:     repo,
		auth:     auth,
		proxy:    proxy,
		identity: identity,
		region:   region,
		backend:  b,
	}

	w.mu.Lock()
	prev := w.sess
	w.sess = next
	w.mu.Unlock()

	if prev != nil && prev.backend != nil {
		if err := prev.backend.Close(); err != nil {
			w.logger.Warn("failed to close previous backend",
				"repository", prev.repo.ID,
				"error", err)
		}
	}

	return next, nil
}

// resolveIdentity returns the static identity for auth, or nil when the
// ambient credential chain should be used.
func (w *Wagon) resolveIdentity(ctx context.Context, auth wagontypes.AuthInfo) (*backend.Identity, error) {
	if auth.HasIdentity() {
		return &backend.Identity{
			AccessKeyID:     auth.UserName,
			SecretAccessKey: auth.Password,
			SessionToken:    auth.SessionToken,
		}, nil
	}
	if w.source == nil {
		return nil, nil
	}

	identity, err := w.source.Resolve(ctx)
	if err != nil {
		if errors.Code(err) == errors.CodeUnauthorized || errors.Code(err) == errors.CodeForbidden {
			return nil, err
		}
		return nil, errors.Wrap("connect", errors.ErrAuthenticationFailed, err)
	}
	return identity, nil
}

// Disconnect closes the session. Disconnecting a wagon that holds no backend
// is a no-op apart from the lifecycle events.
func (w *Wagon) Disconnect(context.Context) error {
	w.connMu.Lock()
	defer w.connMu.Unlock()

	w.mu.Lock()
	sess := w.sess
	w.state = StateDisconnecting
	w.mu.Unlock()

	var repoID string
	if sess != nil {
		repoID = sess.repo.ID
	}
	w.events.FireSession(events.SessionDisconnecting, repoID)

	if sess != nil && sess.backend != nil {
		detached := *sess
		detached.backend = nil
		w.mu.Lock()
		w.sess = &detached
		w.mu.Unlock()

		if err := sess.backend.Close(); err != nil {
			w.logger.Error("failed to close session",
				"repository", repoID,
				"error", err)
			w.events.FireSessionError(repoID, err)
			w.setState(StateDisconnected)
			return errors.Wrap("disconnect", errors.ErrConnectionFailed, err)
		}

		if sess.identity != nil {
			w.events.FireSession(events.SessionLoggedOff, repoID)
		}
	}

	w.events.FireSession(events.SessionDisconnected, repoID)
	w.setState(StateDisconnected)

	w.logger.Info("session closed", "repository", repoID)
	return nil
}
