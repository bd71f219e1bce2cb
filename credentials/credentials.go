// Package credentials resolves the identity a wagon signs its requests with
// when the caller supplies no username.
//
// A Source is consulted once each time a session opens. Identities are
// never cached or persisted by the wagon.
package credentials

import (
	"context"
	"fmt"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/backend"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
)

// Source resolves a static identity.
type Source interface {
	Resolve(ctx context.Context) (*backend.Identity, error)
}

// Static is a Source that always returns the same identity.
type Static struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Resolve implements Source.
func (s Static) Resolve(context.Context) (*backend.Identity, error) {
	if s.AccessKeyID == "" || s.SecretAccessKey == "" {
		return nil, errors.Wrap("resolveCredentials", errors.ErrAuthenticationFailed,
			fmt.Errorf("static credentials require an access key and a secret key"))
	}
	return &backend.Identity{
		AccessKeyID:     s.AccessKeyID,
		SecretAccessKey: s.SecretAccessKey,
		SessionToken:    s.SessionToken,
	}, nil
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context) (*backend.Identity, error)

// Resolve implements Source.
func (f SourceFunc) Resolve(ctx context.Context) (*backend.Identity, error) {
	return f(ctx)
}
