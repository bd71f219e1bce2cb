package wagon

import (
	"context"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/events"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/wagontypes"
)

// Transport is the operation surface a repository client drives.
type Transport interface {
	Connect(ctx context.Context, repo *wagontypes.Repository, auth *wagontypes.AuthInfo, proxy wagontypes.ProxyInfoProvider) error
	Disconnect(ctx context.Context) error

	Get(ctx context.Context, resourceName, destination string) error
	GetIfNewer(ctx context.Context, resourceName, destination string, timestamp time.Time) (bool, error)
	Put(ctx context.Context, source, resourceName string) error
	PutDirectory(ctx context.Context, sourceDir, destinationDir string) error
	ResourceExists(ctx context.Context, resourceName string) (bool, error)
	GetFileList(ctx context.Context, directory string) ([]string, error)
	SupportsDirectoryCopy() bool

	AddSessionListener(l events.SessionListener)
	RemoveSessionListener(l events.SessionListener)
	HasSessionListener(l events.SessionListener) bool
	AddTransferListener(l events.TransferListener)
	RemoveTransferListener(l events.TransferListener)
	HasTransferListener(l events.TransferListener) bool

	Timeout() time.Duration
	SetTimeout(d time.Duration)
	ReadTimeout() time.Duration
	SetReadTimeout(d time.Duration)
	Region() string
	SetRegion(region string)
	Interactive() bool
	SetInteractive(interactive bool)

	Repository() *wagontypes.Repository
}

var _ Transport = (*Wagon)(nil)
