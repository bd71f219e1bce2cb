package wagon

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/backend"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/wagontypes"
)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]backend.Factory)
)

// Register makes a backend available under scheme. It panics if factory is
// nil or scheme is already registered, mirroring database/sql drivers.
func Register(scheme string, factory backend.Factory) {
	scheme = strings.ToLower(scheme)

	registryMu.Lock()
	defer registryMu.Unlock()

	if factory == nil {
		panic("wagon: Register factory is nil")
	}
	if _, dup := registry[scheme]; dup {
		panic("wagon: Register called twice for scheme " + scheme)
	}
	registry[scheme] = factory
}

// Schemes returns the registered schemes in sorted order.
func Schemes() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	out := make([]string, 0, len(registry))
	for s := range registry {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Open creates a Wagon for the backend registered under scheme.
func Open(scheme string, opts ...Option) (*Wagon, error) {
	registryMu.RLock()
	factory, ok := registry[strings.ToLower(scheme)]
	registryMu.RUnlock()

	if !ok {
		return nil, errors.Wrap("open", errors.ErrUnsupportedOperation,
			fmt.Errorf("no wagon registered for scheme %q", scheme))
	}
	return New(factory, opts...), nil
}

// OpenRepository creates a Wagon for the scheme of repo.
func OpenRepository(repo *wagontypes.Repository, opts ...Option) (*Wagon, error) {
	if repo == nil {
		return nil, errors.Wrap("open", errors.ErrInvalidArgument, fmt.Errorf("repository cannot be nil"))
	}
	return Open(repo.Protocol, opts...)
}
