package wagon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/backend"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/wagontypes"
)

func TestRegistry(t *testing.T) {
	mem := testutil.NewMemoryBackend()
	var configs []backend.Config
	Register("Registry-Test", testutil.RecordingFactory(mem, nil, &configs))

	assert.Contains(t, Schemes(), "registry-test")

	w, err := Open("REGISTRY-TEST", WithRegion("eu-north-1"))
	require.NoError(t, err)
	require.NoError(t, w.Connect(context.Background(), testRepository(), nil, nil))
	require.Len(t, configs, 1)
	assert.Equal(t, "eu-north-1", configs[0].Region)

	repo := &wagontypes.Repository{Protocol: "registry-test", Host: "bucket", Basedir: "/"}
	_, err = OpenRepository(repo)
	assert.NoError(t, err)
}

func TestRegistry_Unknown(t *testing.T) {
	_, err := Open("gopher")
	assert.ErrorIs(t, err, errors.ErrUnsupportedOperation)

	_, err = OpenRepository(nil)
	assert.ErrorIs(t, err, errors.ErrInvalidArgument)
}

func TestRegistry_Panics(t *testing.T) {
	Register("registry-dup", testutil.RecordingFactory(nil, nil, nil))

	assert.Panics(t, func() {
		Register("registry-dup", testutil.RecordingFactory(nil, nil, nil))
	})
	assert.Panics(t, func() {
		Register("registry-nil", nil)
	})
}
