package wagon

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/backend"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/internal/testutil"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/wagontypes"
)

type fixture struct {
	wagon    *Wagon
	backend  *testutil.MemoryBackend
	fs       billy.Filesystem
	recorder *testutil.EventRecorder
	configs  []backend.Config
}

func testRepository() *wagontypes.Repository {
	return &wagontypes.Repository{
		ID:       "test",
		URL:      "s3://bucket/repo",
		Protocol: "s3",
		Host:     "bucket",
		Basedir:  "/repo",
	}
}

// newFixture builds a wagon over an in-memory backend and filesystem with a
// recorder registered for all events. The wagon is not connected.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := &fixture{
		backend:  testutil.NewMemoryBackend(),
		fs:       memfs.New(),
		recorder: &testutil.EventRecorder{},
	}
	opts = append([]Option{WithFilesystem(f.fs)}, opts...)
	f.wagon = New(testutil.RecordingFactory(f.backend, nil, &f.configs), opts...)
	f.wagon.AddSessionListener(f.recorder)
	f.wagon.AddTransferListener(f.recorder)
	return f
}

// connectedFixture is newFixture followed by a successful Connect to
// testRepository. Connect events are cleared from the recorder.
func connectedFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()

	f := newFixture(t, opts...)
	require.NoError(t, f.wagon.Connect(context.Background(), testRepository(), nil, nil))
	f.recorder.Reset()
	return f
}

func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}
