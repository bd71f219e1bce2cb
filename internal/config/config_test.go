package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp runs the test from an empty directory so no stray .env is loaded.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "remote", cfg.RepositoryID)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Zero(t, cfg.ReadTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.False(t, cfg.PathStyle)
}

func TestLoad_Precedence(t *testing.T) {
	dir := chdirTemp(t)

	file := filepath.Join(dir, "wagon.yaml")
	require.NoError(t, os.WriteFile(file, []byte(
		"repository: s3://from-file/repo\nregion: eu-west-1\ntimeout: 10s\npath-style: true\n",
	), 0o600))
	t.Setenv("WAGON_REGION", "eu-central-1")
	t.Setenv("WAGON_ACCESS_KEY", "AKENV")

	cfg, err := Load(file, map[string]any{KeyTimeout: 5 * time.Second})
	require.NoError(t, err)
	assert.Equal(t, "s3://from-file/repo", cfg.Repository)
	assert.Equal(t, "eu-central-1", cfg.Region, "environment beats config file")
	assert.Equal(t, "AKENV", cfg.AccessKey)
	assert.Equal(t, 5*time.Second, cfg.Timeout, "overrides beat everything")
	assert.True(t, cfg.PathStyle)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("WAGON_ENDPOINT=http://localhost:9000\n"), 0o600))
	t.Setenv("WAGON_ENDPOINT", "")
	require.NoError(t, os.Unsetenv("WAGON_ENDPOINT"))

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.Endpoint)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	chdirTemp(t)
	_, err := Load("/nonexistent/wagon.yaml", nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{name: "minimal", cfg: Config{Repository: "s3://b/r"}, ok: true},
		{name: "no repository", cfg: Config{}},
		{name: "half identity", cfg: Config{Repository: "s3://b/r", AccessKey: "AK"}},
		{name: "full identity", cfg: Config{Repository: "s3://b/r", AccessKey: "AK", SecretKey: "SK"}, ok: true},
		{name: "negative timeout", cfg: Config{Repository: "s3://b/r", Timeout: -time.Second}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger("debug", "json", &buf)
	require.NoError(t, err)
	logger.Debug("hello", "bucket", "b")
	assert.Contains(t, buf.String(), `"bucket":"b"`)

	buf.Reset()
	logger, err = NewLogger("warn", "text", &buf)
	require.NoError(t, err)
	logger.Info("dropped")
	assert.Empty(t, buf.String())

	_, err = NewLogger("loud", "text", &buf)
	assert.Error(t, err)
	_, err = NewLogger("info", "xml", &buf)
	assert.Error(t, err)
}
