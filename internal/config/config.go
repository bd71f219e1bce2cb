// Package config loads the command line tool's settings from defaults, a
// .env file, an optional config file, WAGON_* environment variables and
// explicit flag overrides, in increasing order of precedence.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "WAGON"

// Setting keys. Environment variables use the upper-cased key with "-"
// replaced by "_", e.g. WAGON_ACCESS_KEY.
const (
	KeyRepository        = "repository"
	KeyRepositoryID      = "repository-id"
	KeyRegion            = "region"
	KeyEndpoint          = "endpoint"
	KeyPathStyle         = "path-style"
	KeyAccessKey         = "access-key"
	KeySecretKey         = "secret-key"
	KeySessionToken      = "session-token"
	KeyCredentialsSecret = "credentials-secret"
	KeyTimeout           = "timeout"
	KeyReadTimeout       = "read-timeout"
	KeyLogLevel          = "log-level"
	KeyLogFormat         = "log-format"
)

// Config holds the resolved settings.
type Config struct {
	Repository   string
	RepositoryID string

	Region    string
	Endpoint  string
	PathStyle bool

	AccessKey         string
	SecretKey         string
	SessionToken      string
	CredentialsSecret string

	Timeout time.Duration

	// ReadTimeout of zero keeps the wagon default
	ReadTimeout time.Duration

	LogLevel  string
	LogFormat string
}

// Load resolves the settings. configFile may be empty; a missing .env file
// is ignored. overrides take precedence over every other source.
func Load(configFile string, overrides map[string]any) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault(KeyRepositoryID, "remote")
	v.SetDefault(KeyTimeout, 60*time.Second)
	v.SetDefault(KeyReadTimeout, time.Duration(0))
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "text")
	v.SetDefault(KeyPathStyle, false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	cfg := &Config{
		Repository:        v.GetString(KeyRepository),
		RepositoryID:      v.GetString(KeyRepositoryID),
		Region:            v.GetString(KeyRegion),
		Endpoint:          v.GetString(KeyEndpoint),
		PathStyle:         v.GetBool(KeyPathStyle),
		AccessKey:         v.GetString(KeyAccessKey),
		SecretKey:         v.GetString(KeySecretKey),
		SessionToken:      v.GetString(KeySessionToken),
		CredentialsSecret: v.GetString(KeyCredentialsSecret),
		Timeout:           v.GetDuration(KeyTimeout),
		ReadTimeout:       v.GetDuration(KeyReadTimeout),
		LogLevel:          v.GetString(KeyLogLevel),
		LogFormat:         v.GetString(KeyLogFormat),
	}
	return cfg, nil
}

// Validate reports settings that cannot work together.
func (c *Config) Validate() error {
	if c.Repository == "" {
		return fmt.Errorf("%s is required", KeyRepository)
	}
	if (c.AccessKey == "") != (c.SecretKey == "") {
		return fmt.Errorf("%s and %s must be given together", KeyAccessKey, KeySecretKey)
	}
	if c.Timeout < 0 || c.ReadTimeout < 0 {
		return fmt.Errorf("timeouts cannot be negative")
	}
	return nil
}

// NewLogger builds a slog logger writing to w. format is "text" or "json".
func NewLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
