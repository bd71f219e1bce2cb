package main

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/input-output-hk/catalyst-forge-libs/wagon"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/credentials"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/events"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/internal/config"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/wagontypes"
)

// openSession loads the configuration, builds a wagon for the repository and
// connects it. The returned function disconnects.
func openSession(c *cli.Context) (*wagon.Wagon, func() error, error) {
	cfg, err := config.Load(c.String(flagConfig), flagOverrides(c))
	if err != nil {
		return nil, nil, errors.Wrap("config", errors.ErrInvalidArgument, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, errors.Wrap("config", errors.ErrInvalidArgument, err)
	}

	logger, err := config.NewLogger(cfg.LogLevel, cfg.LogFormat, c.App.ErrWriter)
	if err != nil {
		return nil, nil, errors.Wrap("config", errors.ErrInvalidArgument, err)
	}

	repo, err := wagontypes.ParseRepository(cfg.RepositoryID, cfg.Repository)
	if err != nil {
		return nil, nil, errors.Wrap("config", errors.ErrInvalidArgument, err)
	}

	opts := []wagon.Option{
		wagon.WithRegion(cfg.Region),
		wagon.WithTimeout(cfg.Timeout),
		wagon.WithEndpoint(cfg.Endpoint),
		wagon.WithForcePathStyle(cfg.PathStyle),
		wagon.WithLogger(logger),
	}
	if cfg.ReadTimeout > 0 {
		opts = append(opts, wagon.WithReadTimeout(cfg.ReadTimeout))
	}
	if cfg.CredentialsSecret != "" {
		src, err := credentials.NewSecretsManagerSourceFromRegion(
			c.Context, wagon.SelectRegion(cfg.Region), cfg.CredentialsSecret, logger)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, wagon.WithCredentialSource(src))
	}

	w, err := wagon.OpenRepository(repo, opts...)
	if err != nil {
		return nil, nil, err
	}
	listener := &logListener{logger: logger}
	w.AddSessionListener(listener)
	w.AddTransferListener(listener)

	auth := &wagontypes.AuthInfo{
		UserName:     cfg.AccessKey,
		Password:     cfg.SecretKey,
		SessionToken: cfg.SessionToken,
	}
	if err := w.Connect(c.Context, repo, auth, nil); err != nil {
		return nil, nil, err
	}

	return w, func() error { return w.Disconnect(c.Context) }, nil
}

// logListener reports lifecycle events through the logger.
type logListener struct {
	logger *slog.Logger
}

func (l *logListener) SessionEvent(e events.SessionEvent) {
	if e.Err != nil {
		l.logger.Warn("session "+e.Type.String(), "repository", e.Repository, "error", e.Err)
		return
	}
	l.logger.Debug("session "+e.Type.String(), "repository", e.Repository)
}

func (l *logListener) TransferEvent(e events.TransferEvent) {
	switch e.Type {
	case events.TransferStarted:
		l.logger.Info(e.Request.String()+" started", "resource", e.Resource.Name, "file", e.LocalFile)
	case events.TransferCompleted:
		l.logger.Info(e.Request.String()+" completed", "resource", e.Resource.Name)
	case events.TransferError:
		l.logger.Error(e.Request.String()+" failed", "resource", e.Resource.Name, "error", e.Err)
	case events.TransferProgress:
		l.logger.Debug(e.Request.String()+" progress", "resource", e.Resource.Name, "bytes", e.Transferred)
	}
}

func requireArgs(c *cli.Context, n int) error {
	if c.NArg() != n {
		return errors.Wrap(c.Command.Name, errors.ErrInvalidArgument,
			fmt.Errorf("expected %d arguments: %s", n, c.Command.ArgsUsage))
	}
	return nil
}
