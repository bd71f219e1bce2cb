package main

import (
	"github.com/urfave/cli/v2"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/internal/config"
)

const flagConfig = "config"

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  flagConfig,
			Usage: "Path to a YAML, JSON or TOML config file",
		},
		&cli.StringFlag{
			Name:    config.KeyRepository,
			Aliases: []string{"r"},
			Usage:   "Repository URL, e.g. s3://bucket/base/dir",
		},
		&cli.StringFlag{
			Name:  config.KeyRepositoryID,
			Usage: "Repository identifier reported in events",
		},
		&cli.StringFlag{
			Name:  config.KeyRegion,
			Usage: "Storage region (default us-east-1)",
		},
		&cli.StringFlag{
			Name:  config.KeyEndpoint,
			Usage: "Override the storage endpoint URL",
		},
		&cli.BoolFlag{
			Name:  config.KeyPathStyle,
			Usage: "Use path-style bucket addressing",
		},
		&cli.StringFlag{
			Name:  config.KeyAccessKey,
			Usage: "Access key ID; omit to use the ambient credential chain",
		},
		&cli.StringFlag{
			Name:  config.KeySecretKey,
			Usage: "Secret access key",
		},
		&cli.StringFlag{
			Name:  config.KeySessionToken,
			Usage: "Session token for temporary credentials",
		},
		&cli.StringFlag{
			Name:  config.KeyCredentialsSecret,
			Usage: "AWS Secrets Manager secret holding the credentials as JSON",
		},
		&cli.DurationFlag{
			Name:  config.KeyTimeout,
			Usage: "Connection timeout",
		},
		&cli.DurationFlag{
			Name:  config.KeyReadTimeout,
			Usage: "Read timeout (default from MAVEN_WAGON_RTO or 30m)",
		},
		&cli.StringFlag{
			Name:  config.KeyLogLevel,
			Usage: "Log level: debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:  config.KeyLogFormat,
			Usage: "Log format: text or json",
		},
	}
}

// flagOverrides collects the global flags that were set explicitly.
func flagOverrides(c *cli.Context) map[string]any {
	out := make(map[string]any)
	for _, name := range []string{
		config.KeyRepository,
		config.KeyRepositoryID,
		config.KeyRegion,
		config.KeyEndpoint,
		config.KeyAccessKey,
		config.KeySecretKey,
		config.KeySessionToken,
		config.KeyCredentialsSecret,
		config.KeyLogLevel,
		config.KeyLogFormat,
	} {
		if c.IsSet(name) {
			out[name] = c.String(name)
		}
	}
	if c.IsSet(config.KeyPathStyle) {
		out[config.KeyPathStyle] = c.Bool(config.KeyPathStyle)
	}
	for _, name := range []string{config.KeyTimeout, config.KeyReadTimeout} {
		if c.IsSet(name) {
			out[name] = c.Duration(name)
		}
	}
	return out
}
