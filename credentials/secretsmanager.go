package credentials

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/backend"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
)

// AWS error codes returned by Secrets Manager.
const (
	ResourceNotFoundException = "ResourceNotFoundException"
	AccessDeniedException     = "AccessDeniedException"
)

// SecretsManagerAPI is the subset of the Secrets Manager client used to read
// credential secrets.
type SecretsManagerAPI interface {
	GetSecretValue(
		ctx context.Context,
		params *secretsmanager.GetSecretValueInput,
		optFns ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
}

// secretPayload is the JSON layout of a credential secret. Field matching is
// case-insensitive, so "AccessKeyId" is accepted as well.
type secretPayload struct {
	AccessKeyID     string `json:"accessKeyId"`
	SecretAccessKey string `json:"secretAccessKey"`
	SessionToken    string `json:"sessionToken,omitempty"`
}

// SecretsManagerSource reads an identity from a JSON secret stored in AWS
// Secrets Manager.
//
// The secret is fetched on every Resolve so rotated keys take effect on the
// next session open.
type SecretsManagerSource struct {
	api      SecretsManagerAPI
	secretID string
	logger   *slog.Logger
}

// NewSecretsManagerSource creates a source reading secretID through api.
// A nil logger discards output.
func NewSecretsManagerSource(api SecretsManagerAPI, secretID string, logger *slog.Logger) *SecretsManagerSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &SecretsManagerSource{api: api, secretID: secretID, logger: logger}
}

// NewSecretsManagerSourceFromRegion builds the Secrets Manager client from the
// default AWS configuration for region.
func NewSecretsManagerSourceFromRegion(
	ctx context.Context,
	region, secretID string,
	logger *slog.Logger,
) (*SecretsManagerSource, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, errors.Wrap("resolveCredentials", errors.ErrAuthenticationFailed, err)
	}
	return NewSecretsManagerSource(secretsmanager.NewFromConfig(cfg), secretID, logger), nil
}

// Resolve implements Source.
func (s *SecretsManagerSource) Resolve(ctx context.Context) (*backend.Identity, error) {
	if s.secretID == "" {
		return nil, errors.Wrap("resolveCredentials", errors.ErrInvalidArgument,
			fmt.Errorf("secret id cannot be empty"))
	}

	s.logger.DebugContext(ctx, "retrieving credential secret", "secret_name", s.secretID)

	out, err := s.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(s.secretID),
	})
	if err != nil {
		var apiErr smithy.APIError
		if stderrors.As(err, &apiErr) {
			switch apiErr.ErrorCode() {
			case ResourceNotFoundException:
				return nil, errors.Wrap("resolveCredentials", errors.ErrAuthenticationFailed,
					fmt.Errorf("secret %s not found: %w", s.secretID, err))
			case AccessDeniedException:
				return nil, errors.Wrap("resolveCredentials", errors.ErrAccessDenied, err)
			}
		}
		s.logger.ErrorContext(ctx, "failed to retrieve credential secret",
			"secret_name", s.secretID,
			"error", err)
		return nil, errors.Wrap("resolveCredentials", errors.ErrAuthenticationFailed, err)
	}

	var raw []byte
	switch {
	case out.SecretString != nil:
		raw = []byte(*out.SecretString)
	case out.SecretBinary != nil:
		raw = out.SecretBinary
	default:
		return nil, errors.Wrap("resolveCredentials", errors.ErrAuthenticationFailed,
			fmt.Errorf("secret %s has no value", s.secretID))
	}

	var payload secretPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Wrap("resolveCredentials", errors.ErrAuthenticationFailed,
			fmt.Errorf("decode secret %s: %w", s.secretID, err))
	}

	return Static(payload).Resolve(ctx)
}

var (
	_ Source = Static{}
	_ Source = SourceFunc(nil)
	_ Source = (*SecretsManagerSource)(nil)
)
