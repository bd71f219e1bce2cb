package credentials

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/wagon/backend"
	"github.com/input-output-hk/catalyst-forge-libs/wagon/errors"
)

type mockSecretsManager struct {
	GetSecretValueFunc func(
		context.Context,
		*secretsmanager.GetSecretValueInput,
		...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error)
	calls int
}

func (m *mockSecretsManager) GetSecretValue(
	ctx context.Context,
	params *secretsmanager.GetSecretValueInput,
	optFns ...func(*secretsmanager.Options),
) (*secretsmanager.GetSecretValueOutput, error) {
	m.calls++
	return m.GetSecretValueFunc(ctx, params, optFns...)
}

func secretString(s string) *mockSecretsManager {
	return &mockSecretsManager{
		GetSecretValueFunc: func(
			context.Context,
			*secretsmanager.GetSecretValueInput,
			...func(*secretsmanager.Options),
		) (*secretsmanager.GetSecretValueOutput, error) {
			return &secretsmanager.GetSecretValueOutput{SecretString: aws.String(s)}, nil
		},
	}
}

func TestStatic_Resolve(t *testing.T) {
	id, err := Static{AccessKeyID: "AK", SecretAccessKey: "SK", SessionToken: "TK"}.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &backend.Identity{AccessKeyID: "AK", SecretAccessKey: "SK", SessionToken: "TK"}, id)

	_, err = Static{AccessKeyID: "AK"}.Resolve(context.Background())
	assert.ErrorIs(t, err, errors.ErrAuthenticationFailed)
}

func TestSourceFunc(t *testing.T) {
	src := SourceFunc(func(context.Context) (*backend.Identity, error) {
		return &backend.Identity{AccessKeyID: "fn"}, nil
	})
	id, err := src.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fn", id.AccessKeyID)
}

func TestSecretsManagerSource_Resolve(t *testing.T) {
	var gotID string
	api := secretString(`{"accessKeyId":"AK","secretAccessKey":"SK","sessionToken":"TK"}`)
	inner := api.GetSecretValueFunc
	api.GetSecretValueFunc = func(
		ctx context.Context,
		in *secretsmanager.GetSecretValueInput,
		opts ...func(*secretsmanager.Options),
	) (*secretsmanager.GetSecretValueOutput, error) {
		gotID = aws.ToString(in.SecretId)
		return inner(ctx, in, opts...)
	}

	src := NewSecretsManagerSource(api, "wagon/deploy", nil)
	id, err := src.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "wagon/deploy", gotID)
	assert.Equal(t, &backend.Identity{AccessKeyID: "AK", SecretAccessKey: "SK", SessionToken: "TK"}, id)

	_, err = src.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, api.calls, "secret is read on every resolve")
}

func TestSecretsManagerSource_AWSStyleKeys(t *testing.T) {
	src := NewSecretsManagerSource(secretString(`{"AccessKeyId":"AK","SecretAccessKey":"SK"}`), "s", nil)
	id, err := src.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "AK", id.AccessKeyID)
	assert.Empty(t, id.SessionToken)
}

func TestSecretsManagerSource_Binary(t *testing.T) {
	api := &mockSecretsManager{
		GetSecretValueFunc: func(
			context.Context,
			*secretsmanager.GetSecretValueInput,
			...func(*secretsmanager.Options),
		) (*secretsmanager.GetSecretValueOutput, error) {
			return &secretsmanager.GetSecretValueOutput{
				SecretBinary: []byte(`{"accessKeyId":"AK","secretAccessKey":"SK"}`),
			}, nil
		},
	}
	id, err := NewSecretsManagerSource(api, "s", nil).Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SK", id.SecretAccessKey)
}

func TestSecretsManagerSource_Errors(t *testing.T) {
	failing := func(err error) *mockSecretsManager {
		return &mockSecretsManager{
			GetSecretValueFunc: func(
				context.Context,
				*secretsmanager.GetSecretValueInput,
				...func(*secretsmanager.Options),
			) (*secretsmanager.GetSecretValueOutput, error) {
				return nil, err
			},
		}
	}
	empty := &mockSecretsManager{
		GetSecretValueFunc: func(
			context.Context,
			*secretsmanager.GetSecretValueInput,
			...func(*secretsmanager.Options),
		) (*secretsmanager.GetSecretValueOutput, error) {
			return &secretsmanager.GetSecretValueOutput{}, nil
		},
	}

	tests := []struct {
		name     string
		api      SecretsManagerAPI
		secretID string
		kind     error
	}{
		{
			name:     "not found",
			api:      failing(&smithy.GenericAPIError{Code: ResourceNotFoundException}),
			secretID: "s",
			kind:     errors.ErrAuthenticationFailed,
		},
		{
			name:     "denied",
			api:      failing(&smithy.GenericAPIError{Code: AccessDeniedException}),
			secretID: "s",
			kind:     errors.ErrAccessDenied,
		},
		{name: "network", api: failing(fmt.Errorf("dial tcp: timeout")), secretID: "s", kind: errors.ErrAuthenticationFailed},
		{name: "no value", api: empty, secretID: "s", kind: errors.ErrAuthenticationFailed},
		{name: "bad json", api: secretString("not json"), secretID: "s", kind: errors.ErrAuthenticationFailed},
		{name: "incomplete", api: secretString(`{"accessKeyId":"AK"}`), secretID: "s", kind: errors.ErrAuthenticationFailed},
		{name: "empty id", api: secretString("{}"), secretID: "", kind: errors.ErrInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSecretsManagerSource(tt.api, tt.secretID, nil).Resolve(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}
