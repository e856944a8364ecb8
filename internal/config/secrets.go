package config

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	log "github.com/sirupsen/logrus"
)

var ErrEmptyParameter = errors.New("parameter has no value")

// ParameterGetter is the subset of the SSM client used to resolve secrets.
type ParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// NewParameterGetter builds an SSM client from the default AWS credential chain.
func NewParameterGetter(ctx context.Context) (ParameterGetter, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return ssm.NewFromConfig(awsCfg), nil
}

// ResolveSecrets replaces secrets that are configured as SSM parameter names with their
// decrypted values. Nothing is fetched when no parameter is configured.
func ResolveSecrets(ctx context.Context, cfg *Application, newGetter func(context.Context) (ParameterGetter, error)) error {
	if cfg.Google.ClientSecretParam == "" {
		return nil
	}
	getter, err := newGetter(ctx)
	if err != nil {
		return err
	}
	secret, err := getParameter(ctx, getter, cfg.Google.ClientSecretParam)
	if err != nil {
		return fmt.Errorf("failed to resolve Google client secret: %w", err)
	}
	cfg.Google.ClientSecret = secret
	log.Infof("Google client secret resolved from parameter %s", cfg.Google.ClientSecretParam)
	return nil
}

func getParameter(ctx context.Context, getter ParameterGetter, name string) (string, error) {
	out, err := getter.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get parameter %s: %w", name, err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("%w: %s", ErrEmptyParameter, name)
	}
	return *out.Parameter.Value, nil
}
