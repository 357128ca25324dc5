// Package paramstore reads the bot token from AWS SSM Parameter Store.
package paramstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// *ssm.Client satisfies ssmAPI.
type ssmAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

type Client struct {
	api ssmAPI
}

func New(api ssmAPI) (*Client, error) {
	if api == nil {
		return nil, errors.New("paramstore: api must not be nil")
	}
	return &Client{api: api}, nil
}

// GetParameter returns the decrypted value of a parameter.
func (c *Client) GetParameter(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("paramstore: name is required")
	}

	out, err := c.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("paramstore: get parameter %q: %w", name, err)
	}
	if out == nil || out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("paramstore: parameter %q missing value", name)
	}
	return *out.Parameter.Value, nil
}

// ResolveToken returns token when set and otherwise the value of the param
// parameter. g may be nil when token is set.
func ResolveToken(ctx context.Context, g Getter, token, param string) (string, error) {
	if token = strings.TrimSpace(token); token != "" {
		return token, nil
	}
	if param == "" {
		return "", errors.New("paramstore: no bot token and no token parameter configured")
	}
	if g == nil {
		return "", errors.New("paramstore: token parameter set without a parameter store")
	}

	v, err := g.GetParameter(ctx, param)
	if err != nil {
		return "", err
	}
	if v = strings.TrimSpace(v); v == "" {
		return "", fmt.Errorf("paramstore: parameter %q is empty", param)
	}
	return v, nil
}
