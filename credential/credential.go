package credential

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"
)

// AccessToken is a bearer token with its expiry. A zero ExpiresAt means
// the issuer did not report one.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// Credential exchanges a scope list for an access token.
type Credential interface {
	GetToken(ctx context.Context, scopes []string) (AccessToken, error)
}

// Source produces a Credential. Acquiring the credential itself may
// involve I/O (metadata endpoints, token endpoints), so it takes a context.
type Source interface {
	GetCredential(ctx context.Context) (Credential, error)
}

// ErrNoCredential is returned when a source cannot produce a credential.
var ErrNoCredential = errors.New("credential: no credential available")

// StaticSource returns a fixed token regardless of scopes.
type StaticSource struct {
	Token     string
	ExpiresAt time.Time
}

// GetCredential implements Source.
func (s *StaticSource) GetCredential(_ context.Context) (Credential, error) {
	if s.Token == "" {
		return nil, ErrNoCredential
	}
	return staticCredential{token: s.Token, expiresAt: s.ExpiresAt}, nil
}

type staticCredential struct {
	token     string
	expiresAt time.Time
}

func (c staticCredential) GetToken(_ context.Context, _ []string) (AccessToken, error) {
	return AccessToken{Value: c.token, ExpiresAt: c.expiresAt}, nil
}

// EnvSource reads a token from an environment variable. The variable is
// read on every acquisition, so rotated values are picked up.
type EnvSource struct {
	// Var is the environment variable name.
	Var string
}

// GetCredential implements Source.
func (s *EnvSource) GetCredential(_ context.Context) (Credential, error) {
	if s.Var == "" {
		return nil, fmt.Errorf("credential: env source requires a variable name")
	}
	if os.Getenv(s.Var) == "" {
		return nil, fmt.Errorf("credential: %s is not set: %w", s.Var, ErrNoCredential)
	}
	return envCredential{envVar: s.Var}, nil
}

type envCredential struct {
	envVar string
}

func (c envCredential) GetToken(_ context.Context, _ []string) (AccessToken, error) {
	v := os.Getenv(c.envVar)
	if v == "" {
		return AccessToken{}, fmt.Errorf("credential: %s is not set: %w", c.envVar, ErrNoCredential)
	}
	return AccessToken{Value: v}, nil
}

// Chain tries sources in order and returns the first credential produced.
// It mirrors the environment/managed-identity chains common in cloud SDKs.
type Chain struct {
	sources []Source
}

// NewChain creates a chain over the given sources.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// GetCredential implements Source. Errors from sources that simply have
// nothing to offer (ErrNoCredential) are skipped; the last error is
// returned if every source fails.
func (c *Chain) GetCredential(ctx context.Context) (Credential, error) {
	var lastErr error
	for _, s := range c.sources {
		cred, err := s.GetCredential(ctx)
		if err == nil {
			return cred, nil
		}
		lastErr = err
		if !errors.Is(err, ErrNoCredential) {
			return nil, err
		}
	}
	if lastErr == nil {
		lastErr = ErrNoCredential
	}
	return nil, fmt.Errorf("credential: chain exhausted: %w", lastErr)
}
