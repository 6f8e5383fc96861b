package credential

import (
	"context"
	"fmt"

	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentialsSource acquires tokens through the OAuth2
// client-credentials grant. The secret is held in a wipeable buffer and
// released by Close.
type ClientCredentialsSource struct {
	// TokenURL is the OAuth2 token endpoint.
	TokenURL string
	// ClientID identifies the confidential client.
	ClientID string

	secret *Secret
}

// NewClientCredentialsSource creates a source for the given client.
// The secret is copied; the caller may discard its own copy.
func NewClientCredentialsSource(tokenURL, clientID, clientSecret string) *ClientCredentialsSource {
	return &ClientCredentialsSource{
		TokenURL: tokenURL,
		ClientID: clientID,
		secret:   NewSecret(clientSecret),
	}
}

// GetCredential implements Source.
func (s *ClientCredentialsSource) GetCredential(_ context.Context) (Credential, error) {
	if s.TokenURL == "" || s.ClientID == "" {
		return nil, fmt.Errorf("credential: client credentials source requires token_url and client_id")
	}
	if s.secret.IsZero() {
		return nil, fmt.Errorf("credential: client secret has been released: %w", ErrNoCredential)
	}
	return &clientCredentialsCredential{source: s}, nil
}

// Close wipes the client secret. The source is unusable afterwards.
func (s *ClientCredentialsSource) Close() error {
	s.secret.Zero()
	return nil
}

type clientCredentialsCredential struct {
	source *ClientCredentialsSource
}

// GetToken requests a token scoped to the given scopes. Each call goes to
// the token endpoint; caching is the caller's concern.
func (c *clientCredentialsCredential) GetToken(ctx context.Context, scopes []string) (AccessToken, error) {
	if c.source.secret.IsZero() {
		return AccessToken{}, fmt.Errorf("credential: client secret has been released: %w", ErrNoCredential)
	}
	cfg := clientcredentials.Config{
		TokenURL:     c.source.TokenURL,
		ClientID:     c.source.ClientID,
		ClientSecret: c.source.secret.Value(),
		Scopes:       scopes,
	}
	tok, err := cfg.Token(ctx)
	if err != nil {
		return AccessToken{}, fmt.Errorf("credential: token request failed: %w", err)
	}
	return AccessToken{Value: tok.AccessToken, ExpiresAt: tok.Expiry}, nil
}
