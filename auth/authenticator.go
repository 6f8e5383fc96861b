package auth

import (
	"context"
	"errors"

	"github.com/kbukum/apikit/logger"
)

// ErrNoTokenCache is returned when a Bearer scheme is configured but the
// authenticator has no token cache to resolve it with.
var ErrNoTokenCache = errors.New("auth: bearer scheme configured without a token cache")

// Authenticator applies an ordered list of schemes to outgoing requests.
type Authenticator struct {
	tokens *TokenCache
	log    *logger.Logger
}

// NewAuthenticator creates an authenticator. tokens may be nil if no
// Bearer scheme will ever be configured; log may be nil.
func NewAuthenticator(tokens *TokenCache, log *logger.Logger) *Authenticator {
	if log == nil {
		log = logger.Nop()
	}
	return &Authenticator{tokens: tokens, log: log.WithComponent("auth")}
}

// Apply runs every scheme against the target in list order. No schemes is
// a no-op. The first failing scheme aborts the rest; authentication
// failures propagate unretried.
func (a *Authenticator) Apply(ctx context.Context, t Target, schemes []Scheme) error {
	for _, s := range schemes {
		if err := s.apply(ctx, t, a); err != nil {
			return err
		}
	}
	return nil
}
