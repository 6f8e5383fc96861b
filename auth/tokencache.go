package auth

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"

	"github.com/kbukum/apikit/credential"
	"github.com/kbukum/apikit/logger"
)

// DefaultExpiryBuffer is how long before its reported expiry a cached
// token stops being served.
const DefaultExpiryBuffer = 5 * time.Minute

// scopeSuffix follows the resource/.default scope convention.
const scopeSuffix = "/.default"

// TokenCache caches one bearer token per audience. Lookups are served
// from memory while `now < expiresAt - buffer`; anything else triggers a
// fresh acquisition through the credential source.
//
// By default concurrent refreshes for the same audience may race, costing
// a few duplicate acquisitions. WithSingleFlight
// collapses them into one in-flight acquisition per audience.
type TokenCache struct {
	source credential.Source
	buffer time.Duration
	single bool
	log    *logger.Logger

	group singleflight.Group
	now   func() time.Time

	mu     sync.Mutex
	tokens map[string]cachedToken
}

type cachedToken struct {
	value     []byte
	expiresAt time.Time
}

// TokenCacheOption configures a TokenCache.
type TokenCacheOption func(*TokenCache)

// WithExpiryBuffer overrides the default 5-minute expiry buffer.
func WithExpiryBuffer(d time.Duration) TokenCacheOption {
	return func(tc *TokenCache) {
		if d > 0 {
			tc.buffer = d
		}
	}
}

// WithSingleFlight collapses concurrent refreshes per audience into a
// single acquisition.
func WithSingleFlight() TokenCacheOption {
	return func(tc *TokenCache) { tc.single = true }
}

// WithLogger sets the cache logger.
func WithLogger(log *logger.Logger) TokenCacheOption {
	return func(tc *TokenCache) {
		if log != nil {
			tc.log = log
		}
	}
}

// NewTokenCache creates a token cache over the given credential source.
func NewTokenCache(source credential.Source, opts ...TokenCacheOption) *TokenCache {
	tc := &TokenCache{
		source: source,
		buffer: DefaultExpiryBuffer,
		log:    logger.Nop(),
		now:    time.Now,
		tokens: make(map[string]cachedToken),
	}
	for _, opt := range opts {
		opt(tc)
	}
	tc.log = tc.log.WithComponent("tokencache")
	return tc
}

// GetAccessToken returns a token for the audience, from cache when fresh,
// otherwise freshly acquired. Acquisition errors surface as *Error and
// are never retried here.
func (tc *TokenCache) GetAccessToken(ctx context.Context, audience string) (string, error) {
	if audience == "" {
		return "", ErrEmptyAudience
	}

	if value, ok := tc.lookup(audience); ok {
		tc.log.Debug("cache hit", logger.Fields(logger.FieldAudience, audience))
		return value, nil
	}
	tc.log.Debug("cache miss", logger.Fields(logger.FieldAudience, audience))

	if tc.single {
		v, err, _ := tc.group.Do(audience, func() (interface{}, error) {
			// Another caller may have refreshed while we queued.
			if value, ok := tc.lookup(audience); ok {
				return value, nil
			}
			return tc.refresh(ctx, audience)
		})
		if err != nil {
			return "", err
		}
		return v.(string), nil
	}

	return tc.refresh(ctx, audience)
}

// Clear evicts every cached token, wiping the stored bytes.
func (tc *TokenCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	for audience, ct := range tc.tokens {
		wipe(ct.value)
		delete(tc.tokens, audience)
	}
}

// lookup returns the cached value if it is still outside the buffer.
func (tc *TokenCache) lookup(audience string) (string, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	ct, ok := tc.tokens[audience]
	if !ok {
		return "", false
	}
	if !tc.now().Before(ct.expiresAt.Add(-tc.buffer)) {
		return "", false
	}
	return string(ct.value), true
}

// refresh acquires a new token and stores it when its expiry is known.
func (tc *TokenCache) refresh(ctx context.Context, audience string) (string, error) {
	cred, err := tc.source.GetCredential(ctx)
	if err != nil {
		return "", &Error{Audience: audience, Err: err}
	}

	token, err := cred.GetToken(ctx, []string{audience + scopeSuffix})
	if err != nil {
		return "", &Error{Audience: audience, Err: err}
	}

	expiresAt := token.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = expiryFromJWT(token.Value)
	}

	if expiresAt.IsZero() {
		// Unknown lifetime: serve but never cache.
		tc.log.Debug("token has no known expiry, not cached",
			logger.Fields(logger.FieldAudience, audience))
		return token.Value, nil
	}

	tc.mu.Lock()
	if old, ok := tc.tokens[audience]; ok {
		wipe(old.value)
	}
	tc.tokens[audience] = cachedToken{value: []byte(token.Value), expiresAt: expiresAt}
	tc.mu.Unlock()

	tc.log.Debug("token refreshed", logger.Fields(
		logger.FieldAudience, audience,
		"expires_at", expiresAt,
	))
	return token.Value, nil
}

// expiryFromJWT recovers an expiry from the token's exp claim when the
// issuer did not report one. The token is not verified here; it is about
// to be sent to the party that issued it.
func expiryFromJWT(value string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(value, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
