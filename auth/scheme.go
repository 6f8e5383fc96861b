package auth

import (
	"context"

	"github.com/kbukum/apikit/logger"
)

// Placement specifies where an API key is written.
type Placement string

const (
	// PlacementHeader sends the key as a request header.
	PlacementHeader Placement = "header"
	// PlacementQuery sends the key as a URL query parameter.
	PlacementQuery Placement = "query"
)

// DefaultAPIKeyName is the header/parameter name used when none is given.
const DefaultAPIKeyName = "X-API-Key"

// Target is the mutable view of an outgoing request a scheme writes to.
// The client package's Request satisfies it.
type Target interface {
	SetHeader(name, value string)
	HasHeader(name string) bool
	SetQuery(name, value string)
	HasQuery(name string) bool
}

// Scheme is one configured authentication mechanism. The interface is
// sealed: only APIKey and Bearer implement it.
type Scheme interface {
	apply(ctx context.Context, t Target, a *Authenticator) error
}

// APIKey sends a static key as a header or query parameter.
type APIKey struct {
	// Key is the key value. An empty key logs a warning and is skipped.
	Key string
	// In selects header or query placement. Defaults to header.
	In Placement
	// Name is the header or parameter name. Defaults to DefaultAPIKeyName.
	Name string
}

func (s APIKey) apply(_ context.Context, t Target, a *Authenticator) error {
	name := s.Name
	if name == "" {
		name = DefaultAPIKeyName
	}
	if s.Key == "" {
		a.log.Warn("api key is empty, scheme skipped", logger.Fields("name", name))
		return nil
	}

	switch s.In {
	case PlacementQuery:
		if t.HasQuery(name) {
			a.log.Warn("query parameter already set, scheme skipped", logger.Fields("name", name))
			return nil
		}
		t.SetQuery(name, s.Key)
	default:
		if t.HasHeader(name) {
			a.log.Warn("header already set, scheme skipped", logger.Fields("name", name))
			return nil
		}
		t.SetHeader(name, s.Key)
	}
	return nil
}

// Bearer resolves a token for Audience through the token cache and sends
// it as an Authorization header.
type Bearer struct {
	// Audience is the protected resource identifier the token is scoped to.
	Audience string
}

func (s Bearer) apply(ctx context.Context, t Target, a *Authenticator) error {
	if a.tokens == nil {
		return &Error{Audience: s.Audience, Err: ErrNoTokenCache}
	}
	token, err := a.tokens.GetAccessToken(ctx, s.Audience)
	if err != nil {
		return err
	}
	if t.HasHeader("Authorization") {
		a.log.Warn("authorization header already set, bearer scheme skipped",
			logger.Fields(logger.FieldAudience, s.Audience))
		return nil
	}
	t.SetHeader("Authorization", "Bearer "+token)
	return nil
}
