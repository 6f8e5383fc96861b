// Package auth applies authentication schemes to outgoing API requests.
//
// A client holds an ordered list of Schemes. Schemes are additive: each
// may add headers or query parameters, and none may remove or overwrite
// what an earlier scheme wrote. The set of schemes is closed (APIKey and
// Bearer), so every consumer of the list can be checked exhaustively.
//
// Bearer schemes resolve tokens through a TokenCache, which caches one
// token per audience and re-acquires through a credential.Source when the
// cached token is within the expiry buffer.
package auth
