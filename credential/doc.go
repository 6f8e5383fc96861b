// Package credential abstracts how bearer tokens are obtained.
//
// A Source produces a Credential; a Credential exchanges a scope list for
// an AccessToken with an expiry. Token caching lives in the auth package;
// sources here only know how to acquire.
//
// Built-in sources:
//
//   - StaticSource: a fixed token, mostly for tests and local development
//   - EnvSource: token read from an environment variable
//   - ClientCredentialsSource: OAuth2 client-credentials flow
//   - Chain: tries sources in order until one yields a credential
package credential
