// Package common contains shared constants and small helpers used across
// the medrecords client packages.
package common

const (
	// AuthorizationHeaderName carries the bearer access credential on
	// outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme prefixes the access credential in the authorization header.
	BearerScheme = "Bearer"

	// RequestIDHeaderName correlates a client call with service-side logs.
	RequestIDHeaderName = "X-Request-ID"

	// TokensStorageKey is the fixed local storage key of the credential pair.
	TokensStorageKey = "medical_records_tokens"

	// LastUsernameStorageKey remembers the last successful login name so the
	// CLI can offer it as the default.
	LastUsernameStorageKey = "last_username"
)
