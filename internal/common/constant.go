// Package common contains shared constants and sentinel errors used across
// mailcal components.
package common

// AuthorizationHeaderName carries the identity-provider bearer token on
// outbound requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName carries a per-request correlation id.
const RequestIDHeaderName = "X-Request-ID"

// AnonymousUser is the settings owner used when no identity token is present.
const AnonymousUser = "anonymous"
