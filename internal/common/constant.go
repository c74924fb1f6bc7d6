// Package common contains shared constants and sentinel errors used across
// coursehub components.
package common

// TokenHeaderName is the HTTP header that carries the bearer token.
const TokenHeaderName = "token"

// AuthorizationHeaderName is accepted as an alternative carrier in the form
// "Bearer <token>".
const AuthorizationHeaderName = "Authorization"
