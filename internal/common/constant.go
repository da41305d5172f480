// Package common contains shared constants and helpers used across the
// job board client components.
package common

// Header names attached to every outbound API request.
const (
	AuthorizationHeader = "Authorization"
	RequestIDHeader     = "X-Request-ID"
)

// Keys under which the session is persisted in the metadata storage.
const (
	TokenKey       = "token"
	UserKey        = "user"
	AuthStorageKey = "auth-storage"
)
