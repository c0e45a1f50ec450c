// Package common contains shared constants and sentinel errors used across
// client and server components.
package common

const (
	// AuthorizationHeaderName carries the bearer token on HTTP requests and
	// gRPC metadata (lowercased by gRPC on the wire).
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the access token in AuthorizationHeaderName.
	BearerPrefix = "Bearer "

	ContentTypeHeaderName = "Content-Type"
	ContentTypeJSON       = "application/json"
)

// Persisted storage keys.
const (
	TokenKey       = "auth_token"
	UserKey        = "auth_user"
	QueueKey       = "offline_request_queue"
	DeadLetterKey  = "offline_request_dead_letter"
	KDFSaltKey     = "__kdf_salt"
	DefaultBaseURL = "http://localhost:8080"
)
