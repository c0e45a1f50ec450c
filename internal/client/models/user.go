// Package models defines the client-side data shapes shared by the session,
// HTTP client, offline queue and network monitor.
package models

// User is the user record returned by the auth endpoints and persisted
// under the auth_user key.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Session is the in-memory record of the authenticated user and the bearer
// token. A nil *Session means unauthenticated.
type Session struct {
	UserID string
	Email  string
	Name   string
	Token  string
}

// NewSession builds a Session from a user record and its token.
func NewSession(token string, u User) *Session {
	return &Session{UserID: u.ID, Email: u.Email, Name: u.Name, Token: token}
}

// User returns the user record the session was built from.
func (s *Session) User() User {
	return User{ID: s.UserID, Email: s.Email, Name: s.Name}
}

// AuthResult is the login/register response body.
type AuthResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
