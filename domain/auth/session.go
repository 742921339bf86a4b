package auth

import (
	"errors"
	"time"
)

// ErrNotAuthenticated is returned when an operation requires a signed-in
// user and no usable session is held.
var ErrNotAuthenticated = errors.New("not authenticated")

// User is the authenticated-user identity snapshot. It is replaced
// wholesale on re-login, never mutated.
type User struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	AvatarURL     string `json:"avatarUrl,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

// Session holds the bearer credential and the user it belongs to. The
// token has no tracked expiry and is never refreshed; it lives until
// sign-out or remote revocation.
type Session struct {
	AccessToken string    `json:"accessToken"`
	User        User      `json:"user"`
	SavedAt     time.Time `json:"savedAt"`
}

// Valid reports whether the session carries a usable credential.
func (s *Session) Valid() bool {
	return s != nil && s.AccessToken != "" && s.User.Authenticated
}
