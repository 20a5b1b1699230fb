package session

import (
	"errors"
	"time"
)

// Theme preference values. Default is light; the preference lives on a
// long-lived device cookie and is mirrored onto the session row, so a
// toggled theme survives reloads and logout alike.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// ValidTheme reports whether theme is one of the known preference values.
func ValidTheme(theme string) bool {
	return theme == ThemeLight || theme == ThemeDark
}

// MaxAge is how long a session stays valid after creation.
const MaxAge = 24 * time.Hour

// ErrEmptyEmail indicates a session was created without an email.
var ErrEmptyEmail = errors.New("session email cannot be empty")

// Session binds a browser to a signed-in user. The token travels in a cookie;
// email identifies the user to the backend on every call. Destroyed on
// logout; the email is rewritten in place when a profile edit changes it.
type Session struct {
	Token     string
	Email     string
	Theme     string
	CreatedAt time.Time
}

// Validate checks the session's invariants.
// POST: returns nil if valid
func (s *Session) Validate() error {
	if s.Email == "" {
		return ErrEmptyEmail
	}
	return nil
}

// Expired reports whether the session has outlived MaxAge at the given time.
func (s *Session) Expired(now time.Time) bool {
	return now.Sub(s.CreatedAt) > MaxAge
}

// FlipTheme returns the opposite theme preference.
func FlipTheme(theme string) string {
	if theme == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}
