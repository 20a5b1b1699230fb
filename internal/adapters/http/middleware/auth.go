package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	sessionStore "breathbloom/internal/adapters/storage/session"
	domainSession "breathbloom/internal/domain/session"
)

// contextKey is an unexported type for context keys in this package.
type contextKey string

const sessionContextKey contextKey = "session"

// SecureCookies controls the Secure flag on session cookies. Off by default
// so local HTTP development works; production turns it on.
var SecureCookies = false

// SessionStore wraps the durable session storage with token generation and
// expiry checks. The row is the server-side stand-in for what the browser
// used to keep in localStorage.
type SessionStore struct {
	store sessionStore.Store
}

// NewSessionStore creates a SessionStore over the given storage.
func NewSessionStore(store sessionStore.Store) *SessionStore {
	return &SessionStore{store: store}
}

// Create stores a new session and returns the token. The theme seeds the
// row from the device preference; an unknown value falls back to light.
// PRE: email is non-empty
// POST: session is persisted, token is returned
func (ss *SessionStore) Create(ctx context.Context, email, theme string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if !domainSession.ValidTheme(theme) {
		theme = domainSession.ThemeLight
	}
	sess := domainSession.Session{
		Token:     token,
		Email:     email,
		Theme:     theme,
		CreatedAt: time.Now(),
	}
	if err := sess.Validate(); err != nil {
		return "", err
	}
	if err := ss.store.Save(ctx, sess); err != nil {
		return "", err
	}
	return token, nil
}

// Get retrieves a session by token. Expired sessions are deleted on sight.
// PRE: token is non-empty
// POST: returns the session if valid and not expired
func (ss *SessionStore) Get(ctx context.Context, token string) (domainSession.Session, bool) {
	sess, err := ss.store.GetByToken(ctx, token)
	if err != nil {
		return domainSession.Session{}, false
	}
	if sess.Expired(time.Now()) {
		_ = ss.store.Delete(ctx, token)
		return domainSession.Session{}, false
	}
	return sess, true
}

// Delete removes a session by token.
// PRE: token is non-empty
// POST: session with the given token is removed
func (ss *SessionStore) Delete(ctx context.Context, token string) {
	_ = ss.store.Delete(ctx, token)
}

// UpdateEmail rewrites the session's email after a profile edit moved the
// account address.
func (ss *SessionStore) UpdateEmail(ctx context.Context, token, email string) error {
	return ss.store.UpdateEmail(ctx, token, email)
}

// UpdateTheme persists a theme preference on the session row.
func (ss *SessionStore) UpdateTheme(ctx context.Context, token, theme string) error {
	return ss.store.UpdateTheme(ctx, token, theme)
}

const sessionCookieName = "bloom_session"

// The theme preference outlives the auth session: logout clears the email
// only, so it rides on its own long-lived cookie.
const themeCookieName = "bloom_theme"

const themeCookieMaxAge = 365 * 24 * time.Hour

// SetThemeCookie persists the device theme preference.
func SetThemeCookie(w http.ResponseWriter, theme string) {
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookieName,
		Value:    theme,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(themeCookieMaxAge / time.Second),
	})
}

// ThemeFromRequest returns the device theme preference, defaulting to light
// when the cookie is absent or carries an unknown value.
func ThemeFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(themeCookieName)
	if err != nil || !domainSession.ValidTheme(cookie.Value) {
		return domainSession.ThemeLight
	}
	return cookie.Value
}

// Auth returns middleware that resolves the session cookie and sets the
// session in context. It does NOT block unauthenticated requests — use
// RequireAuth for that.
func Auth(sessions *SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err == nil && cookie.Value != "" {
				if sess, ok := sessions.Get(r.Context(), cookie.Value); ok {
					ctx := context.WithValue(r.Context(), sessionContextKey, sess)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth returns middleware that sends unauthenticated requests to the
// login page before any handler work happens.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetSessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetSessionFromContext extracts the session from the request context.
func GetSessionFromContext(ctx context.Context) (domainSession.Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(domainSession.Session)
	return sess, ok
}

// SetSessionCookie sets the session cookie on the response.
func SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int(domainSession.MaxAge / time.Second),
	})
}

// ClearSessionCookie removes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   SecureCookies,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})
}

// SessionTokenFromRequest returns the raw session token carried by the
// request cookie, if present.
func SessionTokenFromRequest(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

// ContextWithSession returns a context with the given session set.
// Intended for use in tests.
func ContextWithSession(ctx context.Context, sess domainSession.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

func generateToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}
