package session

import (
	"context"
	"time"

	"breathbloom/internal/adapters/storage"
	domain "breathbloom/internal/domain/session"
)

// SQLiteStore implements Store using SQLite. Sessions are the durable
// counterpart of the browser's localStorage entry: they survive page reloads
// and server restarts, and carry the theme preference alongside the email.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new SQLiteStore and ensures the table exists.
// PRE: db is a valid, open database connection
// POST: session table exists; store is ready for use
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	db.ExecContext(context.Background(), `CREATE TABLE IF NOT EXISTS session (
		token TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		theme TEXT NOT NULL DEFAULT 'light',
		created_at TEXT NOT NULL
	)`)
	return &SQLiteStore{db: db}
}

// GetByToken retrieves a session by its token.
// PRE: token is non-empty
// POST: returns the session or an error if not found
func (s *SQLiteStore) GetByToken(ctx context.Context, token string) (domain.Session, error) {
	var sess domain.Session
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT token, email, theme, created_at FROM session WHERE token = ?`, token,
	).Scan(&sess.Token, &sess.Email, &sess.Theme, &createdAt)
	if err != nil {
		return domain.Session{}, err
	}
	sess.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return sess, nil
}

// Save inserts or updates a session.
// PRE: value has a non-empty token and email
// POST: session is persisted
func (s *SQLiteStore) Save(ctx context.Context, value domain.Session) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO session (token, email, theme, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(token) DO UPDATE SET email=excluded.email, theme=excluded.theme`,
		value.Token, value.Email, value.Theme, value.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Delete removes a session by token.
// PRE: token is non-empty
// POST: session is removed from storage
func (s *SQLiteStore) Delete(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE token = ?`, token)
	return err
}

// UpdateEmail rewrites the session's email in place. Used when a profile
// edit changes the signed-in address.
// PRE: token exists
// POST: session follows the new email
func (s *SQLiteStore) UpdateEmail(ctx context.Context, token, email string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE session SET email = ? WHERE token = ?`, email, token)
	return err
}

// UpdateTheme persists a flipped theme preference.
// PRE: theme is "light" or "dark"
// POST: preference survives subsequent page loads
func (s *SQLiteStore) UpdateTheme(ctx context.Context, token, theme string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE session SET theme = ? WHERE token = ?`, theme, token)
	return err
}

// DeleteExpired removes sessions older than the session lifetime.
// POST: only live sessions remain
func (s *SQLiteStore) DeleteExpired(ctx context.Context) error {
	cutoff := time.Now().Add(-domain.MaxAge).UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE created_at < ?`, cutoff)
	return err
}
