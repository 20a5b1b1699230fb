package session

import (
	"context"

	domain "breathbloom/internal/domain/session"
)

// Store defines the interface for session persistence.
type Store interface {
	GetByToken(ctx context.Context, token string) (domain.Session, error)
	Save(ctx context.Context, s domain.Session) error
	Delete(ctx context.Context, token string) error
	UpdateEmail(ctx context.Context, token, email string) error
	UpdateTheme(ctx context.Context, token, theme string) error
	DeleteExpired(ctx context.Context) error
}
