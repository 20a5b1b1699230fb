package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"breathbloom/internal/adapters/bloomapi"
)

// ErrMissingFields indicates a login/signup form with an empty required field.
// Checked locally before any backend call.
var ErrMissingFields = errors.New("please fill in all fields")

// Authenticator defines the backend interface needed for login.
type Authenticator interface {
	Login(ctx context.Context, creds bloomapi.Credentials) error
}

// LoginInput carries the login form fields.
type LoginInput struct {
	Username string
	Email    string
	Password string
	Age      string
}

// LoginDeps holds dependencies for Login.
type LoginDeps struct {
	Backend Authenticator
}

// ExecuteLogin validates the form and authenticates against the backend.
// A transport failure surfaces as an error like any other: no session is ever
// created without a successful backend response.
// PRE: none
// POST: returns nil only when the backend accepted the credentials
func ExecuteLogin(ctx context.Context, input LoginInput, deps LoginDeps) error {
	if input.Username == "" || input.Email == "" || input.Password == "" || input.Age == "" {
		return ErrMissingFields
	}

	creds := bloomapi.Credentials{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Age:      input.Age,
	}
	if err := deps.Backend.Login(ctx, creds); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "login", "email", input.Email)
	return nil
}
