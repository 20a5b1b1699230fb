package orchestrators

import (
	"context"
	"log/slog"

	"breathbloom/internal/adapters/bloomapi"
)

// Registrar defines the backend interface needed for signup.
type Registrar interface {
	Signup(ctx context.Context, creds bloomapi.Credentials) error
}

// SignupInput carries the signup form fields.
type SignupInput struct {
	Username string
	Email    string
	Password string
	Age      string
}

// SignupDeps holds dependencies for Signup.
type SignupDeps struct {
	Backend Registrar
}

// ExecuteSignup validates the form and registers the user with the backend.
// PRE: none
// POST: returns nil only when the backend created the account
func ExecuteSignup(ctx context.Context, input SignupInput, deps SignupDeps) error {
	if input.Username == "" || input.Email == "" || input.Password == "" || input.Age == "" {
		return ErrMissingFields
	}

	creds := bloomapi.Credentials{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
		Age:      input.Age,
	}
	if err := deps.Backend.Signup(ctx, creds); err != nil {
		return err
	}

	slog.Info("auth_event", "event", "signup", "email", input.Email)
	return nil
}
