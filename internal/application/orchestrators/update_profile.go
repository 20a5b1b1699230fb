package orchestrators

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"breathbloom/internal/adapters/bloomapi"
	"breathbloom/internal/domain/profile"
)

// ErrMissingProfileFields is returned when a required settings field is blank.
var ErrMissingProfileFields = errors.New("please fill in all required fields")

// ProfileUpdater defines the backend interface needed for profile updates.
type ProfileUpdater interface {
	UpdateUser(ctx context.Context, update bloomapi.UserUpdate) (profile.Profile, error)
}

// UpdateProfileInput carries the settings form. Email is the current session
// email; NewEmail is what the account email should become (they may match).
type UpdateProfileInput struct {
	Email    string
	Username string
	NewEmail string
	Age      string
	City     string

	// Image is an optional raw upload. When set, it is sent to the backend
	// as a data URI so it round-trips through JSON unchanged.
	Image []byte
}

// UpdateProfileResult reports the saved profile and whether the account
// email moved, so the caller can rewrite its session record.
type UpdateProfileResult struct {
	Profile      profile.Profile
	EmailChanged bool
	NewEmail     string
}

// UpdateProfileDeps holds dependencies for UpdateProfile.
type UpdateProfileDeps struct {
	Backend ProfileUpdater
}

// ExecuteUpdateProfile saves account settings to the backend.
// PRE: input.Email identifies an existing account
// POST: on success result.Profile is the backend's updated record
func ExecuteUpdateProfile(ctx context.Context, input UpdateProfileInput, deps UpdateProfileDeps) (UpdateProfileResult, error) {
	if input.Email == "" || input.Username == "" || input.NewEmail == "" || input.Age == "" {
		return UpdateProfileResult{}, ErrMissingProfileFields
	}

	update := bloomapi.UserUpdate{
		Email:    input.Email,
		Username: input.Username,
		NewEmail: input.NewEmail,
		Age:      input.Age,
		City:     input.City,
	}
	if len(input.Image) > 0 {
		update.ProfileImage = encodeImageDataURI(input.Image)
	}

	updated, err := deps.Backend.UpdateUser(ctx, update)
	if err != nil {
		return UpdateProfileResult{}, err
	}

	result := UpdateProfileResult{
		Profile:      updated,
		EmailChanged: input.NewEmail != input.Email,
		NewEmail:     input.NewEmail,
	}
	slog.Info("profile_event", "event", "profile_updated", "email", input.NewEmail, "email_changed", result.EmailChanged)
	return result, nil
}

func encodeImageDataURI(raw []byte) string {
	contentType := http.DetectContentType(raw)
	return fmt.Sprintf("data:%s;base64,%s", contentType, base64.StdEncoding.EncodeToString(raw))
}
