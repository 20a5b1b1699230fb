package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"

	"breathbloom/internal/adapters/email"
	"breathbloom/internal/domain/profile"
)

// ErrMissingRecipient is returned when the share form has no address.
var ErrMissingRecipient = errors.New("please enter a recipient email")

// ShareSubject is the subject line for shared achievement emails.
const ShareSubject = "My BreathBloom Achievements"

// BuildShareText renders the achievement blurb for a profile.
func BuildShareText(p profile.Profile) string {
	latest := p.LatestBadge()
	if latest == "" {
		latest = "None yet"
	}
	return fmt.Sprintf("I've earned %d badges on BreathBloom! 🌿 My latest badge: %s. Join me in improving air quality!", len(p.Badges), latest)
}

// ShareInput carries a share-by-email request.
type ShareInput struct {
	Profile   profile.Profile
	Recipient string
}

// ShareDeps holds dependencies for ShareByEmail.
type ShareDeps struct {
	Sender email.Sender
}

// ExecuteShareByEmail mails the achievement blurb to a friend.
// POST: on success exactly one email was handed to the sender
func ExecuteShareByEmail(ctx context.Context, input ShareInput, deps ShareDeps) error {
	if input.Recipient == "" {
		return ErrMissingRecipient
	}
	text := BuildShareText(input.Profile)
	_, err := deps.Sender.Send(ctx, email.SendRequest{
		To:      []string{input.Recipient},
		Subject: ShareSubject,
		HTML:    fmt.Sprintf("<p>%s</p>", html.EscapeString(text)),
	})
	if err != nil {
		return err
	}
	slog.Info("share_event", "event", "achievements_shared", "recipient", input.Recipient)
	return nil
}
