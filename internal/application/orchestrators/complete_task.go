package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"breathbloom/internal/domain/badge"
	"breathbloom/internal/domain/profile"
)

// ErrVerificationRequired indicates a completion attempt without the
// verification photo/video. Only the file's presence is checked; its content
// is never inspected and never forwarded to the backend.
var ErrVerificationRequired = errors.New("please upload a photo or video to verify the task")

// TaskBackend defines the backend interface needed for task completion.
type TaskBackend interface {
	User(ctx context.Context, email string) (profile.Profile, error)
	CompleteTask(ctx context.Context, email, taskDescription string, points int) (profile.Profile, error)
}

// CompleteTaskInput carries the verification form fields.
type CompleteTaskInput struct {
	Email    string
	Task     string
	Points   int
	HasMedia bool // a verification file was attached
}

// CompleteTaskDeps holds dependencies for CompleteTask.
type CompleteTaskDeps struct {
	Backend TaskBackend
}

// CompleteTaskResult carries the backend's updated profile plus the badges
// this completion unlocked, one toast each.
type CompleteTaskResult struct {
	Profile   profile.Profile
	NewBadges []string
}

// ExecuteCompleteTask submits a task completion and diffs the badge set.
// The badge set before the action comes from a fresh fetch, so toasts fire
// for exactly the badges this completion unlocked.
// PRE: Email comes from a live session; Task/Points identify a suggested task
// POST: Profile is the backend's post-completion state, never patched locally
func ExecuteCompleteTask(ctx context.Context, input CompleteTaskInput, deps CompleteTaskDeps) (CompleteTaskResult, error) {
	if !input.HasMedia {
		return CompleteTaskResult{}, ErrVerificationRequired
	}
	if input.Task == "" || input.Points <= 0 {
		return CompleteTaskResult{}, errors.New("task and points are required")
	}

	before, err := deps.Backend.User(ctx, input.Email)
	if err != nil {
		return CompleteTaskResult{}, err
	}

	updated, err := deps.Backend.CompleteTask(ctx, input.Email, input.Task, input.Points)
	if err != nil {
		return CompleteTaskResult{}, err
	}

	fresh := badge.NewlyEarned(before.Badges, updated.Badges)
	slog.Info("task_event", "event", "task_completed", "email", input.Email, "task", input.Task,
		"points", input.Points, "bloom_points", updated.BloomPoints, "new_badges", len(fresh))

	return CompleteTaskResult{Profile: updated, NewBadges: fresh}, nil
}
