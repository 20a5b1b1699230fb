package orchestrators

import (
	"context"
	"errors"
	"log/slog"
)

// RewardRedeemer defines the backend interface needed for redemption.
type RewardRedeemer interface {
	RedeemReward(ctx context.Context, email, rewardTitle string) error
}

// RedeemRewardInput carries the redemption request.
type RedeemRewardInput struct {
	Email  string
	Reward string // reward title
}

// RedeemRewardDeps holds dependencies for RedeemReward.
type RedeemRewardDeps struct {
	Backend RewardRedeemer
}

// ExecuteRedeemReward spends points on a reward. Affordability and catalog
// membership are the backend's call; its rejection message is surfaced as-is.
// PRE: Email comes from a live session
// POST: on success the caller reloads the whole profile from the backend
func ExecuteRedeemReward(ctx context.Context, input RedeemRewardInput, deps RedeemRewardDeps) error {
	if input.Reward == "" {
		return errors.New("reward is required")
	}
	if err := deps.Backend.RedeemReward(ctx, input.Email, input.Reward); err != nil {
		return err
	}
	slog.Info("reward_event", "event", "reward_redeemed", "email", input.Email, "reward", input.Reward)
	return nil
}
