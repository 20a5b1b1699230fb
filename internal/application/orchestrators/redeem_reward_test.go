package orchestrators

import (
	"context"
	"net/http"
	"testing"

	"breathbloom/internal/adapters/bloomapi"
)

// --- Mock reward backend ---

type mockRewardBackend struct {
	redeemed  []string
	redeemErr error
}

// RedeemReward records the redemption.
// PRE: none
// POST: reward title appended to redeemed
func (m *mockRewardBackend) RedeemReward(_ context.Context, _ string, rewardTitle string) error {
	if m.redeemErr != nil {
		return m.redeemErr
	}
	m.redeemed = append(m.redeemed, rewardTitle)
	return nil
}

// TestRedeemReward_Success tests that a redemption reaches the backend.
func TestRedeemReward_Success(t *testing.T) {
	backend := &mockRewardBackend{}

	input := RedeemRewardInput{Email: "flora@example.com", Reward: "Movie Ticket"}
	if err := ExecuteRedeemReward(context.Background(), input, RedeemRewardDeps{Backend: backend}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(backend.redeemed) != 1 || backend.redeemed[0] != "Movie Ticket" {
		t.Errorf("redeemed = %v, want [Movie Ticket]", backend.redeemed)
	}
}

// TestRedeemReward_InsufficientPoints tests that the backend's rejection
// message surfaces unchanged.
func TestRedeemReward_InsufficientPoints(t *testing.T) {
	backend := &mockRewardBackend{redeemErr: &bloomapi.Error{
		StatusCode: http.StatusBadRequest,
		Message:    "Not enough points",
	}}

	input := RedeemRewardInput{Email: "flora@example.com", Reward: "Movie Ticket"}
	err := ExecuteRedeemReward(context.Background(), input, RedeemRewardDeps{Backend: backend})
	rejection, ok := bloomapi.AsRejection(err)
	if !ok {
		t.Fatalf("expected a backend rejection, got: %v", err)
	}
	if rejection.Message != "Not enough points" {
		t.Errorf("message = %q, want %q", rejection.Message, "Not enough points")
	}
}

// TestRedeemReward_EmptyReward tests that a blank title is rejected locally.
func TestRedeemReward_EmptyReward(t *testing.T) {
	backend := &mockRewardBackend{}

	input := RedeemRewardInput{Email: "flora@example.com"}
	if err := ExecuteRedeemReward(context.Background(), input, RedeemRewardDeps{Backend: backend}); err == nil {
		t.Error("expected error for empty reward")
	}
	if len(backend.redeemed) != 0 {
		t.Error("backend was called with no reward")
	}
}
