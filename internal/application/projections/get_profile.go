package projections

import (
	"context"

	"breathbloom/internal/application/orchestrators"
	"breathbloom/internal/domain/badge"
	"breathbloom/internal/domain/profile"
	"breathbloom/internal/domain/reward"
)

// ProfileBackend defines the backend call needed by the profile projection.
type ProfileBackend interface {
	User(ctx context.Context, email string) (profile.Profile, error)
}

// GetProfileQuery carries input for the profile projection.
type GetProfileQuery struct {
	Email string
}

// GetProfileDeps holds dependencies for the profile projection.
type GetProfileDeps struct {
	Backend ProfileBackend
}

// BadgeView is one catalog badge with whether this user has earned it.
type BadgeView struct {
	badge.Badge
	Earned bool
}

// ProfileResult carries everything the profile page shows.
type ProfileResult struct {
	Profile       profile.Profile
	BadgeProgress badge.Progress
	Badges        []BadgeView   // full catalog, in threshold order
	Rewards       []reward.Reward // redeemable catalog for the user's age group
	ShareText     string
}

// QueryGetProfile assembles the profile page for one user.
func QueryGetProfile(ctx context.Context, query GetProfileQuery, deps GetProfileDeps) (ProfileResult, error) {
	p, err := deps.Backend.User(ctx, query.Email)
	if err != nil {
		return ProfileResult{}, err
	}

	earned := make(map[string]bool, len(p.Badges))
	for _, name := range p.Badges {
		earned[name] = true
	}
	views := make([]BadgeView, 0, len(badge.Catalog))
	for _, b := range badge.Catalog {
		views = append(views, BadgeView{Badge: b, Earned: earned[b.Name]})
	}

	return ProfileResult{
		Profile:       p,
		BadgeProgress: badge.ComputeProgress(p.BloomPoints),
		Badges:        views,
		Rewards:       reward.ForGroup(p.AgeGroup()),
		ShareText:     orchestrators.BuildShareText(p),
	}, nil
}
