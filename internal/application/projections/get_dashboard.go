package projections

import (
	"context"
	"log/slog"

	"breathbloom/internal/adapters/bloomapi"
	"breathbloom/internal/domain/aqi"
	"breathbloom/internal/domain/badge"
	"breathbloom/internal/domain/profile"
	"breathbloom/internal/domain/task"
)

// DashboardBackend defines the backend calls needed by the dashboard projection.
type DashboardBackend interface {
	User(ctx context.Context, email string) (profile.Profile, error)
	AQI(ctx context.Context, city string) (int, error)
	AQIHistory(ctx context.Context, city string) ([]bloomapi.HistoryPoint, error)
	Leaderboard(ctx context.Context) ([]bloomapi.LeaderboardEntry, error)
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct {
	Email string
}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Backend DashboardBackend
}

// EffectView is one health-effect card with the icon animation picked for the
// current AQI value.
type EffectView struct {
	aqi.Effect
	Animation string // "", "shake", "pulse", or "fade"
}

// DashboardResult carries everything the dashboard page shows for one user.
type DashboardResult struct {
	Profile profile.Profile

	// Air quality. Zero values plus AQIError=true when the reading failed.
	AQIError bool
	AQIValue int
	Category string
	Label    string
	Progress float64 // meter fill, 0..100

	Effects []EffectView
	Tasks   []task.Task

	BadgeProgress badge.Progress

	// Optional extras; empty slices when their fetch failed.
	History     []bloomapi.HistoryPoint
	Leaderboard []bloomapi.LeaderboardEntry
}

// QueryGetDashboard assembles the dashboard for one user. The profile fetch
// is the only fatal call: a failed AQI reading degrades to an error banner,
// and history/leaderboard are best-effort extras.
func QueryGetDashboard(ctx context.Context, query GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	p, err := deps.Backend.User(ctx, query.Email)
	if err != nil {
		return DashboardResult{}, err
	}
	result := DashboardResult{
		Profile:       p,
		BadgeProgress: badge.ComputeProgress(p.BloomPoints),
	}

	value, err := deps.Backend.AQI(ctx, p.City)
	if err != nil {
		slog.Warn("dashboard_aqi_failed", "city", p.City, "error", err)
		result.AQIError = true
	} else {
		category := aqi.Classify(value)
		result.AQIValue = value
		result.Category = category
		result.Label = aqi.Label(value)
		result.Progress = aqi.ProgressPercent(value)
		for _, effect := range aqi.EffectsFor(category) {
			result.Effects = append(result.Effects, EffectView{
				Effect:    effect,
				Animation: effect.Animation(value),
			})
		}
		result.Tasks = task.ForGroupAndBand(p.AgeGroup(), aqi.Band(value))
	}

	if history, err := deps.Backend.AQIHistory(ctx, p.City); err == nil {
		result.History = history
	} else {
		slog.Warn("dashboard_history_failed", "city", p.City, "error", err)
	}
	if entries, err := deps.Backend.Leaderboard(ctx); err == nil {
		result.Leaderboard = entries
	} else {
		slog.Warn("dashboard_leaderboard_failed", "error", err)
	}

	return result, nil
}
