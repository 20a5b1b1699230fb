package orchestrators

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNoCitySelected indicates the city form was submitted without a choice.
var ErrNoCitySelected = errors.New("please select a city")

// CitySelector defines the backend interface needed for city selection.
type CitySelector interface {
	SelectCity(ctx context.Context, email, city string) error
}

// SelectCityInput carries the city-selection form fields.
type SelectCityInput struct {
	Email string
	City  string
}

// SelectCityDeps holds dependencies for SelectCity.
type SelectCityDeps struct {
	Backend CitySelector
}

// ExecuteSelectCity records the user's city choice with the backend.
// PRE: Email comes from a live session
// POST: the backend holds the new city
func ExecuteSelectCity(ctx context.Context, input SelectCityInput, deps SelectCityDeps) error {
	if input.City == "" {
		return ErrNoCitySelected
	}
	if err := deps.Backend.SelectCity(ctx, input.Email, input.City); err != nil {
		return err
	}
	slog.Info("city_event", "event", "city_selected", "email", input.Email, "city", input.City)
	return nil
}
