// Package bloomapi is the adapter for the remote BreathBloom backend, the
// external service that owns all durable state. Every call is a single
// JSON round-trip; nothing is retried or cached here.
package bloomapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"breathbloom/internal/domain/profile"
)

// DefaultBaseURL points at the local development backend.
const DefaultBaseURL = "http://127.0.0.1:5000"

// Error is a server-side rejection: the backend answered with a non-success
// status and (usually) an {"error": message} body. Transport failures are
// never wrapped in Error, so handlers can tell the two apart.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

// AsRejection unwraps a backend rejection from err, if it is one.
func AsRejection(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Client talks to the backend. Safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL ("" uses DefaultBaseURL).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Credentials carries the login/signup form fields. Age stays a string on
// the wire, exactly as the browser form submitted it.
type Credentials struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      string `json:"age"`
}

// UserUpdate carries a profile edit. ProfileImage is a data URI or "".
type UserUpdate struct {
	Email        string `json:"email"`
	Username     string `json:"username"`
	NewEmail     string `json:"new_email"`
	Age          string `json:"age"`
	City         string `json:"city"`
	ProfileImage string `json:"profile_image"`
}

// LeaderboardEntry is one community row, ordered by points descending.
type LeaderboardEntry struct {
	Community string `json:"community"`
	Points    int    `json:"points"`
}

// HistoryPoint is one (label, value) pair of the per-city AQI history.
type HistoryPoint struct {
	Label string
	Value int
}

// Login authenticates existing credentials.
func (c *Client) Login(ctx context.Context, creds Credentials) error {
	return c.post(ctx, "/api/login", creds, nil)
}

// Signup registers a new user.
func (c *Client) Signup(ctx context.Context, creds Credentials) error {
	return c.post(ctx, "/api/signup", creds, nil)
}

// Cities returns the selectable city names.
func (c *Client) Cities(ctx context.Context) ([]string, error) {
	var cities []string
	if err := c.get(ctx, "/api/cities", nil, &cities); err != nil {
		return nil, err
	}
	return cities, nil
}

// SelectCity records the user's city choice.
func (c *Client) SelectCity(ctx context.Context, email, city string) error {
	body := map[string]string{"email": email, "city": city}
	return c.post(ctx, "/api/select-city", body, nil)
}

// User fetches the current profile for an email.
func (c *Client) User(ctx context.Context, email string) (profile.Profile, error) {
	var p profile.Profile
	err := c.get(ctx, "/api/user", url.Values{"email": {email}}, &p)
	return p, err
}

// UpdateUser submits a profile edit and returns the updated profile.
func (c *Client) UpdateUser(ctx context.Context, update UserUpdate) (profile.Profile, error) {
	var resp struct {
		User profile.Profile `json:"user"`
	}
	if err := c.post(ctx, "/api/update-user", update, &resp); err != nil {
		return profile.Profile{}, err
	}
	return resp.User, nil
}

// aqiEnvelope is the backend's AQI response wrapper.
type aqiEnvelope struct {
	Status string `json:"status"`
	Data   struct {
		AQI     int      `json:"aqi"`
		Labels  []string `json:"labels"`
		History []int    `json:"history"`
	} `json:"data"`
}

// AQI fetches the current AQI value for a city.
func (c *Client) AQI(ctx context.Context, city string) (int, error) {
	var env aqiEnvelope
	if err := c.get(ctx, "/api/aqi", url.Values{"city": {city}}, &env); err != nil {
		return 0, err
	}
	if env.Status != "ok" {
		return 0, &Error{StatusCode: http.StatusOK, Message: "AQI data unavailable"}
	}
	return env.Data.AQI, nil
}

// AQIHistory fetches the per-city AQI history as ordered (label, value) pairs.
func (c *Client) AQIHistory(ctx context.Context, city string) ([]HistoryPoint, error) {
	var env aqiEnvelope
	if err := c.get(ctx, "/api/aqi-history", url.Values{"city": {city}}, &env); err != nil {
		return nil, err
	}
	if env.Status != "ok" {
		return nil, &Error{StatusCode: http.StatusOK, Message: "AQI history unavailable"}
	}
	points := make([]HistoryPoint, 0, len(env.Data.History))
	for i, v := range env.Data.History {
		label := ""
		if i < len(env.Data.Labels) {
			label = env.Data.Labels[i]
		}
		points = append(points, HistoryPoint{Label: label, Value: v})
	}
	return points, nil
}

// CompleteTask records a task completion and returns the updated profile.
func (c *Client) CompleteTask(ctx context.Context, email, taskDescription string, points int) (profile.Profile, error) {
	body := map[string]any{"email": email, "task": taskDescription, "points": points}
	var resp struct {
		User profile.Profile `json:"user"`
	}
	if err := c.post(ctx, "/api/complete-task", body, &resp); err != nil {
		return profile.Profile{}, err
	}
	return resp.User, nil
}

// RedeemReward spends points on a reward by title.
func (c *Client) RedeemReward(ctx context.Context, email, rewardTitle string) error {
	body := map[string]string{"email": email, "reward": rewardTitle}
	return c.post(ctx, "/api/redeem-reward", body, nil)
}

// Leaderboard fetches the community standings.
func (c *Client) Leaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var entries []LeaderboardEntry
	if err := c.get(ctx, "/api/leaderboard", nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var rejection struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&rejection)
		return &Error{StatusCode: resp.StatusCode, Message: rejection.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
