package bloomapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestClient_User tests decoding a user payload.
func TestClient_User(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/user" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("email"); got != "lin@example.com" {
			t.Errorf("email = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"username": "lin", "email": "lin@example.com", "age": 25,
			"city": "Delhi", "bloom_points": 120, "tasks_completed": 7,
			"badges": []string{"Green Sprout", "Eco Hero"}, "rewards": []string{},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	p, err := c.User(context.Background(), "lin@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BloomPoints != 120 || p.City != "Delhi" || len(p.Badges) != 2 {
		t.Errorf("unexpected profile: %+v", p)
	}
}

// TestClient_Rejection tests that a non-2xx with an error body surfaces as a
// backend rejection carrying the server's message.
func TestClient_Rejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Login(context.Background(), Credentials{Username: "lin", Email: "x@y.z", Password: "pw", Age: "25"})
	rejection, ok := AsRejection(err)
	if !ok {
		t.Fatalf("expected rejection, got %v", err)
	}
	if rejection.Message != "Invalid credentials" || rejection.StatusCode != http.StatusUnauthorized {
		t.Errorf("unexpected rejection: %+v", rejection)
	}
}

// TestClient_TransportFailure tests that a dead backend is NOT a rejection.
func TestClient_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := New(srv.URL)
	_, err := c.Cities(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if _, ok := AsRejection(err); ok {
		t.Error("transport failure must not read as a server rejection")
	}
}

// TestClient_AQI tests the enveloped AQI response.
func TestClient_AQI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"data":   map[string]any{"aqi": 180},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	value, err := c.AQI(context.Background(), "Delhi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != 180 {
		t.Errorf("aqi = %d, want 180", value)
	}
}

// TestClient_AQI_BadStatus tests a non-ok envelope status.
func TestClient_AQI_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"status": "error"})
	}))
	defer srv.Close()

	if _, err := New(srv.URL).AQI(context.Background(), "Delhi"); err == nil {
		t.Error("expected error for non-ok status")
	}
}

// TestClient_AQIHistory tests label/value pairing.
func TestClient_AQIHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"data": map[string]any{
				"labels":  []string{"Day 5", "Day 4", "Day 3", "Day 2", "Day 1"},
				"history": []int{180, 175, 190, 200, 170},
			},
		})
	}))
	defer srv.Close()

	points, err := New(srv.URL).AQIHistory(context.Background(), "Delhi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(points) != 5 {
		t.Fatalf("got %d points, want 5", len(points))
	}
	if points[0].Label != "Day 5" || points[0].Value != 180 {
		t.Errorf("unexpected first point: %+v", points[0])
	}
}

// TestClient_CompleteTask tests the updated-profile envelope.
func TestClient_CompleteTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		json.NewDecoder(r.Body).Decode(&body)
		if body["task"] != "Plant native trees in parks" {
			t.Errorf("task = %v", body["task"])
		}
		if body["points"] != float64(10) {
			t.Errorf("points = %v", body["points"])
		}
		json.NewEncoder(w).Encode(map[string]any{
			"message": "Task completed",
			"user": map[string]any{
				"email": "lin@example.com", "bloom_points": 60,
				"badges": []string{"Green Sprout"},
			},
		})
	}))
	defer srv.Close()

	p, err := New(srv.URL).CompleteTask(context.Background(), "lin@example.com", "Plant native trees in parks", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.BloomPoints != 60 || len(p.Badges) != 1 {
		t.Errorf("unexpected profile: %+v", p)
	}
}
