package browser_test

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"breathbloom/internal/adapters/bloomapi"
	web "breathbloom/internal/adapters/http"
	"breathbloom/internal/adapters/http/middleware"
	"breathbloom/internal/adapters/storage"
	sessionStore "breathbloom/internal/adapters/storage/session"
)

// stubUser is one account in the stub remote backend.
type stubUser struct {
	Username       string   `json:"username"`
	Email          string   `json:"email"`
	Password       string   `json:"-"`
	Age            int      `json:"age"`
	City           string   `json:"city"`
	BloomPoints    int      `json:"bloom_points"`
	TasksCompleted int      `json:"tasks_completed"`
	Badges         []string `json:"badges"`
	Rewards        []string `json:"rewards"`
	Community      string   `json:"community"`
}

// stubBackend fakes the remote API the app talks to.
type stubBackend struct {
	mu    sync.Mutex
	users map[string]*stubUser
	aqi   int
}

func newStubBackend() *stubBackend {
	return &stubBackend{users: make(map[string]*stubUser), aqi: 120}
}

var badgeThresholds = []struct {
	name   string
	points int
}{
	{"Green Sprout", 50},
	{"Eco Hero", 100},
	{"Nature Champion", 200},
	{"Air Guardian", 300},
	{"Planet Protector", 500},
}

func (s *stubBackend) awardBadges(u *stubUser) {
	for _, b := range badgeThresholds {
		if u.BloomPoints < b.points {
			continue
		}
		have := false
		for _, name := range u.Badges {
			if name == b.name {
				have = true
				break
			}
		}
		if !have {
			u.Badges = append(u.Badges, b.name)
		}
	}
}

func (s *stubBackend) handler() http.Handler {
	mux := http.NewServeMux()
	writeErr := func(w http.ResponseWriter, status int, msg string) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]string{"error": msg})
	}
	writeOK := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v)
	}

	mux.HandleFunc("/api/signup", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Username string `json:"username"`
			Email    string `json:"email"`
			Password string `json:"password"`
			Age      string `json:"age"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, exists := s.users[body.Email]; exists {
			writeErr(w, http.StatusConflict, "Email already registered")
			return
		}
		age := 0
		fmt.Sscanf(body.Age, "%d", &age)
		s.users[body.Email] = &stubUser{
			Username:  body.Username,
			Email:     body.Email,
			Password:  body.Password,
			Age:       age,
			Badges:    []string{},
			Rewards:   []string{},
			Community: "Team Green",
		}
		w.WriteHeader(http.StatusCreated)
		writeOK(w, map[string]string{"message": "User registered successfully"})
	})

	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		s.mu.Lock()
		defer s.mu.Unlock()
		u, ok := s.users[body.Email]
		if !ok || u.Password != body.Password {
			writeErr(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeOK(w, map[string]string{"message": "Login successful"})
	})

	mux.HandleFunc("/api/cities", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, []string{"Delhi", "Mumbai", "Bengaluru"})
	})

	mux.HandleFunc("/api/select-city", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email string `json:"email"`
			City  string `json:"city"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		s.mu.Lock()
		defer s.mu.Unlock()
		u, ok := s.users[body.Email]
		if !ok {
			writeErr(w, http.StatusNotFound, "User not found")
			return
		}
		u.City = body.City
		writeOK(w, map[string]string{"message": "City selected"})
	})

	mux.HandleFunc("/api/user", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		u, ok := s.users[r.URL.Query().Get("email")]
		if !ok {
			writeErr(w, http.StatusNotFound, "User not found")
			return
		}
		writeOK(w, u)
	})

	mux.HandleFunc("/api/aqi", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeOK(w, map[string]any{
			"status": "ok",
			"data":   map[string]any{"aqi": s.aqi},
		})
	})

	mux.HandleFunc("/api/aqi-history", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		writeOK(w, map[string]any{
			"status": "ok",
			"data": map[string]any{
				"labels":  []string{"Mon", "Tue", "Wed"},
				"history": []int{s.aqi - 10, s.aqi, s.aqi + 5},
			},
		})
	})

	mux.HandleFunc("/api/complete-task", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email  string `json:"email"`
			Task   string `json:"task"`
			Points int    `json:"points"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		s.mu.Lock()
		defer s.mu.Unlock()
		u, ok := s.users[body.Email]
		if !ok {
			writeErr(w, http.StatusNotFound, "User not found")
			return
		}
		u.BloomPoints += body.Points
		u.TasksCompleted++
		s.awardBadges(u)
		writeOK(w, map[string]any{"message": "Task completed", "user": u})
	})

	mux.HandleFunc("/api/redeem-reward", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email  string `json:"email"`
			Reward string `json:"reward"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		s.mu.Lock()
		defer s.mu.Unlock()
		u, ok := s.users[body.Email]
		if !ok {
			writeErr(w, http.StatusNotFound, "User not found")
			return
		}
		u.Rewards = append(u.Rewards, body.Reward)
		writeOK(w, map[string]string{"message": "Reward redeemed"})
	})

	mux.HandleFunc("/api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		writeOK(w, []map[string]any{
			{"community": "Team Green", "points": 800},
			{"community": "Clean Air Crew", "points": 650},
		})
	})

	mux.HandleFunc("/api/update-user", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Username string `json:"username"`
			NewEmail string `json:"new_email"`
			Age      string `json:"age"`
			City     string `json:"city"`
		}
		json.NewDecoder(r.Body).Decode(&body)
		s.mu.Lock()
		defer s.mu.Unlock()
		u, ok := s.users[body.Email]
		if !ok {
			writeErr(w, http.StatusNotFound, "User not found")
			return
		}
		u.Username = body.Username
		if body.NewEmail != "" && body.NewEmail != body.Email {
			delete(s.users, body.Email)
			u.Email = body.NewEmail
			s.users[body.NewEmail] = u
		}
		fmt.Sscanf(body.Age, "%d", &u.Age)
		if body.City != "" {
			u.City = body.City
		}
		writeOK(w, map[string]any{"message": "User updated successfully", "user": u})
	})

	return mux
}

// testApp holds the running test server, the stub backend, and Playwright handles.
type testApp struct {
	BaseURL string
	Stub    *stubBackend
	DB      *sql.DB
	Server  *http.Server
	PW      *playwright.Playwright
	Browser playwright.Browser
}

// newTestApp wires the app against a stub remote backend and a temp SQLite
// session DB, then starts an HTTP server and Playwright.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	stub := newStubBackend()
	stubSrv := httptest.NewServer(stub.handler())
	t.Cleanup(stubSrv.Close)

	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("failed to open test DB: %v", err)
	}
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("failed to init test DB: %v", err)
	}

	// Find a free port
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to find free port: %v", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port
	listener.Close()

	// Change to project root so relative template/static paths work
	projectRoot := findProjectRoot(t)
	origDir, _ := os.Getwd()
	if err := os.Chdir(projectRoot); err != nil {
		t.Fatalf("failed to chdir to project root: %v", err)
	}
	t.Cleanup(func() { os.Chdir(origDir) })

	// Add test port to CSRF trusted origins before creating mux
	middleware.ExtraTrustedOrigins = append(middleware.ExtraTrustedOrigins,
		fmt.Sprintf("127.0.0.1:%d", port),
		fmt.Sprintf("localhost:%d", port),
	)

	client := bloomapi.New(stubSrv.URL)
	store := sessionStore.NewSQLiteStore(db)
	web.RateLimitPerSecond = 1000
	mux := web.NewMux("static", client, store, zap.NewNop())
	srv := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("test server error: %v", err)
		}
	}()

	// Wait for server to be ready
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(baseURL + "/healthz")
		if err == nil {
			resp.Body.Close()
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	pw, err := playwright.Run()
	if err != nil {
		t.Fatalf("failed to start Playwright: %v", err)
	}
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		t.Fatalf("failed to launch browser: %v", err)
	}

	app := &testApp{
		BaseURL: baseURL,
		Stub:    stub,
		DB:      db,
		Server:  srv,
		PW:      pw,
		Browser: browser,
	}

	t.Cleanup(func() {
		browser.Close()
		pw.Stop()
		srv.Close()
		db.Close()
	})

	return app
}

// newPage creates a new browser page (tab).
func (a *testApp) newPage(t *testing.T) playwright.Page {
	t.Helper()
	page, err := a.Browser.NewPage()
	if err != nil {
		t.Fatalf("failed to create page: %v", err)
	}
	t.Cleanup(func() { page.Close() })
	return page
}

// seedUser registers an account directly in the stub backend.
func (a *testApp) seedUser(email, password string, age int, city string) {
	a.Stub.mu.Lock()
	defer a.Stub.mu.Unlock()
	a.Stub.users[email] = &stubUser{
		Username:  strings.Split(email, "@")[0],
		Email:     email,
		Password:  password,
		Age:       age,
		City:      city,
		Badges:    []string{},
		Rewards:   []string{},
		Community: "Team Green",
	}
}

// login fills the login form and waits for the city chooser.
func (a *testApp) login(t *testing.T, page playwright.Page, email, password string, age int) {
	t.Helper()
	if _, err := page.Goto(a.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=username]").Fill(strings.Split(email, "@")[0]); err != nil {
		t.Fatalf("failed to fill username: %v", err)
	}
	if err := page.Locator("input[name=email]").Fill(email); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=password]").Fill(password); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("input[name=age]").Fill(fmt.Sprintf("%d", age)); err != nil {
		t.Fatalf("failed to fill age: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(a.BaseURL+"/select-city", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Fatalf("login did not redirect to city selection: %v", err)
	}
}

// findProjectRoot walks up from the working directory to find the project root (contains go.mod).
func findProjectRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatalf("could not find project root (go.mod) from working directory")
		}
		dir = parent
	}
}
