package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	gorillaSessions "github.com/gorilla/sessions"
	"go.uber.org/zap"

	"breathbloom/internal/adapters/bloomapi"
	"breathbloom/internal/adapters/email"
	"breathbloom/internal/adapters/http/middleware"
	sessionStore "breathbloom/internal/adapters/storage/session"
	"breathbloom/internal/domain/profile"
)

// Backend is the remote API surface the handlers depend on.
type Backend interface {
	Login(ctx context.Context, creds bloomapi.Credentials) error
	Signup(ctx context.Context, creds bloomapi.Credentials) error
	Cities(ctx context.Context) ([]string, error)
	SelectCity(ctx context.Context, email, city string) error
	User(ctx context.Context, email string) (profile.Profile, error)
	UpdateUser(ctx context.Context, update bloomapi.UserUpdate) (profile.Profile, error)
	AQI(ctx context.Context, city string) (int, error)
	AQIHistory(ctx context.Context, city string) ([]bloomapi.HistoryPoint, error)
	CompleteTask(ctx context.Context, email, taskDescription string, points int) (profile.Profile, error)
	RedeemReward(ctx context.Context, email, rewardTitle string) error
	Leaderboard(ctx context.Context) ([]bloomapi.LeaderboardEntry, error)
}

// loadCSRFKey reads the CSRF secret from BLOOM_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("BLOOM_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("BLOOM_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("BLOOM_ENV") == "production" {
		log.Fatal("BLOOM_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (forms won't survive restart). Set BLOOM_CSRF_KEY for production.")
	return key
}

// Global backend instance (set by NewMux)
var backend Backend

// Global session store instance
var sessions *middleware.SessionStore

// Global flash cookie store for one-shot toasts
var flashes *gorillaSessions.CookieStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender) {
	emailSender = sender
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, b Backend, store sessionStore.Store, logger *zap.Logger) http.Handler {
	backend = b
	sessions = middleware.NewSessionStore(store)
	middleware.SecureCookies = os.Getenv("BLOOM_ENV") == "production"

	// CSRF key: 32-byte hex-encoded secret from env var. The flash cookie
	// store signs with the same key.
	csrfKey := loadCSRFKey()
	flashes = gorillaSessions.NewCookieStore(csrfKey)
	flashes.Options = &gorillaSessions.Options{
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   middleware.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	r.Get("/", handleIndex)
	r.Get("/login", handleLoginPage)
	r.Post("/login", handleLogin)
	r.Get("/signup", handleSignupPage)
	r.Post("/signup", handleSignup)
	r.Get("/healthz", handleHealthz)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.RequireAuth)
		pr.Get("/select-city", handleSelectCityPage)
		pr.Post("/select-city", handleSelectCity)
		pr.Get("/dashboard", handleDashboard)
		pr.Get("/effects", handleEffectDetail)
		pr.Post("/tasks/complete", handleCompleteTask)
		pr.Get("/profile", handleProfilePage)
		pr.Post("/profile", handleUpdateProfile)
		pr.Post("/rewards/redeem", handleRedeemReward)
		pr.Post("/share", handleShare)
		pr.Post("/theme", handleToggleTheme)
		pr.Post("/logout", handleLogout)
	})

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: RateLimit -> Auth -> CSRF -> SecurityHeaders -> Router
	return middleware.Chain(r,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
	)
}
