package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"breathbloom/internal/adapters/bloomapi"
	emailPkg "breathbloom/internal/adapters/email"
	web "breathbloom/internal/adapters/http"
	"breathbloom/internal/adapters/storage"
	sessionStore "breathbloom/internal/adapters/storage/session"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	zapLogger, err := zap.NewProduction()
	if err != nil {
		slog.Error("failed to init request logger", "error", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	// Session database with WAL mode and busy timeout
	dbPath := envOrDefault("BLOOM_DB_PATH", "breathbloom.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		slog.Error("database unreachable", "error", err)
		os.Exit(1)
	}
	if err := storage.InitDB(db); err != nil {
		slog.Error("failed to init database", "error", err)
		os.Exit(1)
	}

	sessions := sessionStore.NewSQLiteStore(db)

	// Expired sessions are swept in the background so the table stays small.
	sweepStop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := sessions.DeleteExpired(context.Background()); err != nil {
					slog.Warn("session_sweep_failed", "error", err)
				}
			case <-sweepStop:
				return
			}
		}
	}()
	defer close(sweepStop)

	// Remote backend that owns users, points, and air quality data
	backend := bloomapi.New(os.Getenv("BLOOM_API_URL"))

	// Configure email sender for achievement sharing
	resendKey := os.Getenv("BLOOM_RESEND_KEY")
	emailFrom := envOrDefault("BLOOM_RESEND_FROM", "BreathBloom <noreply@breathbloom.app>")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom))
		slog.Info("email sender configured", "provider", "resend")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		slog.Info("email sender configured", "provider", "noop")
	}

	mux := web.NewMux("static", backend, sessions, zapLogger)

	addr := envOrDefault("BLOOM_ADDR", ":8080")
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		slog.Info("server starting", "version", version, "addr", addr, "env", envOrDefault("BLOOM_ENV", "development"))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	slog.Info("server stopped")
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
