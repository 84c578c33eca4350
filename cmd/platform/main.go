package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	checkinapi "github.com/enutri/platform/internal/checkin/api"
	checkindomain "github.com/enutri/platform/internal/checkin/domain"
	checkininfra "github.com/enutri/platform/internal/checkin/infrastructure"
	"github.com/enutri/platform/internal/patient"
	"github.com/enutri/platform/internal/professional"
	"github.com/enutri/platform/internal/shared/auth"
	"github.com/enutri/platform/internal/shared/config"
	"github.com/enutri/platform/internal/shared/database"
	"github.com/enutri/platform/internal/shared/events"
	"github.com/enutri/platform/internal/shared/metrics"
	secmiddleware "github.com/enutri/platform/internal/shared/middleware"
	"github.com/enutri/platform/internal/shared/secrets"
	"github.com/enutri/platform/internal/shared/types"
	"github.com/enutri/platform/internal/template"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// App holds all application dependencies
type App struct {
	Config *config.Config
	DB     *database.DB
	Bus    *events.Bus
}

func main() {
	ctx := context.Background()

	// Load .env in development; ignore when absent
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	app := &App{Config: cfg}

	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	app.DB = db
	defer db.Close()

	if err := database.Migrate(ctx, db.Pool); err != nil {
		fmt.Fprintf(os.Stderr, "failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	// Event streaming is optional; the API works without it
	if cfg.EventStore.Enabled {
		bus, err := events.NewBus(ctx, cfg.EventStore)
		if err != nil {
			fmt.Printf("Warning: event store not available: %v\n", err)
			fmt.Println("Running without event streaming...")
		} else {
			app.Bus = bus
			defer bus.Close()
			fmt.Println("Event bus initialized")
		}
	}

	codec, err := secrets.NewCodec(cfg.Secrets.EncryptionKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize secrets codec: %v\n", err)
		os.Exit(1)
	}

	issuer := auth.NewIssuer(cfg.Auth)

	// Repositories and services
	professionalRepo := professional.NewRepository(db.Pool)
	patientRepo := patient.NewRepository(db.Pool)
	checkinRepo := checkininfra.NewPostgresRepository(db.Pool)
	returnPolicy := checkindomain.NewReturnPolicy(cfg.ReturnPolicy)
	checkinService := checkindomain.NewService(checkinRepo, patientRepo, returnPolicy)

	// Handlers
	professionalHandler := professional.NewHandler(professionalRepo, issuer)
	patientHandler := patient.NewHandler(patientRepo, codec, app.Bus, patientVisits(checkinService))
	checkinHandler := checkinapi.NewHandler(checkinService, app.Bus)
	templateHandler := template.NewHandler(patientRepo)

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(secmiddleware.SecurityHeaders)
	r.Use(secmiddleware.BodyLimit)
	r.Use(metrics.Middleware)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
	}).Handler)

	if cfg.RateLimit.Enabled {
		limiter := secmiddleware.NewIPRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		r.Use(limiter.Middleware)
	}

	// Health checks (unauthenticated)
	r.Get("/health", healthHandler(app))
	r.Get("/ready", readyHandler(app))
	r.Handle("/metrics", metrics.Handler())

	// API info
	r.Get("/", infoHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", professionalHandler.Routes(auth.Middleware(issuer)))

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(issuer))

			r.Mount("/patients", patientHandler.Routes(checkinHandler.PatientRoutes()))
			r.Mount("/checkins", checkinHandler.Routes())
			r.Mount("/templates", templateHandler.Routes())
		})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		fmt.Println("\nShutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("Server shutdown error: %v\n", err)
		}
		close(done)
	}()

	fmt.Println("============================================")
	fmt.Println("eNutri Clinical Practice Platform")
	fmt.Println("============================================")
	fmt.Printf("Environment:  %s\n", cfg.Server.Env)
	fmt.Printf("Server:       http://localhost:%d\n", cfg.Server.Port)
	fmt.Printf("API:          http://localhost:%d/api/v1\n", cfg.Server.Port)
	fmt.Printf("Health:       http://localhost:%d/health\n", cfg.Server.Port)
	fmt.Printf("Events:       %v\n", cfg.EventStore.Enabled)
	fmt.Println("============================================")

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}

	<-done
	fmt.Println("Server stopped")
}

// patientVisits adapts the check-in service to the patient detail view
func patientVisits(service *checkindomain.Service) patient.VisitLister {
	return func(ctx context.Context, patientID, professionalID types.ID) (any, error) {
		checkins, err := service.ListByPatient(ctx, patientID, professionalID)
		if err != nil {
			return nil, err
		}

		responses := make([]checkinapi.Response, 0, len(checkins))
		for _, c := range checkins {
			responses = append(responses, checkinapi.ToResponse(c))
		}
		return responses, nil
	}
}

func infoHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"name":    "eNutri Clinical Practice Platform",
		"version": "0.1.0",
		"docs":    "/api/v1",
	})
}

func healthHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "healthy",
		})
	}
}

func readyHandler(app *App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"server": "ready",
		}

		if err := app.DB.Health(r.Context()); err != nil {
			checks["database"] = "not ready: " + err.Error()
		} else {
			checks["database"] = "ready"
		}

		if app.Bus != nil {
			if err := app.Bus.Health(); err != nil {
				checks["eventstore"] = "not ready: " + err.Error()
			} else {
				checks["eventstore"] = "ready"
			}
		} else {
			checks["eventstore"] = "not configured"
		}

		allReady := true
		for _, status := range checks {
			if status != "ready" && status != "not configured" {
				allReady = false
				break
			}
		}

		status := http.StatusOK
		if !allReady {
			status = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"status": map[bool]string{true: "ready", false: "not ready"}[allReady],
			"checks": checks,
		})
	}
}
