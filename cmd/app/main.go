package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"ensotrade/configs"
	"ensotrade/internal/adapter"
	"ensotrade/internal/database"
	deliveryhttp "ensotrade/internal/delivery/http"
	"ensotrade/internal/infra"
	"ensotrade/internal/repository"
	"ensotrade/internal/service"
	"ensotrade/internal/usecase"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := configs.Load()

	ctx := context.Background()

	// Initialize database. Connection failure degrades to fallback-only
	// operation: analyses still run, records go to the local file.
	var db *pgxpool.Pool
	pool, err := infra.NewDatabase(ctx, cfg.Database.URL)
	if err != nil {
		log.Printf("WARNING: Database unavailable, running on local fallback store: %v", err)
	} else {
		db = pool
		defer db.Close()

		if err := database.RunMigrations(db); err != nil {
			log.Printf("WARNING: Migrations failed, running on local fallback store: %v", err)
			db.Close()
			db = nil
		}
	}

	// Initialize repositories (nil pool is tolerated throughout)
	profileRepo := repository.NewProfileRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)
	localStore := repository.NewLocalAnalysisStore(cfg.Fallback.Path)
	gateway := repository.NewAnalysisGateway(analysisRepo, localStore)

	// Initialize external collaborators
	visionModel := adapter.NewGeminiBridge(cfg.Model.BaseURL, cfg.Model.APIKey, cfg.Model.Name)
	chartCapture := adapter.NewCaptureBridge(cfg.Capture.URL)
	authProvider := adapter.NewAuthGateBridge(cfg.Auth.ProviderURL, cfg.Auth.ProviderKey)

	// Initialize services
	creditService := service.NewCreditService(profileRepo, cfg.Auth.AdminEmails)
	promptService := service.NewPromptService()
	analysisService := usecase.NewAnalysisService(visionModel, chartCapture, creditService, promptService, gateway)

	// Fallback store maintenance
	scheduler := infra.NewScheduler(localStore)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Stop()

	// API server
	e := echo.New()
	e.HideBanner = true
	deliveryhttp.SetupRoutes(e, &deliveryhttp.RouterConfig{
		AuthHandler:     deliveryhttp.NewAuthHandler(authProvider),
		UserHandler:     deliveryhttp.NewUserHandler(profileRepo, creditService),
		AnalysisHandler: deliveryhttp.NewAnalysisHandler(analysisService),
		JWTSecret:       cfg.Auth.JWTSecret,
		AllowedOrigins:  cfg.Server.AllowedOrigins,
	})

	// Ops server: service banner and health, kept off the public port
	opsSrv := &http.Server{
		Addr:         ":" + cfg.Server.OpsPort,
		Handler:      opsRouter(db),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("Ops endpoints listening on :%s", cfg.Server.OpsPort)
		if err := opsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start ops server: %v", err)
		}
	}()

	go func() {
		log.Printf("EnsoTrade API starting on :%s", cfg.Server.Port)
		log.Printf("Environment: %s", cfg.Server.Env)
		if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("API server forced to shutdown: %v", err)
	}
	if err := opsSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Ops server forced to shutdown: %v", err)
	}

	log.Println("[OK] Server exited gracefully")
}

// opsRouter builds the chi router for the operational endpoints
func opsRouter(db *pgxpool.Pool) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Timeout(15 * time.Second))

	r.Get("/", handleRoot)
	r.Get("/health", handleHealth(db))

	return r
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{
		"message": "EnsoTrade API is running",
		"endpoints": {
			"health": "GET /health"
		}
	}`))
}

func handleHealth(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "unavailable"
		if db != nil {
			dbStatus = "healthy"
			if err := db.Ping(ctx); err != nil {
				dbStatus = "unhealthy"
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(fmt.Sprintf(`{
			"status": "healthy",
			"service": "ensotrade-api",
			"database": "%s",
			"timestamp": "%s"
		}`, dbStatus, time.Now().Format(time.RFC3339))))
	}
}
