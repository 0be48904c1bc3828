package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/curveplot/internal/api"
	"github.com/RMahshie/curveplot/internal/classify"
	"github.com/RMahshie/curveplot/internal/config"
	"github.com/RMahshie/curveplot/internal/processing"
	"github.com/RMahshie/curveplot/internal/render"
	"github.com/RMahshie/curveplot/internal/repository"
	"github.com/RMahshie/curveplot/internal/repository/memory"
	"github.com/RMahshie/curveplot/internal/repository/postgres"
	"github.com/RMahshie/curveplot/internal/storage"
	"github.com/RMahshie/curveplot/pkg/models"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		_ = config.SetupLogging("info")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if err := config.SetupLogging(cfg.LogLevel); err != nil {
		log.Fatal().Err(err).Msg("Invalid log level")
	}

	ctx := context.Background()

	// Object storage
	store, err := storage.New(ctx, cfg.Storage.ObjectStore())
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Storage.Backend).Msg("Failed to initialize object storage")
	}
	if store == nil {
		log.Warn().Msg("No object storage configured, chart images will not be retrievable")
	}

	// Render history
	var chartRepo repository.ChartRepository
	if cfg.Database.URL != "" {
		db, err := sql.Open("postgres", cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to open database")
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to database")
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply migrations")
		}
		chartRepo = postgres.NewPostgresChartRepository(db)
		log.Info().Msg("Using PostgreSQL render history")
	} else {
		chartRepo = memory.NewChartRepository()
		log.Warn().Msg("DATABASE_URL not set, keeping render history in memory")
	}

	// Color rules
	var rules *classify.RuleSet
	if cfg.Chart.RulesFile != "" {
		rules, err = classify.LoadRules(cfg.Chart.RulesFile)
		if err != nil {
			log.Fatal().Err(err).Str("path", cfg.Chart.RulesFile).Msg("Failed to load color rules")
		}
	}

	chartSvc := processing.NewChartService(store, chartRepo, render.NewRenderer(cfg.Chart.DPI))

	// Create Chi router
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(zerologLogger())
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Create Huma API
	humaConfig := huma.DefaultConfig("Curveplot API", version)
	humaConfig.DocsPath = "/api/docs"
	humaAPI := humachi.New(router, humaConfig)

	// Register health endpoint
	huma.Register(humaAPI, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns the health status of the service",
	}, func(ctx context.Context, input *struct{}) (*models.HealthResponse, error) {
		resp := &models.HealthResponse{}
		resp.Body.Status = "healthy"
		resp.Body.Version = version
		resp.Body.Time = time.Now()
		return resp, nil
	})

	api.RegisterRoutes(humaAPI, chartRepo, store, chartSvc, rules)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.Server.Env).Msg("Starting Curveplot API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologLogger returns a Chi middleware that logs HTTP requests using zerolog
func zerologLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				log.Info().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Str("request_id", middleware.GetReqID(r.Context())).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("latency", time.Since(start)).
					Msg("HTTP request")
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
