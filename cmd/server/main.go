package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"

	"github.com/werkgeheugen/backend/internal/config"
	"github.com/werkgeheugen/backend/internal/database"
	"github.com/werkgeheugen/backend/internal/gamify"
	"github.com/werkgeheugen/backend/internal/handlers"
	"github.com/werkgeheugen/backend/internal/logger"
	"github.com/werkgeheugen/backend/internal/middleware"
	"github.com/werkgeheugen/backend/internal/models"
	"github.com/werkgeheugen/backend/internal/pollstore"
	"github.com/werkgeheugen/backend/internal/queue"
	"github.com/werkgeheugen/backend/internal/suggest"
	"github.com/werkgeheugen/backend/internal/telemetry"
)

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override debug mode if flag is set
	debugMode := cfg.ServerDebugMode || *debugFlag

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors in production
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("planner_app_url", cfg.PlannerAppURL),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), "werkgeheugen-api", cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Connect to database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("failed_to_close_database_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_database")

	migrateCtx, migrateCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.Migrate(migrateCtx); err != nil {
		migrateCancel()
		zapLogger.Fatal("failed_to_run_migrations", zap.Error(err))
	}
	migrateCancel()
	zapLogger.Info("migrations_applied")

	// Connect to Redis for rate limiting
	redisLimiter, err := middleware.NewRedisRateLimiter(cfg.RedisURL)
	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_redis", zap.Error(err))
	}
	defer func() {
		if err := redisLimiter.Close(); err != nil {
			zapLogger.Warn("failed_to_close_redis_connection", zap.Error(err))
		}
	}()
	zapLogger.Info("connected_to_redis")

	// Connect to RabbitMQ for reward notifications (required)
	// Retry connection with exponential backoff to handle RabbitMQ startup delays
	const maxRetries = 10
	const initialDelay = 2 * time.Second
	var jobQueue queue.JobQueue
	var lastErr error

	for attempt := 0; attempt < maxRetries; attempt++ {
		jobQueue, err = queue.NewRabbitMQQueue(cfg.RabbitMQURL)
		if err == nil {
			zapLogger.Info("connected_to_rabbitmq")
			defer func() {
				if err := jobQueue.Close(); err != nil {
					zapLogger.Warn("failed_to_close_rabbitmq_connection", zap.Error(err))
				}
			}()
			break
		}

		lastErr = err
		delay := initialDelay * time.Duration(1<<uint(attempt)) // Exponential backoff
		if delay > 30*time.Second {
			delay = 30 * time.Second // Cap at 30 seconds
		}
		zapLogger.Warn("failed_to_connect_to_rabbitmq_retrying",
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", maxRetries),
			zap.Error(err),
			zap.Duration("retry_delay", delay),
		)
		time.Sleep(delay)
	}

	if err != nil {
		zapLogger.Fatal("failed_to_connect_to_rabbitmq_after_retries",
			zap.Int("max_retries", maxRetries),
			zap.Error(lastErr),
		)
	}

	// Initialize repositories
	taskRepo := database.NewTaskRepository(db)
	statsRepo := database.NewStatsRepository(db)
	badgeRepo := database.NewBadgeRepository(db)
	plannerRepo := database.NewPlannerRepository(db)

	// Initialize domain engines
	engine := &gamify.Engine{}
	ranker := &suggest.Ranker{}

	// Initialize handlers
	taskHandler := handlers.NewTaskHandler(taskRepo, statsRepo, badgeRepo, engine, jobQueue, zapLogger)
	statsHandler := handlers.NewStatsHandler(statsRepo, badgeRepo, taskRepo, engine, jobQueue, zapLogger)
	badgeHandler := handlers.NewBadgeHandler(badgeRepo, zapLogger)
	suggestionHandler := handlers.NewSuggestionHandler(taskRepo, ranker, zapLogger)
	plannerHandler := handlers.NewPlannerHandler(plannerRepo, cfg.PlannerAppURL, zapLogger)
	healthChecker := handlers.NewHealthChecker(db, jobQueue)

	// Setup router
	r := mux.NewRouter()

	// Apply middleware
	// Note: In gorilla/mux, middleware executes in registration order
	zapLogger.Info("setting_up_middleware")

	// 0. OpenTelemetry tracing (if enabled)
	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware("werkgeheugen-api"))
		zapLogger.Info("otel_middleware_enabled")
	}
	// 1. Security headers (should be set on all responses)
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	// 2. CORS for the mobile app and the planner web client
	r.Use(middleware.CORSFromEnv(cfg.FrontendURL))
	// 3. Request size limits (protects against DoS)
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	// 4. Content-Type validation for POST/PATCH/PUT requests
	r.Use(middleware.ContentType)
	// 5. Request timeout (30 seconds default)
	r.Use(middleware.Timeout(30 * time.Second))
	// 6. Error handler (catches panics)
	r.Use(middleware.ErrorHandler(zapLogger))
	// 7. Logging (innermost, executes last before handler)
	r.Use(middleware.Logging(zapLogger))

	// Rate limit middleware (applied to the API subrouter, not health checks)
	rateLimitMW, err := middleware.RateLimitWithRate(redisLimiter.Client(), cfg.RateLimit)
	if err != nil {
		zapLogger.Fatal("failed_to_create_rate_limiter", zap.Error(err))
	}

	// Public routes (no rate limiting for health checks)
	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	// API v1 routes
	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(rateLimitMW)

	taskHandler.RegisterRoutes(apiRouter.PathPrefix("/tasks").Subrouter())
	statsHandler.RegisterRoutes(apiRouter.PathPrefix("/stats").Subrouter())
	badgeHandler.RegisterRoutes(apiRouter.PathPrefix("/badges").Subrouter())
	suggestionHandler.RegisterRoutes(apiRouter.PathPrefix("/suggestions").Subrouter())
	plannerHandler.RegisterRoutes(apiRouter)

	// Catch-all OPTIONS handler for preflight requests
	// The CORS middleware will handle setting headers before this is called
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Setup server
	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())
	defer backgroundCancel()

	// Mirror a remote planner document into the local store when configured.
	// The poller keeps the copy fresh on the same cadence the web client uses.
	if cfg.PlannerRemoteURL != "" {
		remote := pollstore.NewClient(cfg.PlannerRemoteURL, zapLogger)
		poller := pollstore.NewPoller(remote, pollstore.DefaultInterval, zapLogger, func(doc *models.PlannerDocument) {
			ctx, cancel := context.WithTimeout(backgroundCtx, 5*time.Second)
			defer cancel()
			if err := plannerRepo.Replace(ctx, doc); err != nil {
				zapLogger.Warn("planner_mirror_save_failed", zap.Error(err))
			}
		})
		go poller.Run(backgroundCtx)
		zapLogger.Info("started_planner_mirror",
			zap.String("remote_url", cfg.PlannerRemoteURL),
			zap.Duration("interval", pollstore.DefaultInterval),
		)
	}

	// Start DLQ garbage collector if the queue implementation supports it
	// Run every hour, retain messages for 24 hours
	if dlqPurger, ok := jobQueue.(queue.DLQPurger); ok {
		dlqGC := queue.NewGarbageCollector(dlqPurger, 1*time.Hour, 24*time.Hour)
		go func() {
			if err := dlqGC.Start(backgroundCtx); err != nil && err != context.Canceled {
				zapLogger.Error("dlq_garbage_collector_stopped_with_error", zap.Error(err))
			}
		}()
		zapLogger.Info("started_dlq_garbage_collector",
			zap.Duration("interval", 1*time.Hour),
			zap.Duration("retention", 24*time.Hour),
		)
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")
	backgroundCancel()

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	// Only expose minimal version info (sanitized for security)
	if _, err := fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = err
	}
}
