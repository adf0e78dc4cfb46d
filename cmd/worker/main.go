package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/werkgeheugen/backend/internal/config"
	"github.com/werkgeheugen/backend/internal/database"
	"github.com/werkgeheugen/backend/internal/logger"
	"github.com/werkgeheugen/backend/internal/queue"
	"github.com/werkgeheugen/backend/internal/workers"
)

// snoozeWakeInterval is how often lapsed snoozes are swept back to active
const snoozeWakeInterval = time.Minute

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
	debugMode := cfg.WorkerDebugMode || *debugFlag

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

	zapLogger.Info("Starting worker",
		zap.Bool("debug_mode", debugMode),
	)

	// Initialize database connection
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			zapLogger.Warn("Failed to close database connection", zap.Error(err))
		}
	}()

	zapLogger.Info("Connected to database")

	// Initialize repositories
	taskRepo := database.NewTaskRepository(db)

	// Initialize RabbitMQ queue
	jobQueue, err := queue.NewRabbitMQQueue(cfg.RabbitMQURL)
	if err != nil {
		zapLogger.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
	}
	defer func() {
		if err := jobQueue.Close(); err != nil {
			zapLogger.Warn("Failed to close RabbitMQ connection", zap.Error(err))
		}
	}()

	zapLogger.Info("Connected to RabbitMQ",
		zap.Int("prefetch", cfg.RabbitMQPrefetch),
	)

	// Create notifier; nil sender falls back to log output
	notifier := workers.NewNotifier(nil, taskRepo)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start consuming messages
	msgChan, errChan, err := jobQueue.Consume(ctx, cfg.RabbitMQPrefetch)
	if err != nil {
		zapLogger.Fatal("Failed to start consuming messages", zap.Error(err))
	}

	zapLogger.Info("Worker started, consuming messages from queue")

	// Process messages
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgChan:
				if !ok {
					zapLogger.Info("Message channel closed")
					return
				}

				// Process job
				if err := notifier.ProcessJob(ctx, msg); err != nil {
					zapLogger.Error("Failed to process job",
						zap.Error(err),
						zap.String("job_id", msg.Job.ID.String()),
						zap.String("job_type", string(msg.Job.Type)),
					)
				}
			}
		}
	}()

	// Handle errors
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case err, ok := <-errChan:
				if !ok {
					return
				}
				zapLogger.Error("Queue error", zap.Error(err))
			}
		}
	}()

	// Wake up snoozed tasks whose snooze window has lapsed
	go func() {
		ticker := time.NewTicker(snoozeWakeInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				wakeSnoozed(ctx, taskRepo, zapLogger)
			}
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	zapLogger.Info("Shutdown signal received, stopping worker...")

	// Cancel context to stop processing
	cancel()

	zapLogger.Info("Worker stopped")
}

// wakeSnoozed moves every task with a lapsed snooze back to active.
func wakeSnoozed(ctx context.Context, taskRepo database.TaskRepositoryInterface, zapLogger *zap.Logger) {
	now := time.Now()
	tasks, err := taskRepo.ListSnoozedReady(ctx, now)
	if err != nil {
		zapLogger.Error("Failed to list snoozed tasks", zap.Error(err))
		return
	}

	for _, task := range tasks {
		task.Activate(now)
		if err := taskRepo.Update(ctx, task); err != nil {
			zapLogger.Error("Failed to wake snoozed task",
				zap.Error(err),
				zap.String("task_id", task.ID.String()),
			)
			continue
		}
		zapLogger.Info("Woke snoozed task",
			zap.String("task_id", task.ID.String()),
			zap.String("title", task.Title),
		)
	}
}
