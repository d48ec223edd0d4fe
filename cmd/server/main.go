package main

import (
	"alcyxob/bodyapp/internal/api"
	"alcyxob/bodyapp/internal/config"
	"alcyxob/bodyapp/internal/logging"
	"alcyxob/bodyapp/internal/repository"
	"alcyxob/bodyapp/internal/repository/memory"
	"alcyxob/bodyapp/internal/repository/mongo"
	"alcyxob/bodyapp/internal/repository/sqlite"
	"alcyxob/bodyapp/internal/service"
	"alcyxob/bodyapp/internal/storage"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// @title Body App API
// @version 1.0
// @description Workout log: exercise catalog, per-day sets, calendar stats and a rest timer.
// @host localhost:8080
// @BasePath /api/v1
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}

	// --- Logging ---
	if logFile := logging.Setup(cfg.Log); logFile != nil {
		defer logFile.Close()
	}
	log.Infof("Starting Body App Server (storage backend: %s)...", cfg.Storage.Backend)

	// --- Persistence Backend ---
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repo, exports, closeRepo, err := openBackend(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("FATAL: Could not open %s backend: %v", cfg.Storage.Backend, err)
	}
	defer closeRepo()

	// --- Initialize Services ---
	log.Info("Initializing services...")
	catalog := service.NewExerciseCatalog(repo)
	store := service.NewDayStore(repo)
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 30*time.Second)
	err = store.Load(loadCtx)
	cancelLoad()
	if err != nil {
		log.Fatalf("FATAL: Could not load workouts: %v", err)
	}
	log.Infof("Loaded %d workout days", len(store.WorkoutDates()))

	restTimer := service.NewRestTimer(cfg.Timer.TickInterval, func() {
		log.Info("Rest is over, next set!")
	})
	defer restTimer.Close()

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(api.PanicRecovery(), api.RequestLogger())

	// --- Setup Routes ---
	api.SetupRoutes(router, api.Services{
		Catalog:     catalog,
		Store:       store,
		Timer:       restTimer,
		DefaultRest: cfg.Timer.DefaultRest,
		Exports:     exports,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Infof("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	log.Info("Server exiting.")
}

// openBackend builds the key-value repository selected by storage.backend.
// exports is non-nil only for the s3 backend.
func openBackend(ctx context.Context, cfg config.Config) (repo repository.KeyValueRepository, exports storage.ObjectStorage, closeFn func(), err error) {
	closeFn = func() {}

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Warn("Using in-memory storage, data is lost on exit")
		return memory.NewMemoryKVRepository(), nil, closeFn, nil

	case config.BackendSQLite:
		kv, err := sqlite.New(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		log.Infof("SQLite database opened at %s", cfg.Storage.SQLitePath)
		return kv, nil, func() {
			if err := kv.Close(); err != nil {
				log.Errorf("Failed to close SQLite database: %v", err)
			}
		}, nil

	case config.BackendMongo:
		client, err := mongo.ConnectDB(ctx, cfg.Database.URI)
		if err != nil {
			return nil, nil, nil, err
		}
		db := client.Database(cfg.Database.Name)
		if err := mongo.EnsureKVIndexes(ctx, mongo.KVCollection(db)); err != nil {
			log.Warnf("Could not ensure kv indexes: %v", err)
		}
		return mongo.NewMongoKVRepository(db), nil, func() {
			log.Info("Disconnecting MongoDB...")
			if err := mongo.DisconnectDB(client); err != nil {
				log.Errorf("Failed to disconnect MongoDB: %v", err)
			}
		}, nil

	case config.BackendS3:
		objects, err := storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			return nil, nil, nil, err
		}
		return objects, objects, closeFn, nil
	}

	return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
