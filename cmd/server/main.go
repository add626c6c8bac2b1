package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	syncapp "github.com/cartbridge/backend/internal/application/sync"
	"github.com/cartbridge/backend/internal/infrastructure/config"
	"github.com/cartbridge/backend/internal/infrastructure/logger"
	"github.com/cartbridge/backend/internal/infrastructure/opencart"
	"github.com/cartbridge/backend/internal/infrastructure/persistence"
	"github.com/cartbridge/backend/internal/infrastructure/storage"
	"github.com/cartbridge/backend/internal/interfaces/http/handler"
	"github.com/cartbridge/backend/internal/interfaces/http/middleware"
	"github.com/cartbridge/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

const version = "1.0.0"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting CartBridge sync server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Target catalog database (GORM logging through zap)
	gormLevel := gormlogger.Warn
	if cfg.Log.Level == "debug" {
		gormLevel = gormlogger.Info
	}
	gormLog := logger.NewGormLogger(log, gormLevel)

	db, err := persistence.NewDatabaseWithLogger(&cfg.TargetDB, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to target database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing target database", zap.Error(err))
		}
	}()
	log.Info("Target database connected")

	// Target catalog repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	attributeRepo := persistence.NewGormAttributeRepository(db.DB)
	variationRepo := persistence.NewGormVariationRepository(db.DB)

	// Optional media import: needs both object storage and a source image root.
	var media syncapp.MediaImporter
	if cfg.Storage.Enabled && cfg.Sync.ImageBaseURL != "" {
		store, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := store.EnsureBucket(context.Background()); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		media = storage.NewImageImporter(cfg.Sync.ImageBaseURL, store, log)
		log.Info("Image import enabled",
			zap.String("bucket", store.GetBucket()),
			zap.String("image_base_url", cfg.Sync.ImageBaseURL))
	}

	// Source catalog reader. Missing credentials are not fatal: the server
	// runs and reports CONFIG_MISSING on every step until configured.
	readyChecks := map[string]handler.ReadyCheck{
		"target_db": db.Ping,
	}
	var syncService handler.SyncService
	if cfg.SourceDB.Configured() {
		reader, err := opencart.Open(&cfg.SourceDB)
		if err != nil {
			log.Fatal("Failed to connect to source database", zap.Error(err))
		}
		defer func() {
			if err := reader.Close(); err != nil {
				log.Error("Error closing source database", zap.Error(err))
			}
		}()
		log.Info("Source database connected",
			zap.String("host", cfg.SourceDB.Host),
			zap.String("dbname", cfg.SourceDB.DBName))

		readyChecks["source_db"] = func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return reader.Ping(ctx)
		}

		syncService = syncapp.NewService(
			reader,
			productRepo,
			attributeRepo,
			variationRepo,
			media,
			cfg.Sync.ChunkSize,
			log,
		)
	} else {
		log.Warn("Source database not configured; sync endpoints will report CONFIG_MISSING")
	}

	// HTTP handlers
	syncHandler := handler.NewSyncHandler(syncService, log)
	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, readyChecks)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Step requests are a two-field cursor; anything bigger is noise.
	engine.Use(middleware.BodyLimit(1 << 20))

	// Probes live outside API versioning
	engine.GET("/healthz", systemHandler.Health)
	engine.GET("/readyz", systemHandler.Ready)

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(syncHandler).
		Register(systemHandler).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
