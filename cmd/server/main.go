package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ikkim/bizdir-backend/config"
	"github.com/ikkim/bizdir-backend/internal/app/controller"
	"github.com/ikkim/bizdir-backend/internal/app/repository"
	"github.com/ikkim/bizdir-backend/internal/app/service"
	"github.com/ikkim/bizdir-backend/internal/cache"
	"github.com/ikkim/bizdir-backend/internal/db"
	"github.com/ikkim/bizdir-backend/internal/discovery"
	"github.com/ikkim/bizdir-backend/internal/middleware"
	"github.com/ikkim/bizdir-backend/internal/router"
	"github.com/ikkim/bizdir-backend/internal/scheduler"
	"github.com/ikkim/bizdir-backend/internal/storage"
	"github.com/ikkim/bizdir-backend/pkg/logger"
	redisclient "github.com/ikkim/bizdir-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Service:     "bizdir-api",
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting business directory server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed default categories and keywords
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Redis는 선택 사항 (여러 인스턴스 간 키워드 캐시 무효화 공유)
	cacheOpts := cache.Options{
		FallbackCategory: cfg.Discovery.FallbackCategory,
		TTL:              cfg.Discovery.RulesCacheTTL,
	}
	if cfg.Redis.Enabled {
		if err := redisclient.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, keyword cache stays local", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redisclient.Close()
			cacheOpts.Versions = redisclient.NewVersionStore(redisclient.GetClient())
		}
	}

	// Initialize repositories
	businessRepo := repository.NewBusinessRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	keywordRepo := repository.NewKeywordRepository(db.GetDB())
	store := repository.NewDirectoryStore(businessRepo, categoryRepo, keywordRepo)

	keywordCache := cache.NewKeywordCache(store, cacheOpts)
	engine := discovery.NewEngine(store, discovery.EngineOptions{
		Locale: cfg.Discovery.Locale,
		Retriever: discovery.RetrieverOptions{
			Timeout: cfg.Discovery.RetrievalTimeout,
			Limit:   cfg.Discovery.SearchLimit,
		},
	})

	// Initialize services
	categorizer := service.NewCategorizationService(businessRepo, categoryRepo, keywordCache)
	searchService := service.NewSearchService(engine, keywordCache)
	businessService := service.NewBusinessService(businessRepo, categorizer)
	categoryService := service.NewCategoryService(categoryRepo, keywordCache, cfg.Discovery.FallbackCategory)
	keywordService := service.NewKeywordService(keywordRepo, categoryRepo, keywordCache)

	// Initialize controllers
	searchController := controller.NewSearchController(searchService)
	businessController := controller.NewBusinessController(businessService)
	categoryController := controller.NewCategoryController(categoryService)
	keywordController := controller.NewKeywordController(keywordService, categorizer)
	recategorizeController := controller.NewRecategorizeController(categorizer, cfg.Discovery.RecategorizeWorkers)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		searchController,
		businessController,
		categoryController,
		keywordController,
		recategorizeController,
		authMiddleware,
		cfg,
		db.Ping,
	)
	handler := r.Setup()

	// 야간 재분류 스케줄러
	var recategorizeScheduler *scheduler.RecategorizeScheduler
	if cfg.Discovery.RecategorizeEnabled {
		var archiver scheduler.ReportArchiver
		if cfg.S3.Bucket != "" {
			archiver = storage.NewS3Storage(&cfg.S3)
		}
		recategorizeScheduler = scheduler.NewRecategorizeScheduler(
			cfg.Discovery.RecategorizeCron,
			categorizer,
			archiver,
			service.RecategorizeOptions{
				Workers: cfg.Discovery.RecategorizeWorkers,
				Region:  cfg.Discovery.DefaultRegion,
			},
		)
		if err := recategorizeScheduler.Start(); err != nil {
			logger.Fatal("Failed to start recategorize scheduler", err)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: handler,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	if recategorizeScheduler != nil {
		recategorizeScheduler.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	logger.Info("Server stopped successfully")
}
