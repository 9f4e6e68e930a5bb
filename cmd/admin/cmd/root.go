package cmd

import (
	"github.com/ikkim/bizdir-backend/config"
	"github.com/ikkim/bizdir-backend/internal/app/repository"
	"github.com/ikkim/bizdir-backend/internal/app/service"
	"github.com/ikkim/bizdir-backend/internal/cache"
	"github.com/ikkim/bizdir-backend/internal/db"
	"github.com/ikkim/bizdir-backend/pkg/logger"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "admin",
	Short:         "Business directory operator tools",
	Long:          "Import businesses and keywords, run recategorization and issue admin tokens.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(recategorizeCmd)
	rootCmd.AddCommand(tokenCmd)
}

// app holds the services shared by the subcommands.
type app struct {
	cfg         *config.Config
	categorizer service.CategorizationService
	businesses  service.BusinessService
	categories  service.CategoryService
	keywords    service.KeywordService
}

// openApp loads configuration, connects to the database and wires the services.
// The returned func closes the connection.
func openApp() (*app, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level := "info"
	if verbose {
		level = "debug"
	}
	logger.Initialize(logger.Config{
		Service:     "bizdir-admin",
		Level:       level,
		Format:      "console",
		EnableColor: true,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}
	if err := db.Migrate(); err != nil {
		closeDB()
		return nil, nil, err
	}

	businessRepo := repository.NewBusinessRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	keywordRepo := repository.NewKeywordRepository(db.GetDB())
	store := repository.NewDirectoryStore(businessRepo, categoryRepo, keywordRepo)
	rules := cache.NewKeywordCache(store, cache.Options{FallbackCategory: cfg.Discovery.FallbackCategory})

	categorizer := service.NewCategorizationService(businessRepo, categoryRepo, rules)
	return &app{
		cfg:         cfg,
		categorizer: categorizer,
		businesses:  service.NewBusinessService(businessRepo, categorizer),
		categories:  service.NewCategoryService(categoryRepo, rules, cfg.Discovery.FallbackCategory),
		keywords:    service.NewKeywordService(keywordRepo, categoryRepo, rules),
	}, closeDB, nil
}
