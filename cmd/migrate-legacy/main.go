// Command migrate-legacy rewrites rows still carrying the legacy PURCHASE
// type to EXPENSE. It is safe to run repeatedly; a second run finds nothing
// to change.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Abdulquadri-Mahmud/ADRMS/internal/backend"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/config"
	"github.com/Abdulquadri-Mahmud/ADRMS/internal/log"
)

func main() {
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	result, err := backend.NewFactory(logger).Create(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer result.Cleanup()

	logger.Info("Normalizing legacy record types", "backend", cfg.DataBackend)
	updated, err := result.Store.NormalizeLegacyTypes(ctx)
	if err != nil {
		logger.Error("Migration failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Migration complete", "updated", updated)
}
