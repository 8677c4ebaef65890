// Package cli provides common initialization shared by cmd/finplan and
// cmd/finplan-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"finplan/internal/config"
	"finplan/internal/log"
)

// SetupLogger initializes structured logging and installs it as the
// process-wide default.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads a .env file for local development. Missing files are
// fine, production runs on real environment variables.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it, exiting the
// process on failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err.Error())
		os.Exit(1)
	}
	return cfg
}
