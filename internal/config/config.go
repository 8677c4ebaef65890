package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"finplan/internal/core"
)

type Config struct {
	// HTTP Server
	Port string

	// Budget
	MonthlyBudget string // decimal dollars, parsed and validated

	// Database
	DataBackend  string
	SQLiteDBPath string

	// Statement uploads
	UploadDir string

	// Remote collaborators
	SummaryBaseURL   string
	ProcessorBaseURL string
	RemoteTimeout    time.Duration

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Sessions
	SessionTTL time.Duration
}

func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		MonthlyBudget: getEnv("MONTHLY_BUDGET", "3000.00"),

		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/finplan.db"),

		UploadDir: getEnv("UPLOAD_DIR", "./data/uploads"),

		SummaryBaseURL:   getEnv("SUMMARY_BASE_URL", "http://localhost:8000"),
		ProcessorBaseURL: getEnv("PROCESSOR_BASE_URL", "http://localhost:8000"),
		RemoteTimeout:    getEnvDuration("REMOTE_TIMEOUT", 7*time.Second),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "finplan"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "process_statements"),

		SessionTTL: getEnvDuration("SESSION_TTL", 12*time.Hour),
	}
}

// MonthlyBudgetCents returns the configured monthly ceiling in cents.
// Call Validate first; an unparsable value falls back to zero here.
func (c *Config) MonthlyBudgetCents() int64 {
	cents, err := core.ParseDecimalToCents(c.MonthlyBudget)
	if err != nil {
		return 0
	}
	return cents
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate monthly budget
	if cents, err := core.ParseDecimalToCents(c.MonthlyBudget); err != nil {
		errors = append(errors, fmt.Sprintf("invalid monthly budget '%s': must be a decimal amount", c.MonthlyBudget))
	} else if cents == 0 {
		errors = append(errors, "monthly budget must be positive")
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	if c.UploadDir == "" {
		errors = append(errors, "upload directory cannot be empty")
	}

	// Validate remote collaborator URLs
	for _, u := range []struct{ name, value string }{
		{"summary base URL", c.SummaryBaseURL},
		{"processor base URL", c.ProcessorBaseURL},
	} {
		if u.value == "" {
			continue // collaborator disabled, overview falls back to empty baseline
		}
		parsed, err := url.Parse(u.value)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
			errors = append(errors, fmt.Sprintf("invalid %s '%s': must be an http(s) URL", u.name, u.value))
		}
	}

	if c.RemoteTimeout < time.Second {
		errors = append(errors, fmt.Sprintf("invalid remote timeout %v: must be at least 1 second", c.RemoteTimeout))
	} else if c.RemoteTimeout > time.Minute {
		errors = append(errors, fmt.Sprintf("invalid remote timeout %v: must be at most 1 minute", c.RemoteTimeout))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.SessionTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid session TTL %v: must be at least 1 minute", c.SessionTTL))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
