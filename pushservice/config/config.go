// Package config defines the authoritative configuration for assembling
// the push service and its device registry.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// StoreKind selects which device registry adapter backs the service.
type StoreKind string

const (
	StoreFirestore StoreKind = "firestore"
	StorePostgres  StoreKind = "postgres"
)

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type PostgresConfig struct {
	DSN string
}

// Config defines the *single*, authoritative configuration.
type Config struct {
	// ProjectID is the Firebase/GCP project the messaging client and the
	// Firestore registry run against.
	ProjectID string
	// CredentialsFile points at a service-account JSON key. Empty means
	// application default credentials.
	CredentialsFile string
	// DryRun makes every dispatch call use the provider's non-delivering
	// mode.
	DryRun bool

	Store    StoreKind
	Postgres PostgresConfig
	Redis    RedisConfig
}

// UpdateConfigWithEnvOverrides applies environment variables and final validation.
func UpdateConfigWithEnvOverrides(cfg *Config, logger *slog.Logger) (*Config, error) {
	logger.Debug("Applying environment variable overrides...")

	if val := os.Getenv("PROJECT_ID"); val != "" {
		logger.Debug("Overriding config value", "key", "PROJECT_ID", "source", "env")
		cfg.ProjectID = val
	}
	if val := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); val != "" && cfg.CredentialsFile == "" {
		cfg.CredentialsFile = val
	}
	if val := os.Getenv("PUSH_DRY_RUN"); val != "" {
		if dryRun, err := strconv.ParseBool(val); err == nil {
			logger.Debug("Overriding config value", "key", "PUSH_DRY_RUN", "source", "env")
			cfg.DryRun = dryRun
		}
	}
	if val := os.Getenv("DEVICE_STORE"); val != "" {
		cfg.Store = StoreKind(val)
	}
	if val := os.Getenv("POSTGRES_DSN"); val != "" {
		cfg.Postgres.DSN = val
		cfg.Store = StorePostgres
	}

	// Redis overrides
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		cfg.Redis.Addr = val
		cfg.Redis.Enabled = true
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		cfg.Redis.Password = val
	}
	if val := os.Getenv("REDIS_DB"); val != "" {
		if db, err := strconv.Atoi(val); err == nil {
			cfg.Redis.DB = db
		}
	}

	// Defaults and validation
	if cfg.Store == "" {
		cfg.Store = StoreFirestore
	}
	if cfg.Redis.Enabled && cfg.Redis.TTL <= 0 {
		cfg.Redis.TTL = 15 * time.Minute
	}

	switch cfg.Store {
	case StoreFirestore:
		if cfg.ProjectID == "" {
			return nil, fmt.Errorf("config: PROJECT_ID is required for the firestore store")
		}
	case StorePostgres:
		if cfg.Postgres.DSN == "" {
			return nil, fmt.Errorf("config: POSTGRES_DSN is required for the postgres store")
		}
	default:
		return nil, fmt.Errorf("config: unknown device store %q", cfg.Store)
	}

	return cfg, nil
}
