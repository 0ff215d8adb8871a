package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type YamlRedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	Enabled    bool   `yaml:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

type YamlPostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// YamlConfig is the structure that mirrors the raw config.yaml file.
type YamlConfig struct {
	ProjectID       string             `yaml:"project_id"`
	CredentialsFile string             `yaml:"credentials_file"`
	DryRun          bool               `yaml:"dry_run"`
	Store           string             `yaml:"store"`
	PostgresConfig  YamlPostgresConfig `yaml:"postgres"`
	RedisConfig     YamlRedisConfig    `yaml:"redis"`
}

// LoadYamlConfig reads and parses a config.yaml file.
func LoadYamlConfig(path string) (*YamlConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	var cfg YamlConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return &cfg, nil
}

// NewConfigFromYaml converts the YamlConfig into a clean, base Config struct.
func NewConfigFromYaml(baseCfg *YamlConfig, logger *slog.Logger) (*Config, error) {
	logger.Debug("Mapping YAML config to base config struct")

	cfg := &Config{
		ProjectID:       baseCfg.ProjectID,
		CredentialsFile: baseCfg.CredentialsFile,
		DryRun:          baseCfg.DryRun,
		Store:           StoreKind(baseCfg.Store),
		Postgres: PostgresConfig{
			DSN: baseCfg.PostgresConfig.DSN,
		},
		Redis: RedisConfig{
			Addr:     baseCfg.RedisConfig.Addr,
			Password: baseCfg.RedisConfig.Password,
			DB:       baseCfg.RedisConfig.DB,
			Enabled:  baseCfg.RedisConfig.Enabled,
			TTL:      time.Duration(baseCfg.RedisConfig.TTLSeconds) * time.Second,
		},
	}

	logger.Debug("YAML config mapping complete",
		"project_id", cfg.ProjectID,
		"store", cfg.Store,
		"dry_run", cfg.DryRun,
	)

	return cfg, nil
}
