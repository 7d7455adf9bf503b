package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// BackendKind selects which set-storage service backs the store.
type BackendKind string

const (
	BackendRedis    BackendKind = "redis"
	BackendSQLite   BackendKind = "sqlite"
	BackendPostgres BackendKind = "postgres"
	BackendMemory   BackendKind = "memory"
)

// Config is the resolved configuration consumed by the store. Values come
// from defaults, then an optional YAML file, then environment overrides.
type Config struct {
	Backend  BackendKind    `yaml:"backend"`
	Redis    RedisConfig    `yaml:"redis"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Postgres PostgresConfig `yaml:"postgres"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// RedisConfig holds the pooled Redis client parameters.
type RedisConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	DB             int    `yaml:"db"`
	MaxConnections int    `yaml:"max_connections"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Backend: BackendRedis,
		Redis: RedisConfig{
			Host:           "localhost",
			Port:           6379,
			DB:             0,
			MaxConnections: 10,
		},
		SQLite:  SQLiteConfig{Path: "hoard.db"},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load resolves the configuration. path may be empty; a nonexistent file is
// skipped so the tool works with defaults out of the box. Environment
// variables REDIS_HOST and REDIS_PORT override the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if host := os.Getenv("REDIS_HOST"); host != "" {
		cfg.Redis.Host = host
	}
	if portStr := os.Getenv("REDIS_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			cfg.Redis.Port = port
		}
	}
}

func (c Config) validate() error {
	switch c.Backend {
	case BackendRedis, BackendSQLite, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	if c.Backend == BackendPostgres && c.Postgres.DSN == "" {
		return fmt.Errorf("postgres backend requires a dsn")
	}
	return nil
}
