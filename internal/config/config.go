package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMemory = "memory"
	DriverMySQL  = "mysql"
	DriverRedis  = "redis"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Log      LogConfig      `yaml:"log"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host             string        `yaml:"host"`
	Port             int           `yaml:"port"`
	User             string        `yaml:"user"`
	Password         string        `yaml:"password"`
	Name             string        `yaml:"name"`
	MaxOpenConns     int           `yaml:"max_open_conns"`
	MaxIdleConns     int           `yaml:"max_idle_conns"`
	ConnMaxLifetime  time.Duration `yaml:"conn_max_lifetime"`
	MaxRetryAttempts int           `yaml:"max_retry_attempts"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// StorageConfig selects where inventory snapshots are kept.
type StorageConfig struct {
	Driver string `yaml:"driver"`
}

type LedgerConfig struct {
	PersistHistory bool `yaml:"persist_history"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Environment string `yaml:"environment"`
}

type MetricsConfig struct {
	Prefix string `yaml:"prefix"`
}

func Load() (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("SERVER_IDLE_TIMEOUT", "30s")
	viper.SetDefault("SERVER_REQUEST_TIMEOUT", "5s")
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "stockroom")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "stockroom")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("DB_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_PREFIX", "stockroom:")
	viper.SetDefault("STORAGE_DRIVER", DriverMemory)
	viper.SetDefault("LEDGER_PERSIST_HISTORY", true)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_ENVIRONMENT", "production")
	viper.SetDefault("METRICS_PREFIX", "stockroom")

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			Host:             viper.GetString("DB_HOST"),
			Port:             viper.GetInt("DB_PORT"),
			User:             viper.GetString("DB_USER"),
			Password:         viper.GetString("DB_PASSWORD"),
			Name:             viper.GetString("DB_NAME"),
			MaxOpenConns:     viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:     viper.GetInt("DB_MAX_IDLE_CONNS"),
			MaxRetryAttempts: viper.GetInt("DB_MAX_RETRY_ATTEMPTS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
			Prefix:   viper.GetString("REDIS_PREFIX"),
		},
		Storage: StorageConfig{
			Driver: viper.GetString("STORAGE_DRIVER"),
		},
		Ledger: LedgerConfig{
			PersistHistory: viper.GetBool("LEDGER_PERSIST_HISTORY"),
		},
		Log: LogConfig{
			Level:       viper.GetString("LOG_LEVEL"),
			Environment: viper.GetString("LOG_ENVIRONMENT"),
		},
		Metrics: MetricsConfig{
			Prefix: viper.GetString("METRICS_PREFIX"),
		},
	}

	durations := map[string]*time.Duration{
		"SERVER_READ_TIMEOUT":     &cfg.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":    &cfg.Server.WriteTimeout,
		"SERVER_IDLE_TIMEOUT":     &cfg.Server.IdleTimeout,
		"SERVER_REQUEST_TIMEOUT":  &cfg.Server.RequestTimeout,
		"SERVER_SHUTDOWN_TIMEOUT": &cfg.Server.ShutdownTimeout,
		"DB_CONN_MAX_LIFETIME":    &cfg.Database.ConnMaxLifetime,
	}

	for key, dst := range durations {
		d, err := time.ParseDuration(viper.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", key, err)
		}
		*dst = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverMySQL, DriverRedis:
	default:
		return fmt.Errorf("unknown storage driver %q: want one of memory, mysql, redis", c.Storage.Driver)
	}

	if c.Server.Port <= 0 {
		return fmt.Errorf("server port must be positive, got %d", c.Server.Port)
	}

	return nil
}
