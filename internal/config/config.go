package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DefaultPort            = 5000
	DefaultShutdownTimeout = 10 * time.Second
	envFileName            = ".env"
)

var ErrMissingStoreURI = errors.New("STORE_URI (or MONGO_URI) is required")

// Server holds everything the API process reads at startup.
type Server struct {
	Port            int
	StoreURI        string
	StoreDatabase   string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Addr is the listen address for Port.
func (s Server) Addr() string { return fmt.Sprintf(":%d", s.Port) }

// LoadServer reads the environment, plus dir/.env when present.
// Real environment variables win over the .env file.
func LoadServer(dir string) (Server, error) {
	v := viper.New()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("shutdown_timeout", DefaultShutdownTimeout)

	if dir != "" {
		envPath := filepath.Join(dir, envFileName)
		if _, err := os.Stat(envPath); err == nil {
			v.SetConfigFile(envPath)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return Server{}, fmt.Errorf("read %s: %w", envPath, err)
			}
		}
	}

	v.AutomaticEnv()
	for _, key := range []string{"store_uri", "mongo_uri", "store_database", "port", "log_level", "log_format", "shutdown_timeout"} {
		if err := v.BindEnv(key); err != nil {
			return Server{}, err
		}
	}

	cfg := Server{
		Port:            v.GetInt("port"),
		StoreURI:        strings.TrimSpace(v.GetString("store_uri")),
		StoreDatabase:   strings.TrimSpace(v.GetString("store_database")),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		ShutdownTimeout: v.GetDuration("shutdown_timeout"),
	}
	if cfg.StoreURI == "" {
		cfg.StoreURI = strings.TrimSpace(v.GetString("mongo_uri"))
	}

	if cfg.StoreURI == "" {
		return cfg, ErrMissingStoreURI
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid PORT %q", v.GetString("port"))
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	return cfg, nil
}
