package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const devSecret = "cafelist-dev-secret"

// Config holds application settings gathered from env, .env and config.yaml.
type Config struct {
	Server struct {
		Port           string
		Mode           string
		AllowedOrigins []string
	}
	Database struct {
		DSN string
	}
	Auth struct {
		SecretKey  string
		SessionTTL time.Duration
		AdminEmail string
	}
	Log struct {
		Level string
	}
}

// Load reads configuration. Env vars win over config.yaml, which wins over defaults.
func Load() (Config, error) {
	_ = godotenv.Load() // .env is optional and never overrides the environment
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	v.SetDefault("server.port", "8083")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.allowed_origins", "")
	v.SetDefault("database.dsn", "cafes.db")
	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.session_ttl", "24h")
	v.SetDefault("auth.admin_email", "")
	v.SetDefault("log.level", "info")

	// first name wins for aliases kept from the old deployment
	binds := map[string][]string{
		"server.port":            {"PORT"},
		"server.mode":            {"GIN_MODE"},
		"server.allowed_origins": {"ALLOWED_ORIGINS"},
		"database.dsn":           {"DATABASE_DSN", "DB_URI"},
		"auth.secret_key":        {"SECRET_KEY", "FLASK_KEY"},
		"auth.session_ttl":       {"SESSION_TTL"},
		"auth.admin_email":       {"ADMIN_EMAIL"},
		"log.level":              {"LOG_LEVEL"},
	}
	for key, envs := range binds {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	cfg.Server.Port = strings.TrimSpace(v.GetString("server.port"))
	cfg.Server.Mode = strings.TrimSpace(v.GetString("server.mode"))
	cfg.Server.AllowedOrigins = splitOrigins(v.GetString("server.allowed_origins"))
	cfg.Database.DSN = strings.TrimSpace(v.GetString("database.dsn"))
	cfg.Auth.SecretKey = v.GetString("auth.secret_key")
	cfg.Auth.SessionTTL = v.GetDuration("auth.session_ttl")
	cfg.Auth.AdminEmail = strings.ToLower(strings.TrimSpace(v.GetString("auth.admin_email")))
	cfg.Log.Level = v.GetString("log.level")

	if cfg.Auth.SessionTTL <= 0 {
		return Config{}, fmt.Errorf("invalid session ttl %q", v.GetString("auth.session_ttl"))
	}
	if cfg.Auth.SecretKey == "" {
		if cfg.Server.Mode == "release" {
			return Config{}, fmt.Errorf("SECRET_KEY is required in release mode")
		}
		cfg.Auth.SecretKey = devSecret
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "cafes.db"
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	origins := []string{"http://localhost:3000"}
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" && o != origins[0] {
			origins = append(origins, o)
		}
	}
	return origins
}
