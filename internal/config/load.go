package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over file values and use the TASKFLEET_ prefix with
// underscores for nesting, e.g. TASKFLEET_AUTH_JWT_SECRET.
// Returns a populated Config or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults for settings that have a sensible zero configuration.
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.access_token_lifetime_minutes", 60)
	v.SetDefault("auth.refresh_token_lifetime_minutes", 60*24*7)
	v.SetDefault("auth.invite_token_lifetime_minutes", 60*24)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_lifetime_minutes", 10)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("worker.concurrency", 2)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("TASKFLEET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Viper only unmarshals env-provided values for keys it knows about,
	// so keys without defaults must be bound explicitly.
	for _, key := range []string{
		"server.host",
		"database.url",
		"auth.jwt_secret",
		"smtp.host",
		"smtp.user",
		"smtp.password",
		"smtp.from",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine; the environment is the
		// primary configuration source.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}
