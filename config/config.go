package config

import (
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	"github.com/Jgiet001-AI/GLP-Sync-2-sub003/circuitbreaker"
)

// BreakerConfig is the per-dependency breaker policy. RecoveryTimeout is a
// duration string ("30s", "2m") so it reads naturally in YAML and env vars.
type BreakerConfig struct {
	Name             string `mapstructure:"name"`
	FailureThreshold int    `mapstructure:"failure_threshold"`
	RecoveryTimeout  string `mapstructure:"recovery_timeout"`
}

type Config struct {
	Breakers []BreakerConfig `mapstructure:"breakers"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Error("failed to read config file", slog.String("error", err.Error()))
			return nil, err
		}
		slog.Warn("config file not found, using environment variables only")
	} else {
		slog.Info("loaded config file", slog.String("file", viper.ConfigFileUsed()))
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.Error("failed to unmarshal config", slog.String("error", err.Error()))
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Breakers,
			validation.Required,
			validation.Length(1, 0),
			validation.Each(validation.By(validateBreakerConfig)),
		),
	)
}

func validateBreakerConfig(value interface{}) error {
	breaker, ok := value.(BreakerConfig)
	if !ok {
		return validation.NewError("validation_invalid_type", "must be a BreakerConfig")
	}

	if breaker.Name == "" {
		return validation.NewError("validation_empty_name", "breaker name cannot be empty")
	}

	if breaker.FailureThreshold < 1 {
		return validation.NewError("validation_invalid_threshold", "failure threshold must be at least 1")
	}

	timeout, err := time.ParseDuration(breaker.RecoveryTimeout)
	if err != nil {
		return validation.NewError("validation_invalid_duration", "recovery timeout must be a valid duration (e.g., 30s, 2m)")
	}

	if timeout <= 0 {
		return validation.NewError("validation_invalid_duration", "recovery timeout must be positive")
	}

	return nil
}

// Register builds every configured breaker through the registry, in the
// order they appear in the config.
func (c *Config) Register(registry *circuitbreaker.Registry) ([]*circuitbreaker.Breaker, error) {
	breakers := make([]*circuitbreaker.Breaker, 0, len(c.Breakers))

	for _, bc := range c.Breakers {
		timeout, err := time.ParseDuration(bc.RecoveryTimeout)
		if err != nil {
			return nil, err
		}

		b, err := registry.GetOrCreate(bc.Name,
			circuitbreaker.WithFailureThreshold(bc.FailureThreshold),
			circuitbreaker.WithRecoveryTimeout(timeout),
		)
		if err != nil {
			return nil, err
		}

		breakers = append(breakers, b)
	}

	return breakers, nil
}
