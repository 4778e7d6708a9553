package config

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const weightSumTolerance = 0.001

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if TRUTHFI_CONFIG is set
//  3. env (prefix TRUTHFI_)
//
// A .env file in the working directory is read first so local setups can
// keep their variables out of the shell profile.
func Load(_ context.Context) (*Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	base := New()

	k := koanf.New(".")

	if path := os.Getenv("TRUTHFI_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
		}
	}

	// Environment variables: TRUTHFI_ADDR, TRUTHFI_QUEUE_SIZE, ...
	// Keys keep their underscores to match the koanf struct tags.
	envProvider := env.Provider("TRUTHFI_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "truthfi_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.QueueSize < 1 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if cfg.DefaultPostLimit < 1 || cfg.DefaultPostLimit > cfg.MaxPostLimit {
		return fmt.Errorf("%w: default_post_limit must be within [1, max_post_limit]", ErrInvalidConfig)
	}

	w := cfg.Weights
	sum := w.Content + w.Accounts + w.Coordination + w.Engagement
	if math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("%w: weights must sum to 1, got %.3f", ErrInvalidConfig, sum)
	}
	return nil
}
