package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// parseEnv overlays Config with PRICER_-prefixed environment variables.
// A .env file in the working directory is loaded first; its absence is fine.
func parseEnv(cfg *Config) error {
	_ = godotenv.Load()

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "PRICER_"}); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}
