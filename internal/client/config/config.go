// Package config loads runtime settings for the Pocket Pricer client.
//
// Sources are applied in order, later ones winning: built-in defaults, a
// JSON file (-c/-config), environment variables (PRICER_*, with .env
// support), and command-line flags.
package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the client.
type Config struct {
	// APIBaseURL is the backend of record, e.g. "https://api.pocketpricer.app".
	APIBaseURL string `env:"API_BASE_URL"`

	// HTTPTimeout bounds each individual backend request.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT"`

	// DatabasePath is the local sqlite file holding prefs, history and
	// favorites.
	DatabasePath string `env:"DB_PATH"`

	// EntitlementAPIKey is the purchase provider key. Empty means degraded
	// mode: every entitlement check reads as non-pro.
	EntitlementAPIKey string `env:"ENTITLEMENT_API_KEY"`

	// EntitlementBaseURL is the provider's REST endpoint.
	EntitlementBaseURL string `env:"ENTITLEMENT_BASE_URL"`

	// ProEntitlements is the accepted set of pro entitlement identifiers,
	// matched case-insensitively. The provider dashboard has grown variants
	// over time, so this is configuration, not logic.
	ProEntitlements []string `env:"PRO_ENTITLEMENTS" envSeparator:","`

	// OfferingsRetryDelay is the fixed delay between package-list fetch
	// retries.
	OfferingsRetryDelay time.Duration `env:"OFFERINGS_RETRY_DELAY"`

	// DeviceName is the human-readable device label sent with logins.
	DeviceName string `env:"DEVICE_NAME"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080"
	c.HTTPTimeout = 15 * time.Second
	c.DatabasePath = "pricer.db"
	c.EntitlementBaseURL = "https://api.revenuecat.com"
	c.ProEntitlements = []string{"pro", "Pocket Pricer Pro"}
	c.OfferingsRetryDelay = 2 * time.Second

	if host, err := os.Hostname(); err == nil && host != "" {
		c.DeviceName = host
	} else {
		c.DeviceName = "Pocket Pricer CLI"
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON, environment and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	parseFlags(cfg)
	return cfg, nil
}
