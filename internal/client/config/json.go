package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/Bridge56751/Pocket-Pricer-replit-sub000/internal/flagx"
)

// duration lets JSON specify intervals either as strings like "3s" or as
// integer nanoseconds.
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(data))
	}
}

// jsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "zero" so the file only overrides what
// it mentions.
type jsonConfig struct {
	APIBaseURL          *string   `json:"api_base_url"`
	HTTPTimeout         *duration `json:"http_timeout"`
	DatabasePath        *string   `json:"database_path"`
	EntitlementAPIKey   *string   `json:"entitlement_api_key"`
	EntitlementBaseURL  *string   `json:"entitlement_base_url"`
	ProEntitlements     []string  `json:"pro_entitlements"`
	OfferingsRetryDelay *duration `json:"offerings_retry_delay"`
	DeviceName          *string   `json:"device_name"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flags. No flag means no JSON is loaded.
func parseJson(cfg *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.HTTPTimeout != nil {
		cfg.HTTPTimeout = jc.HTTPTimeout.Duration
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.EntitlementAPIKey != nil {
		cfg.EntitlementAPIKey = *jc.EntitlementAPIKey
	}
	if jc.EntitlementBaseURL != nil {
		cfg.EntitlementBaseURL = *jc.EntitlementBaseURL
	}
	if jc.ProEntitlements != nil {
		cfg.ProEntitlements = jc.ProEntitlements
	}
	if jc.OfferingsRetryDelay != nil {
		cfg.OfferingsRetryDelay = jc.OfferingsRetryDelay.Duration
	}
	if jc.DeviceName != nil {
		cfg.DeviceName = *jc.DeviceName
	}
	return nil
}
