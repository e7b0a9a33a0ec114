package registry

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Type-safe extraction helpers for the cfg.Custom map of a source. Values may
// come from YAML (typed), JSON (float64) or environment variables (strings),
// so every numeric helper also accepts a numeric string.

// Claves habituales de Custom.
const (
	KeyAPIKey      = "api_key"
	KeyUsername    = "username"
	KeyPassword    = "password"
	KeyMaxPages    = "max_pages"
	KeyConcurrency = "concurrency"
	KeyCacheTTL    = "cache_ttl"
	KeyContact     = "contact"
	KeyIDBaseURL   = "id_base_url"
	KeyMaxDepth    = "max_depth"
)

// GetStringConfig extracts a non-empty string value with a default fallback.
func GetStringConfig(custom map[string]interface{}, key, defaultValue string) string {
	if custom == nil {
		return defaultValue
	}
	if val, ok := custom[key].(string); ok && strings.TrimSpace(val) != "" {
		return strings.TrimSpace(val)
	}
	return defaultValue
}

// GetIntConfig extracts an int value from int, int64, float64 or a numeric string.
func GetIntConfig(custom map[string]interface{}, key string, defaultValue int) int {
	if custom == nil {
		return defaultValue
	}
	switch v := custom[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return defaultValue
}

// GetBoolConfig extracts a bool value from a bool or a strconv.ParseBool string.
func GetBoolConfig(custom map[string]interface{}, key string, defaultValue bool) bool {
	if custom == nil {
		return defaultValue
	}
	switch v := custom[key].(type) {
	case bool:
		return v
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return defaultValue
}

// GetDurationConfig extracts a duration from a time.Duration, nanoseconds
// (int, int64, float64) or a time.ParseDuration string such as "1h".
func GetDurationConfig(custom map[string]interface{}, key string, defaultValue time.Duration) time.Duration {
	if custom == nil {
		return defaultValue
	}
	switch v := custom[key].(type) {
	case time.Duration:
		return v
	case int:
		return time.Duration(v)
	case int64:
		return time.Duration(v)
	case float64:
		return time.Duration(v)
	case string:
		if d, err := time.ParseDuration(strings.TrimSpace(v)); err == nil {
			return d
		}
	}
	return defaultValue
}

// ValidateIntRange validates that an int field is within [min, max].
func ValidateIntRange(fieldName string, value, min, max int) error {
	if value < min || value > max {
		return fmt.Errorf("%s must be between %d and %d, got %d", fieldName, min, max, value)
	}
	return nil
}

// ValidatePositiveDuration validates that a duration is positive.
func ValidatePositiveDuration(fieldName string, value time.Duration) error {
	if value <= 0 {
		return fmt.Errorf("%s must be positive, got %v", fieldName, value)
	}
	return nil
}
