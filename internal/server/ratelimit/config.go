// Package ratelimit provides per-client token bucket rate limiting for the HTTP API.
package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig defines the limit of one endpoint tier.
type EndpointConfig struct {
	Path   string        // Path pattern; "{name}" matches one segment, a trailing "/" matches any suffix
	Method string        // HTTP method
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiter settings.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	IdleTTL         time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

// DefaultConfig returns the limits used when no environment overrides are set.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		IdleTTL:         time.Hour,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// LoadConfig reads RATE_LIMIT_* environment variables on top of DefaultConfig.
func LoadConfig() *Config {
	cfg := DefaultConfig()
	cfg.Enabled = getEnvBool("RATE_LIMIT_ENABLED", cfg.Enabled)
	if !cfg.Enabled {
		return &Config{Enabled: false}
	}

	cfg.DefaultLimit = getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", cfg.DefaultLimit)
	cfg.DefaultWindow = getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", cfg.DefaultWindow)
	cfg.CleanupInterval = getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", cfg.CleanupInterval)
	cfg.Whitelist = parseIPList(os.Getenv("RATE_LIMIT_WHITELIST"))
	cfg.Blacklist = parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST"))

	aiLimit := getEnvInt("RATE_LIMIT_AI_LIMIT", 0)
	for i := range cfg.EndpointConfigs {
		if aiLimit > 0 && isAIEndpoint(cfg.EndpointConfigs[i].Path) {
			cfg.EndpointConfigs[i].Limit = aiLimit
		}
	}
	return cfg
}

// DefaultEndpointConfigs returns the per-endpoint tiers. Model-backed endpoints are
// the most expensive and get the tightest limits.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Model-backed
		{Path: "/api/ai/chat", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/api/jobs/match", Method: "POST", Limit: 20, Window: time.Minute, Burst: 5},
		{Path: "/api/jobs/{id}/analysis", Method: "GET", Limit: 20, Window: time.Minute, Burst: 5},

		// Uploads
		{Path: "/api/resumes", Method: "POST", Limit: 10, Window: time.Minute, Burst: 3},

		// Credentials
		{Path: "/api/auth/login", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		{Path: "/api/auth/register", Method: "POST", Limit: 5, Window: time.Minute, Burst: 2},

		// Writes
		{Path: "/api/applications", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/applications/", Method: "PATCH", Limit: 100, Window: time.Minute, Burst: 10},
		{Path: "/api/resumes/current", Method: "PUT", Limit: 60, Window: time.Minute, Burst: 10},
	}
}

func isAIEndpoint(path string) bool {
	return path == "/api/ai/chat" || path == "/api/jobs/match" || strings.HasSuffix(path, "/analysis")
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
