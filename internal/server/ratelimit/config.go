package ratelimit

import (
	"net/http"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	EndpointConfigs []EndpointConfig
}

// DefaultConfig limits the dashboard routes that fan out to the Gateway. The
// Gateway runs on a free tier that sleeps and throttles, so bursts of scans or
// refreshes are refused locally rather than queued against it.
func DefaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    600,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Expensive: AI and resume extraction
		{Path: "/resume/scan", Method: http.MethodPost, Limit: 10, Window: time.Minute, Burst: 2},
		{Path: "/analysis/", Method: http.MethodPost, Limit: 10, Window: time.Minute, Burst: 2},

		// Scrapers and multi-request refreshes
		{Path: "/jobs/search", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/profile/refresh", Method: http.MethodPost, Limit: 30, Window: time.Minute, Burst: 5},
		{Path: "/resume/apply", Method: http.MethodPost, Limit: 10, Window: time.Minute, Burst: 2},
	}
}
