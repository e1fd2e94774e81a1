// Package finnhub provides a client for the Finnhub stock market API.
package finnhub

import (
	"fmt"
	"os"
	"time"
)

// DefaultBaseURL is the public Finnhub REST endpoint.
const DefaultBaseURL = "https://finnhub.io/api/v1"

// Config holds configuration for the Finnhub API client.
type Config struct {
	APIKey  string        // API key sent as the token query parameter
	BaseURL string        // Base URL for the API (e.g., "https://finnhub.io/api/v1")
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads Finnhub configuration from environment variables.
func LoadConfig() (Config, error) {
	cfg := Config{
		APIKey:  os.Getenv("FINNHUB_API_KEY"),
		BaseURL: os.Getenv("FINNHUB_BASE_URL"),
		Timeout: 10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if raw := os.Getenv("FINNHUB_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse FINNHUB_TIMEOUT %q: %w", raw, err)
		}
		cfg.Timeout = d
	}
	return cfg, nil
}
