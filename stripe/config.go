package stripe

import (
	"fmt"
	"time"
)

// APIVersion is the Stripe API version every request negotiates. stripe-go
// pins the version per SDK release, so bumping the SDK requires bumping this
// literal too (NewClient refuses to start otherwise).
const APIVersion = "2025-10-29.clover"

const (
	defaultMaxNetworkRetries = 2
	defaultTimeout           = 30 * time.Second
)

// Config holds the Stripe client configuration.
type Config struct {
	APIKey            string        `yaml:"api_key" json:"api_key"`
	MaxNetworkRetries int64         `yaml:"max_network_retries" json:"max_network_retries"`
	Timeout           time.Duration `yaml:"timeout" json:"timeout"`
	// BackendURL overrides the Stripe API base URL. Empty in production.
	BackendURL string `yaml:"backend_url" json:"backend_url"`
}

// NewConfig returns a Config for the given secret key with the default
// retry and timeout settings.
func NewConfig(apiKey string) (*Config, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("stripe API secret is required")
	}
	return &Config{
		APIKey:            apiKey,
		MaxNetworkRetries: defaultMaxNetworkRetries,
		Timeout:           defaultTimeout,
	}, nil
}
