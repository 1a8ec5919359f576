// Package config provides the tendem-mcp configuration.
package config

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/tendem-mcp/client"
	"github.com/effective-security/x/configloader"
)

// Environment variables
const (
	EnvAPIKey = "TENDEM_API_KEY"
	EnvAPIURL = "TENDEM_API_URL"
	EnvDebug  = "TENDEM_DEBUG"
)

// ErrMissingAPIKey is returned by Validate when no API key is set
var ErrMissingAPIKey = client.ErrMissingAPIKey

// Config for the Tendem client
type Config struct {
	// APIKey is the bearer token, TENDEM_API_KEY takes precedence
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	// BaseURL of the API, TENDEM_API_URL takes precedence
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	// Debug enables request logging
	Debug bool `json:"debug,omitempty" yaml:"debug,omitempty"`
	// MaxRetries for idempotent reads, nil uses the client default
	MaxRetries *int `json:"max_retries,omitempty" yaml:"max_retries,omitempty"`
}

// Load returns the configuration from the optional file,
// overridden by the environment.
func Load(file string) (*Config, error) {
	cfg := new(Config)
	if file != "" {
		if err := configloader.UnmarshalAndExpand(file, cfg); err != nil {
			return nil, errors.Wrapf(err, "failed to load config: %s", file)
		}
	}
	cfg.ApplyEnv(os.LookupEnv)
	if cfg.BaseURL == "" {
		cfg.BaseURL = client.DefaultBaseURL
	}
	return cfg, nil
}

// ApplyEnv overrides the values set in the environment
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.APIKey = v
	}
	if v, ok := lookup(EnvAPIURL); ok && v != "" {
		c.BaseURL = v
	}
	if v, ok := lookup(EnvDebug); ok {
		c.Debug = IsTrue(v)
	}
}

// Validate returns an error if the client can not be created
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.WithStack(ErrMissingAPIKey)
	}
	if c.MaxRetries != nil && *c.MaxRetries < 0 {
		return errors.Newf("max_retries must not be negative: %d", *c.MaxRetries)
	}
	return nil
}

// ClientOptions returns the client options for the configuration
func (c *Config) ClientOptions() []client.Option {
	opts := []client.Option{
		client.WithBaseURL(c.BaseURL),
		client.WithDebug(c.Debug),
	}
	if c.MaxRetries != nil {
		opts = append(opts, client.WithRetry(*c.MaxRetries, client.DefaultRetryInterval))
	}
	return opts
}

// NewClient validates the configuration and returns the HTTP client
func (c *Config) NewClient(opts ...client.Option) (*client.HTTPClient, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return client.New(c.APIKey, append(c.ClientOptions(), opts...)...)
}

// IsTrue reports whether the flag value is one of 1, true or yes
func IsTrue(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
