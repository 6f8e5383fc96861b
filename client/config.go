package client

import (
	"fmt"
	"time"

	"github.com/kbukum/apikit/auth"
	"github.com/kbukum/apikit/credential"
	"github.com/kbukum/apikit/logger"
	"github.com/kbukum/apikit/resilience"
	"github.com/kbukum/apikit/transport"
	"github.com/kbukum/apikit/validation"
)

// Config configures an API client.
type Config struct {
	// Name identifies the client in logs and health reports.
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is the base URL prepended to all resource paths. Required.
	BaseURL string `yaml:"base_url" mapstructure:"base_url" validate:"required"`

	// MaxRetries is the retry ceiling. Values <= 0 fall back to 3.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`

	// RetryBaseDelay is the backoff unit: retry n waits
	// RetryBaseDelay * 2^n. Defaults to one second.
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" mapstructure:"retry_base_delay"`

	// RetryJitter adds +-fraction randomness to backoff (0.0 to 1.0).
	// Zero keeps the deterministic schedule.
	RetryJitter float64 `yaml:"retry_jitter" mapstructure:"retry_jitter" validate:"min=0,max=1"`

	// Timeout bounds one attempt end to end. Defaults to 5 minutes.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// ExpiryBuffer is how long before expiry cached tokens are refreshed.
	// Defaults to 5 minutes.
	ExpiryBuffer time.Duration `yaml:"expiry_buffer" mapstructure:"expiry_buffer"`

	// SingleFlightTokens collapses concurrent token refreshes per
	// audience into one acquisition.
	SingleFlightTokens bool `yaml:"single_flight_tokens" mapstructure:"single_flight_tokens"`

	// Headers are default headers applied to every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// TLS configures TLS for the transport pool.
	TLS *transport.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Schemes are the authentication schemes, applied in order.
	Schemes []auth.Scheme `yaml:"-" mapstructure:"-"`

	// Credentials produces bearer credentials for token schemes.
	// Required when Schemes contains an auth.Bearer.
	Credentials credential.Source `yaml:"-" mapstructure:"-"`

	// CircuitBreaker enables a circuit breaker around attempts. Nil
	// disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`

	// Logger is the log sink. Nil discards.
	Logger *logger.Logger `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "apiclient"
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = resilience.DefaultMaxRetries
	}
	if c.RetryBaseDelay <= 0 {
		c.RetryBaseDelay = resilience.DefaultBaseDelay
	}
	if c.Timeout <= 0 {
		c.Timeout = transport.DefaultTimeout
	}
	if c.ExpiryBuffer <= 0 {
		c.ExpiryBuffer = auth.DefaultExpiryBuffer
	}
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}
	if err := c.TLS.Validate(); err != nil {
		return err
	}
	for _, s := range c.Schemes {
		if _, ok := s.(auth.Bearer); ok && c.Credentials == nil {
			return fmt.Errorf("client: bearer scheme configured without a credential source")
		}
	}
	return nil
}
