package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// Validate checks the configuration and joins every problem found.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.API.BaseURL)
	switch {
	case strings.TrimSpace(c.API.BaseURL) == "":
		errs = append(errs, errors.New("api.base_url must not be empty"))
	case err != nil:
		errs = append(errs, fmt.Errorf("api.base_url: %w", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs = append(errs, fmt.Errorf("api.base_url must be http or https, got %q", c.API.BaseURL))
	}

	if c.API.Delay < 0 {
		errs = append(errs, fmt.Errorf("api.delay must be >= 0, got %s", c.API.Delay))
	}
	if c.API.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("api.timeout must be > 0, got %s", c.API.Timeout))
	}
	if c.API.RateLimit.RequestsPerSecond < 0 {
		errs = append(errs, fmt.Errorf("api.rate_limit.requests_per_second must be >= 0, got %v", c.API.RateLimit.RequestsPerSecond))
	}
	if c.API.RateLimit.RequestsPerSecond > 0 && c.API.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("api.rate_limit.burst must be >= 1, got %d", c.API.RateLimit.Burst))
	}
	if c.API.CircuitBreaker.MaxFailures < 0 {
		errs = append(errs, fmt.Errorf("api.circuit_breaker.max_failures must be >= 0, got %d", c.API.CircuitBreaker.MaxFailures))
	}

	if c.Query.StaleTime < 0 {
		errs = append(errs, fmt.Errorf("query.stale_time must be >= 0, got %s", c.Query.StaleTime))
	}
	if c.Query.GCTime < 0 {
		errs = append(errs, fmt.Errorf("query.gc_time must be >= 0, got %s", c.Query.GCTime))
	}
	if c.Query.Retry < 0 {
		errs = append(errs, fmt.Errorf("query.retry must be >= 0, got %d", c.Query.Retry))
	}
	if c.Query.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("query.parallelism must be >= 1, got %d", c.Query.Parallelism))
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
