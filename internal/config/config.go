// Package config loads todoquery settings from defaults, an optional YAML
// file and TODOQUERY_ environment variables, in that order of precedence.
package config

import "time"

// Config holds all configuration for the program.
type Config struct {
	API   APIConfig   `koanf:"api"`
	Query QueryConfig `koanf:"query"`
	Log   LogConfig   `koanf:"log"`
	UI    UIConfig    `koanf:"ui"`
}

// APIConfig holds settings for the jsonplaceholder client.
type APIConfig struct {
	BaseURL        string               `koanf:"base_url"`
	Delay          time.Duration        `koanf:"delay"`
	Timeout        time.Duration        `koanf:"timeout"`
	RateLimit      RateLimitConfig      `koanf:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// RateLimitConfig configures a token bucket. Zero RequestsPerSecond disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`
}

// CircuitBreakerConfig holds circuit breaker settings.
type CircuitBreakerConfig struct {
	MaxFailures int           `koanf:"max_failures"`
	Timeout     time.Duration `koanf:"timeout"`
}

// QueryConfig tunes the query cache.
type QueryConfig struct {
	StaleTime   time.Duration `koanf:"stale_time"`
	GCTime      time.Duration `koanf:"gc_time"`
	Retry       int           `koanf:"retry"`
	RetryDelay  time.Duration `koanf:"retry_delay"`
	Parallelism int           `koanf:"parallelism"`
}

// LogConfig holds structured logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	File   string `koanf:"file"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Theme string `koanf:"theme"`
}
