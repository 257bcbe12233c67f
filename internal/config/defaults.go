package config

const (
	defaultBaseURL = "https://jsonplaceholder.typicode.com"

	defaultCircuitBreakerMaxFailures = 5
	defaultParallelism               = 4
)

// defaults returns the lowest configuration layer.
func defaults() map[string]any {
	return map[string]any{
		"api.base_url":                       defaultBaseURL,
		"api.delay":                          "2s",
		"api.timeout":                        "30s",
		"api.rate_limit.requests_per_second": 0,
		"api.rate_limit.burst":               1,
		"api.circuit_breaker.max_failures":   defaultCircuitBreakerMaxFailures,
		"api.circuit_breaker.timeout":        "30s",

		"query.stale_time":  "0s",
		"query.gc_time":     "5m",
		"query.retry":       0,
		"query.retry_delay": "1s",
		"query.parallelism": defaultParallelism,

		"log.level":  "warn",
		"log.format": "console",
		"log.file":   "",

		"ui.theme": "classic",
	}
}
