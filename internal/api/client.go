// Package api fetches todos and comments from the jsonplaceholder REST API.
//
// Every call waits an artificial delay after the response arrives to make
// loading states visible, and every failure surfaces as a *FetchError whose
// message is the static ErrNotOK text.
//
// Outbound requests pass through, in order:
//
//	Circuit Breaker → Rate Limiter → Request ID → HTTP → Delay → Status check → Decode
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/idilsaglam/todoquery/internal/config"
)

// Client talks to one jsonplaceholder-compatible base URL.
type Client struct {
	httpClient *http.Client
	baseURL    string
	delay      time.Duration
	breaker    *gobreaker.CircuitBreaker[struct{}]
	limiter    *rate.Limiter // nil when rate limiting is disabled
	logger     zerolog.Logger
}

// New builds a Client from cfg. A MaxFailures of 0 keeps the breaker closed forever.
func New(cfg config.APIConfig, logger zerolog.Logger) *Client {
	maxFailures := cfg.CircuitBreaker.MaxFailures
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        "jsonplaceholder",
		MaxRequests: 1,
		Timeout:     cfg.CircuitBreaker.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return maxFailures > 0 && counts.ConsecutiveFailures >= toUint32(maxFailures)
		},
		IsSuccessful: func(err error) bool {
			// a caller going away says nothing about the upstream
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	})

	var limiter *rate.Limiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), cfg.RateLimit.Burst)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		delay:      cfg.Delay,
		breaker:    cb,
		limiter:    limiter,
		logger:     logger,
	}
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string { return c.baseURL }

// getJSON issues a GET for path?query and decodes a successful body into out.
func (c *Client) getJSON(ctx context.Context, op, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.fetch(ctx, op, target, out)
	})
	if err == nil {
		return nil
	}

	var fe *FetchError
	if errors.As(err, &fe) {
		return err
	}
	// breaker rejections (open / half-open saturation)
	c.logger.Debug().Str("op", op).Err(err).Msg("request rejected")
	return &FetchError{Op: op, URL: target, Cause: err}
}

func (c *Client) fetch(ctx context.Context, op, target string, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &FetchError{Op: op, URL: target, Cause: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return &FetchError{Op: op, URL: target, Cause: err}
	}
	requestID := ulid.Make().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().Str("op", op).Str("request_id", requestID).Err(err).Msg("request failed")
		return &FetchError{Op: op, URL: target, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	// simulated latency, applied before the status is looked at
	if err := sleep(ctx, c.delay); err != nil {
		return &FetchError{Op: op, URL: target, StatusCode: resp.StatusCode, Cause: err}
	}

	log := c.logger.Debug().
		Str("op", op).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		log.Msg("response not ok")
		return &FetchError{
			Op:         op,
			URL:        target,
			StatusCode: resp.StatusCode,
			Cause:      fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Err(err).Msg("decode failed")
		return &FetchError{Op: op, URL: target, StatusCode: resp.StatusCode, Cause: fmt.Errorf("decode body: %w", err)}
	}
	log.Msg("request finished")
	return nil
}

// sleep waits d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
