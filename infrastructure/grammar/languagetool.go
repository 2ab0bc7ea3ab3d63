// Package grammar proxies grammar checks to a LanguageTool server.
package grammar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"insightseo/application/ports"
	pkgerrors "insightseo/pkg/errors"
)

const (
	checkPath        = "/v2/check"
	maxResponseBytes = 10 << 20
)

// Config holds the client and circuit breaker settings
type Config struct {
	BaseURL string
	Timeout time.Duration

	MaxRequests uint32
	Interval    time.Duration
	OpenTimeout time.Duration
	// ReadyToTrip trips once MinRequests have been seen and the failure
	// ratio reaches FailureThreshold
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultConfig returns a configuration pointing at a local LanguageTool
func DefaultConfig() Config {
	return Config{
		BaseURL:          "http://localhost:8081",
		Timeout:          10 * time.Second,
		MaxRequests:      1,
		Interval:         60 * time.Second,
		OpenTimeout:      30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// Client calls the LanguageTool HTTP API through a circuit breaker
type Client struct {
	endpoint   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

type checkResponse struct {
	Matches []json.RawMessage `json:"matches"`
}

// rejectedError is a 4xx answer. The service is up, so it does not count
// against the breaker.
type rejectedError struct {
	status int
	body   string
}

func (e *rejectedError) Error() string {
	return fmt.Sprintf("languagetool rejected the request with status %d: %s", e.status, e.body)
}

// NewClient creates a LanguageTool client. A nil httpClient gets one with the
// configured timeout.
func NewClient(cfg Config, httpClient *http.Client, logger *zap.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid languagetool url %q", cfg.BaseURL)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Client{
		endpoint:   base.String() + checkPath,
		httpClient: httpClient,
		logger:     logger,
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "languagetool",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			var rejected *rejectedError
			return err == nil || errors.As(err, &rejected) || errors.Is(err, context.Canceled)
		},
	})

	return c, nil
}

// Check sends text to LanguageTool and returns its matches untouched. Every
// failure, including an open breaker, is a GrammarServiceUnavailable error.
func (c *Client) Check(ctx context.Context, text, language string) ([]json.RawMessage, error) {
	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, text, language)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.logger.Warn("Grammar check short-circuited", zap.String("state", c.breaker.State().String()))
		}
		return nil, pkgerrors.NewGrammarServiceUnavailableError(err)
	}

	matches, _ := result.([]json.RawMessage)
	if matches == nil {
		matches = []json.RawMessage{}
	}
	return matches, nil
}

func (c *Client) do(ctx context.Context, text, language string) ([]json.RawMessage, error) {
	form := url.Values{}
	form.Set("text", text)
	form.Set("language", language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build languagetool request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("languagetool request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read languagetool response: %w", err)
	}

	c.logger.Debug("LanguageTool responded",
		zap.Int("status", resp.StatusCode),
		zap.String("language", language),
		zap.Duration("duration", time.Since(start)),
	)

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, fmt.Errorf("languagetool returned status %d", resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, &rejectedError{status: resp.StatusCode, body: strings.TrimSpace(string(body))}
	}

	var decoded checkResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode languagetool response: %w", err)
	}
	return decoded.Matches, nil
}

// Healthy reports whether the breaker lets calls through
func (c *Client) Healthy() bool {
	return c.breaker.State() != gobreaker.StateOpen
}

// State returns the breaker state for readiness reporting
func (c *Client) State() string {
	return c.breaker.State().String()
}

var _ ports.GrammarChecker = (*Client)(nil)
