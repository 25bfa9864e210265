package checker

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/berckan/gamertag/internal/logger"
	"github.com/berckan/gamertag/internal/metrics"
	"github.com/berckan/gamertag/internal/models"
	"github.com/berckan/gamertag/internal/reservation"
)

const (
	// RequestInterval keeps the run under the endpoint limit of
	// 10 requests per 15 seconds and 50 requests per 300 seconds
	RequestInterval = 1500 * time.Millisecond
	// RateLimitBackoff is the pause after a 429 response
	RateLimitBackoff = 15 * time.Second
)

// TextCodeUnauthorized marks the error that aborts a run on a 401
const TextCodeUnauthorized = "CHECKER_UNAUTHORIZED"

// Reserver submits one reservation request
type Reserver interface {
	Reserve(ctx context.Context, gamertag string) (reservation.Response, error)
}

// Sink records gamertags confirmed available
type Sink interface {
	Append(gamertag string) error
}

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Checker handles gamertag availability checks, one request at a time
type Checker struct {
	reserver Reserver
	sink     Sink
	logger   *slog.Logger
	metrics  *metrics.Metrics
	sleep    SleepFunc
	now      func() time.Time
}

// Option configures a Checker
type Option func(*Checker)

// WithLogger sets the logger for per-gamertag results
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records run counters on m
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Checker) { c.metrics = m }
}

// WithSleep replaces the pause used between requests and after a 429
func WithSleep(fn SleepFunc) Option {
	return func(c *Checker) {
		if fn != nil {
			c.sleep = fn
		}
	}
}

// New creates a new gamertag checker
func New(reserver Reserver, sink Sink, opts ...Option) *Checker {
	c := &Checker{
		reserver: reserver,
		sink:     sink,
		logger:   logger.Discard(),
		sleep:    Sleep,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check submits a reservation request for a single gamertag and classifies
// the response. It never touches the sink and never sleeps
func (c *Checker) Check(ctx context.Context, gamertag string) models.CheckResult {
	result := models.CheckResult{Gamertag: gamertag}

	resp, err := c.reserver.Reserve(ctx, gamertag)
	result.CheckedAt = c.now()
	if err != nil {
		result.Status = models.StatusError
		result.Error = err.Error()
		c.metrics.ObserveCheck(result.Status, 0)
		return result
	}

	result.StatusCode = resp.StatusCode
	result.Status = classify(resp.StatusCode)

	switch result.Status {
	case models.StatusBadRequest, models.StatusUnauthorized, models.StatusUnclassified:
		result.Body = string(resp.Body)
	case models.StatusRateLimited:
		info, err := reservation.ParseRateLimit(resp.Body)
		if err != nil {
			result.Body = string(resp.Body)
			result.Error = err.Error()
		} else {
			result.RateLimit = &info
		}
	}

	c.metrics.ObserveCheck(result.Status, resp.Duration)
	return result
}

// CheckAll checks every gamertag in order and returns how many were found
// available. Available gamertags are appended to the sink as soon as they are
// found. A rate-limited gamertag is skipped after the backoff, not retried.
//
// The run stops early with an error when the credentials are rejected, when
// an available gamertag cannot be saved, or when ctx is cancelled. The count
// returned alongside the error covers the gamertags saved so far
func (c *Checker) CheckAll(ctx context.Context, gamertags []string) (int, error) {
	count := 0

	for i, gamertag := range gamertags {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		result := c.Check(ctx, gamertag)
		c.report(result)

		switch result.Status {
		case models.StatusAvailable:
			if err := c.sink.Append(gamertag); err != nil {
				c.logger.Error("failed to save available gamertag",
					slog.String("gamertag", gamertag),
					slog.Any("error", err),
				)
				return count, err
			}
			count++
			c.metrics.IncrementAvailable()

		case models.StatusUnauthorized:
			return count, unauthorizedError(result)

		case models.StatusRateLimited:
			c.metrics.AddBackoff(RateLimitBackoff)
			if err := c.sleep(ctx, RateLimitBackoff); err != nil {
				return count, err
			}

		case models.StatusError:
			if err := ctx.Err(); err != nil {
				return count, err
			}
		}

		if i == len(gamertags)-1 {
			break
		}
		if err := c.sleep(ctx, RequestInterval); err != nil {
			return count, err
		}
	}

	return count, nil
}

func classify(statusCode int) models.CheckStatus {
	switch statusCode {
	case http.StatusOK:
		return models.StatusAvailable
	case http.StatusConflict:
		return models.StatusUnavailable
	case http.StatusBadRequest:
		return models.StatusBadRequest
	case http.StatusUnauthorized:
		return models.StatusUnauthorized
	case http.StatusTooManyRequests:
		return models.StatusRateLimited
	default:
		return models.StatusUnclassified
	}
}

func (c *Checker) report(result models.CheckResult) {
	attrs := []any{slog.String("gamertag", result.Gamertag)}

	switch result.Status {
	case models.StatusAvailable:
		c.logger.Info("gamertag is available", attrs...)
	case models.StatusUnavailable:
		c.logger.Info("gamertag is unavailable", attrs...)
	case models.StatusBadRequest:
		c.logger.Warn("failed to check gamertag availability",
			append(attrs, slog.Int("status_code", result.StatusCode), slog.String("body", result.Body))...)
	case models.StatusUnauthorized:
		c.logger.Error("failed to check gamertag availability, not authorized",
			append(attrs, slog.Int("status_code", result.StatusCode), slog.String("body", result.Body))...)
	case models.StatusRateLimited:
		attrs = append(attrs, slog.Duration("sleep", RateLimitBackoff))
		if rl := result.RateLimit; rl != nil {
			attrs = append(attrs,
				slog.Int("current_requests", rl.CurrentRequests),
				slog.Int("max_requests", rl.MaxRequests),
				slog.Int("period_seconds", rl.PeriodInSeconds),
			)
		} else {
			attrs = append(attrs, slog.String("body", result.Body), slog.String("error", result.Error))
		}
		c.logger.Warn("rate limited, sleeping", attrs...)
	case models.StatusError:
		c.logger.Error("reservation request failed", append(attrs, slog.String("error", result.Error))...)
	default:
		c.logger.Warn("unexpected reservation response",
			append(attrs, slog.Int("status_code", result.StatusCode), slog.String("body", result.Body))...)
	}
}

func unauthorizedError(result models.CheckResult) error {
	return goerrors.New("checker: reservation endpoint rejected the authorization token", goerrors.CategoryAuth).
		WithCode(http.StatusUnauthorized).
		WithTextCode(TextCodeUnauthorized).
		WithMetadata(map[string]any{
			"gamertag": result.Gamertag,
			"body":     result.Body,
		})
}

// IsUnauthorized reports whether err is the abort raised for a 401 response
func IsUnauthorized(err error) bool {
	var rich *goerrors.Error
	return goerrors.As(err, &rich) && rich.TextCode == TextCodeUnauthorized
}

// Sleep waits for d, returning early with ctx's error when it is cancelled
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// IsInterrupted reports whether err only means the run was cancelled
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}
