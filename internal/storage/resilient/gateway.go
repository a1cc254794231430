// Package resilient decorates a persistence gateway with retry and
// circuit breaking. Retry policy deliberately lives here, at the I/O
// boundary, and nowhere inside the engine packages.
package resilient

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/lernpfad/internal/domain"
	"github.com/felixgeelhaar/lernpfad/internal/study"
)

// Gateway wraps another gateway with resilience patterns from fortify
type Gateway struct {
	inner   study.Gateway
	breaker circuitbreaker.CircuitBreaker[any]
	retrier retry.Retry[any]
	logger  *slog.Logger
}

var _ study.Gateway = (*Gateway)(nil)

// Config holds tuning for the resilient gateway wrapper
type Config struct {
	// MaxAttempts caps retry attempts per operation (default: 3)
	MaxAttempts int

	// InitialDelay is the first retry backoff (default: 100ms)
	InitialDelay time.Duration

	// Logger for resilience events
	Logger *slog.Logger
}

// DefaultConfig returns sensible defaults for local storage backends
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
	}
}

// New wraps a gateway with retry and a circuit breaker
func New(inner study.Gateway, cfg Config) *Gateway {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.InitialDelay <= 0 {
		cfg.InitialDelay = 100 * time.Millisecond
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	g := &Gateway{inner: inner, logger: logger}

	g.breaker = circuitbreaker.New[any](circuitbreaker.Config{
		MaxRequests: 2,
		Interval:    10 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts circuitbreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(from, to circuitbreaker.State) {
			g.logger.Warn("storage circuit breaker state change",
				"from", from.String(),
				"to", to.String())
		},
	})

	g.retrier = retry.New[any](retry.Config{
		MaxAttempts:   cfg.MaxAttempts,
		InitialDelay:  cfg.InitialDelay,
		MaxDelay:      2 * time.Second,
		Multiplier:    2.0,
		BackoffPolicy: retry.BackoffExponential,
		Jitter:        true,
		IsRetryable:   isRetryable,
	})

	return g
}

// isRetryable excludes cancellation; storage failures are otherwise
// assumed transient.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return true
}

func (g *Gateway) execute(ctx context.Context, op func(ctx context.Context) (any, error)) (any, error) {
	return g.breaker.Execute(ctx, func(ctx context.Context) (any, error) {
		return g.retrier.Do(ctx, op)
	})
}

// LoadCourses delegates with retry and circuit breaking
func (g *Gateway) LoadCourses(ctx context.Context) ([]*domain.Course, error) {
	v, err := g.execute(ctx, func(ctx context.Context) (any, error) {
		return g.inner.LoadCourses(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]*domain.Course), nil
}

// SaveCourses delegates with retry and circuit breaking
func (g *Gateway) SaveCourses(ctx context.Context, courses []*domain.Course) error {
	_, err := g.execute(ctx, func(ctx context.Context) (any, error) {
		return nil, g.inner.SaveCourses(ctx, courses)
	})
	return err
}

// LoadUserStats delegates with retry and circuit breaking
func (g *Gateway) LoadUserStats(ctx context.Context) (domain.UserStats, error) {
	v, err := g.execute(ctx, func(ctx context.Context) (any, error) {
		return g.inner.LoadUserStats(ctx)
	})
	if err != nil {
		return domain.UserStats{}, err
	}
	return v.(domain.UserStats), nil
}

// SaveUserStats delegates with retry and circuit breaking
func (g *Gateway) SaveUserStats(ctx context.Context, stats domain.UserStats) error {
	_, err := g.execute(ctx, func(ctx context.Context) (any, error) {
		return nil, g.inner.SaveUserStats(ctx, stats)
	})
	return err
}
