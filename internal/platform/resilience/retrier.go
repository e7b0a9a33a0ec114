// internal/platform/resilience/retrier.go
package resilience

import (
	"context"
	"time"

	"curatorx/internal/platform/errors"
	"curatorx/internal/platform/logx"
)

// Retrier aplica la política de reintentos por ítem y reporta cada intento al breaker.
//
// Before every attempt the breaker is consulted; an open breaker fails the call
// immediately with ErrUpstreamUnavailable and no network round trip. Retryable
// failures (429, 5xx, transport errors) count against the breaker; not-found and
// other 4xx answers are returned as-is after a single attempt and leave the
// breaker untouched.
type Retrier struct {
	breaker *CircuitBreaker
	cfg     Config
	logger  logx.Logger
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewRetrier crea un Retrier sobre breaker. A nil breaker disables gating.
func NewRetrier(breaker *CircuitBreaker, cfg Config, logger logx.Logger) *Retrier {
	return &Retrier{
		breaker: breaker,
		cfg:     cfg.normalized(),
		logger:  logger.With("component", "retrier"),
		sleep:   sleepCtx,
	}
}

// Breaker retorna el breaker asociado.
func (r *Retrier) Breaker() *CircuitBreaker {
	return r.breaker
}

// Do runs fn until it succeeds, fails permanently or MaxAttempts is reached.
// Exhausted retries return a *errors.FetchFailedError naming nativeID.
func (r *Retrier) Do(ctx context.Context, nativeID string, fn func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		if r.breaker != nil && !r.breaker.Allow() {
			r.logger.Debug("circuit open, failing fast", "id", nativeID)
			return errors.Wrapf(errors.ErrUpstreamUnavailable, "circuit open, skipping %s", nativeID)
		}

		err := fn(ctx)
		if err == nil {
			if r.breaker != nil {
				r.breaker.RecordSuccess()
			}
			return nil
		}

		if ctx.Err() != nil {
			return errors.Wrapf(ctx.Err(), "fetch %s", nativeID)
		}
		if !errors.IsRetryable(err) {
			return err
		}

		if r.breaker != nil {
			r.breaker.RecordFailure()
		}
		lastErr = err
		r.logger.Debug("fetch attempt failed",
			"id", nativeID,
			"attempt", attempt,
			"max_attempts", r.cfg.MaxAttempts,
			"error", err.Error(),
		)

		if attempt == r.cfg.MaxAttempts {
			break
		}
		if err := r.sleep(ctx, r.Delay(attempt, err)); err != nil {
			return errors.Wrapf(err, "fetch %s", nativeID)
		}
	}

	return &errors.FetchFailedError{NativeID: nativeID, Attempts: r.cfg.MaxAttempts, Last: lastErr}
}

// Delay returns the wait after the given failed attempt (1-based): rate-limit
// answers back off by RateLimitDelayStep per attempt, everything else by
// ServerErrorDelayStep, each with its own cap.
func (r *Retrier) Delay(attempt int, err error) time.Duration {
	step, limit := r.cfg.ServerErrorDelayStep, r.cfg.ServerErrorDelayCap
	if errors.IsRateLimited(err) {
		step, limit = r.cfg.RateLimitDelayStep, r.cfg.RateLimitDelayCap
	}
	d := step * time.Duration(attempt)
	if d > limit {
		d = limit
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
