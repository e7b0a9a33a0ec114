// Package batch hydrates lists of native identifiers into records with bounded
// concurrency, partial-failure tolerance and early-exit heuristics.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"curatorx/internal/platform/logx"
)

// Health expone el estado del breaker que el orquestador consulta entre lotes.
// *resilience.CircuitBreaker satisfies it.
type Health interface {
	ConsecutiveFailures() int
	NearOpen() bool
}

// ExitReason indica por qué terminó una ejecución.
type ExitReason string

const (
	ExitExhausted       ExitReason = "exhausted"
	ExitSuccessReached  ExitReason = "success_threshold"
	ExitLowSuccessRate  ExitReason = "low_success_rate"
	ExitBreakerNearOpen ExitReason = "breaker_near_open"
	ExitCancelled       ExitReason = "cancelled"
)

// Stats resume una ejecución del orquestador.
type Stats struct {
	Attempted int
	Succeeded int
	Failed    int
	Batches   int
	Exit      ExitReason
	Duration  time.Duration
}

// SuccessRate returns Succeeded/Attempted, or 0 when nothing was attempted.
func (s Stats) SuccessRate() float64 {
	if s.Attempted == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Attempted)
}

// FetchFunc hidrata un identificador nativo.
type FetchFunc[K comparable, T any] func(ctx context.Context, id K) (T, error)

// Orchestrator ejecuta la hidratación por lotes escalonados.
type Orchestrator struct {
	cfg    Config
	health Health
	logger logx.Logger
	sleep  func(ctx context.Context, d time.Duration) error
}

// New crea un orquestador. health may be nil, which disables the breaker-driven
// backoff and exit check.
func New(cfg Config, health Health, logger logx.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:    cfg.Normalize(),
		health: health,
		logger: logger.With("component", "batch"),
		sleep:  sleepCtx,
	}
}

// Config retorna la configuración normalizada.
func (o *Orchestrator) Config() Config {
	return o.cfg
}

// Run fetches ids in batches of cfg.Size and returns whatever was collected.
//
// Item failures are skipped, never propagated. After every batch three exit
// checks run in order: success threshold reached, diminishing returns, and
// breaker one failure from opening. Result order does not follow ids.
func Run[K comparable, T any](ctx context.Context, o *Orchestrator, ids []K, requested int, fetch FetchFunc[K, T]) ([]T, Stats) {
	start := time.Now()
	stats := Stats{Exit: ExitExhausted}
	collected := make([]T, 0, requested)
	threshold := o.cfg.SuccessThreshold(requested)

	for offset := 0; offset < len(ids); offset += o.cfg.Size {
		if offset > 0 {
			if err := o.sleep(ctx, o.interBatchDelay()); err != nil {
				stats.Exit = ExitCancelled
				break
			}
		}
		if ctx.Err() != nil {
			stats.Exit = ExitCancelled
			break
		}

		end := offset + o.cfg.Size
		if end > len(ids) {
			end = len(ids)
		}
		got, failed := runBatch(ctx, o, ids[offset:end], fetch)
		collected = append(collected, got...)

		stats.Batches++
		stats.Attempted += end - offset
		stats.Succeeded += len(got)
		stats.Failed += failed

		if reason, stop := o.shouldStop(stats, len(collected), threshold); stop {
			stats.Exit = reason
			break
		}
	}

	stats.Duration = time.Since(start)
	o.logger.Debug("batch run finished",
		"requested", requested,
		"candidates", len(ids),
		"collected", len(collected),
		"attempted", stats.Attempted,
		"batches", stats.Batches,
		"exit", string(stats.Exit),
		"duration_ms", stats.Duration.Milliseconds(),
	)
	return collected, stats
}

func runBatch[K comparable, T any](ctx context.Context, o *Orchestrator, ids []K, fetch FetchFunc[K, T]) ([]T, int) {
	type outcome struct {
		value T
		err   error
	}
	results := make([]outcome, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id K) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					results[i].err = fmt.Errorf("fetch %v panicked: %v", id, r)
				}
			}()

			if err := o.sleep(ctx, time.Duration(i)*o.cfg.StaggerDelay); err != nil {
				results[i].err = err
				return
			}
			v, err := fetch(ctx, id)
			results[i] = outcome{value: v, err: err}
		}(i, id)
	}
	wg.Wait()

	got := make([]T, 0, len(ids))
	failed := 0
	for i, r := range results {
		if r.err != nil {
			failed++
			o.logger.Debug("item skipped", "id", ids[i], "error", r.err.Error())
			continue
		}
		got = append(got, r.value)
	}
	return got, failed
}

// interBatchDelay = BaseDelay * (1 + min(failures, 3) * 0.5)
func (o *Orchestrator) interBatchDelay() time.Duration {
	failures := 0
	if o.health != nil {
		failures = o.health.ConsecutiveFailures()
	}
	if failures > 3 {
		failures = 3
	}
	return time.Duration(float64(o.cfg.BaseDelay) * (1 + float64(failures)*0.5))
}

func (o *Orchestrator) shouldStop(s Stats, collected, threshold int) (ExitReason, bool) {
	if collected >= threshold {
		return ExitSuccessReached, true
	}
	if s.Succeeded >= o.cfg.MinSuccessesForRate &&
		s.Attempted >= o.cfg.MinAttemptsForRate &&
		s.SuccessRate() < o.cfg.MinSuccessRate {
		return ExitLowSuccessRate, true
	}
	if o.health != nil && o.health.NearOpen() {
		return ExitBreakerNearOpen, true
	}
	return "", false
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
