// internal/platform/resilience/circuit_breaker.go
package resilience

import (
	"sync"
	"time"
)

// State representa el estado del circuit breaker.
type State int

const (
	StateClosed State = iota // Normal operation
	StateOpen                // Cooling down, rejecting requests
)

// CircuitBreaker cuenta fallos consecutivos de un upstream y rechaza llamadas
// durante un periodo de enfriamiento una vez alcanzado el umbral.
//
// One instance lives for the whole process per source client and is shared by
// every in-flight fetch of that client.
type CircuitBreaker struct {
	mu              sync.Mutex
	failures        int
	lastFailureTime time.Time

	maxFailures int
	cooldown    time.Duration
	now         func() time.Time
}

// NewCircuitBreaker crea un breaker que abre tras maxFailures fallos consecutivos
// y vuelve a cerrar cuando han pasado cooldown desde el último fallo.
func NewCircuitBreaker(maxFailures int, cooldown time.Duration) *CircuitBreaker {
	if maxFailures <= 0 {
		maxFailures = DefaultMaxConsecutiveFailures
	}
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &CircuitBreaker{
		maxFailures: maxFailures,
		cooldown:    cooldown,
		now:         time.Now,
	}
}

// WithClock reemplaza la fuente de tiempo (tests).
func (cb *CircuitBreaker) WithClock(now func() time.Time) *CircuitBreaker {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.now = now
	return cb
}

// Allow verifica si una request puede pasar. Once the cooldown has elapsed the
// counter resets to 0 and the breaker closes again.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.failures < cb.maxFailures {
		return true
	}
	if cb.now().Sub(cb.lastFailureTime) >= cb.cooldown {
		cb.failures = 0
		return true
	}
	return false
}

// RecordSuccess registra una operación exitosa.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures = 0
}

// RecordFailure registra una operación fallida.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.failures++
	cb.lastFailureTime = cb.now()
}

// State retorna el estado actual sin mutar el contador.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.failures >= cb.maxFailures && cb.now().Sub(cb.lastFailureTime) < cb.cooldown {
		return StateOpen
	}
	return StateClosed
}

// ConsecutiveFailures retorna el contador actual.
func (cb *CircuitBreaker) ConsecutiveFailures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// NearOpen reports whether a single further failure would open the breaker.
func (cb *CircuitBreaker) NearOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures >= cb.maxFailures-1
}

// Stats retorna estadísticas del circuit breaker.
func (cb *CircuitBreaker) Stats() CircuitBreakerStats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := StateClosed
	if cb.failures >= cb.maxFailures && cb.now().Sub(cb.lastFailureTime) < cb.cooldown {
		state = StateOpen
	}
	return CircuitBreakerStats{
		State:           state,
		FailureCount:    cb.failures,
		LastFailureTime: cb.lastFailureTime,
	}
}

// CircuitBreakerStats contiene estadísticas del circuit breaker.
type CircuitBreakerStats struct {
	State           State
	FailureCount    int
	LastFailureTime time.Time
}

// String retorna una representación legible del estado.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
