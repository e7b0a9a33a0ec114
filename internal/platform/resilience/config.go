package resilience

import "time"

// Valores por defecto del controlador de resiliencia.
const (
	DefaultMaxConsecutiveFailures = 5
	DefaultCooldown               = 60 * time.Second
	DefaultMaxAttempts            = 3
	DefaultRateLimitDelayStep     = 700 * time.Millisecond
	DefaultRateLimitDelayCap      = 2 * time.Second
	DefaultServerErrorDelayStep   = 500 * time.Millisecond
	DefaultServerErrorDelayCap    = 1500 * time.Millisecond
)

// Config agrupa los umbrales del breaker y la política de reintentos por ítem.
type Config struct {
	MaxConsecutiveFailures int           `yaml:"max_consecutive_failures"`
	Cooldown               time.Duration `yaml:"cooldown"`
	MaxAttempts            int           `yaml:"max_attempts"`
	RateLimitDelayStep     time.Duration `yaml:"rate_limit_delay_step"`
	RateLimitDelayCap      time.Duration `yaml:"rate_limit_delay_cap"`
	ServerErrorDelayStep   time.Duration `yaml:"server_error_delay_step"`
	ServerErrorDelayCap    time.Duration `yaml:"server_error_delay_cap"`
}

// DefaultConfig retorna la configuración por defecto.
func DefaultConfig() Config {
	return Config{
		MaxConsecutiveFailures: DefaultMaxConsecutiveFailures,
		Cooldown:               DefaultCooldown,
		MaxAttempts:            DefaultMaxAttempts,
		RateLimitDelayStep:     DefaultRateLimitDelayStep,
		RateLimitDelayCap:      DefaultRateLimitDelayCap,
		ServerErrorDelayStep:   DefaultServerErrorDelayStep,
		ServerErrorDelayCap:    DefaultServerErrorDelayCap,
	}
}

// NewBreaker construye un CircuitBreaker con los umbrales de c.
func (c Config) NewBreaker() *CircuitBreaker {
	return NewCircuitBreaker(c.MaxConsecutiveFailures, c.Cooldown)
}

func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.MaxConsecutiveFailures <= 0 {
		c.MaxConsecutiveFailures = d.MaxConsecutiveFailures
	}
	if c.Cooldown <= 0 {
		c.Cooldown = d.Cooldown
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = d.MaxAttempts
	}
	// zero delay steps are valid (tests)
	if c.RateLimitDelayStep < 0 {
		c.RateLimitDelayStep = d.RateLimitDelayStep
	}
	if c.RateLimitDelayCap < c.RateLimitDelayStep {
		c.RateLimitDelayCap = c.RateLimitDelayStep
	}
	if c.ServerErrorDelayStep < 0 {
		c.ServerErrorDelayStep = d.ServerErrorDelayStep
	}
	if c.ServerErrorDelayCap < c.ServerErrorDelayStep {
		c.ServerErrorDelayCap = c.ServerErrorDelayStep
	}
	return c
}
