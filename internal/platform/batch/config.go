package batch

import "time"

// Config agrupa los umbrales del orquestador y de la heurística de selección.
// Los valores por defecto son empíricos y se mantienen configurables.
type Config struct {
	// Size is the number of items fetched concurrently per batch.
	Size int `yaml:"size"`

	// BaseDelay is the pause between batches while the upstream is healthy.
	BaseDelay time.Duration `yaml:"base_delay"`

	// StaggerDelay offsets the start of item i within a batch by i*StaggerDelay.
	StaggerDelay time.Duration `yaml:"stagger_delay"`

	// MinSuccessItems and SuccessFraction define the success threshold:
	// stop once collected >= max(MinSuccessItems, SuccessFraction*requested).
	MinSuccessItems int     `yaml:"min_success_items"`
	SuccessFraction float64 `yaml:"success_fraction"`

	// Diminishing-returns exit: stop when success rate < MinSuccessRate with at
	// least MinSuccessesForRate successes over at least MinAttemptsForRate attempts.
	MinSuccessRate      float64 `yaml:"min_success_rate"`
	MinSuccessesForRate int     `yaml:"min_successes_for_rate"`
	MinAttemptsForRate  int     `yaml:"min_attempts_for_rate"`

	// Selection heuristic.
	HeadFraction        float64 `yaml:"head_fraction"`
	BandStart           float64 `yaml:"band_start"`
	BandEnd             float64 `yaml:"band_end"`
	CandidateMultiplier int     `yaml:"candidate_multiplier"`
}

// DefaultConfig retorna la configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Size:                5,
		BaseDelay:           250 * time.Millisecond,
		StaggerDelay:        100 * time.Millisecond,
		MinSuccessItems:     10,
		SuccessFraction:     0.25,
		MinSuccessRate:      0.5,
		MinSuccessesForRate: 5,
		MinAttemptsForRate:  20,
		HeadFraction:        0.6,
		BandStart:           0.2,
		BandEnd:             0.6,
		CandidateMultiplier: 2,
	}
}

// Normalize repara valores fuera de rango con los valores por defecto.
// Zero delays are kept.
func (c Config) Normalize() Config {
	d := DefaultConfig()
	if c.Size <= 0 {
		c.Size = d.Size
	}
	if c.BaseDelay < 0 {
		c.BaseDelay = 0
	}
	if c.StaggerDelay < 0 {
		c.StaggerDelay = 0
	}
	if c.MinSuccessItems <= 0 {
		c.MinSuccessItems = d.MinSuccessItems
	}
	if c.SuccessFraction <= 0 || c.SuccessFraction > 1 {
		c.SuccessFraction = d.SuccessFraction
	}
	if c.MinSuccessRate < 0 || c.MinSuccessRate > 1 {
		c.MinSuccessRate = d.MinSuccessRate
	}
	if c.MinSuccessesForRate < 0 {
		c.MinSuccessesForRate = d.MinSuccessesForRate
	}
	if c.MinAttemptsForRate < 0 {
		c.MinAttemptsForRate = d.MinAttemptsForRate
	}
	if c.HeadFraction <= 0 || c.HeadFraction > 1 {
		c.HeadFraction = d.HeadFraction
	}
	if c.BandStart < 0 || c.BandEnd > 1 || c.BandStart >= c.BandEnd {
		c.BandStart, c.BandEnd = d.BandStart, d.BandEnd
	}
	if c.CandidateMultiplier <= 0 {
		c.CandidateMultiplier = d.CandidateMultiplier
	}
	return c
}

// SuccessThreshold returns the collected count at which a run for requested items stops.
func (c Config) SuccessThreshold(requested int) int {
	threshold := int(c.SuccessFraction * float64(requested))
	if threshold < c.MinSuccessItems {
		threshold = c.MinSuccessItems
	}
	return threshold
}
