package config

import (
	"errors"
	"fmt"
	"math"
)

// RampConfig holds the difficulty curve. Fall speed grows geometrically per
// ramp step and the spawn interval shrinks linearly, both saturating.
type RampConfig struct {
	FallSpeedStart       float64 `yaml:"fall_speed_start"`
	FallSpeedMax         float64 `yaml:"fall_speed_max"`
	FallRampPct          float64 `yaml:"fall_ramp_pct"`
	RampEverySec         float64 `yaml:"ramp_every_sec"`
	SpawnIntervalStartMs float64 `yaml:"spawn_interval_start_ms"`
	SpawnIntervalMinMs   float64 `yaml:"spawn_interval_min_ms"`
	SpawnIntervalStepMs  float64 `yaml:"spawn_interval_step_ms"`
	SpawnJitter          float64 `yaml:"spawn_jitter"`
}

// Ramp is the difficulty at one moment of a session.
type Ramp struct {
	Step            int
	FallSpeed       float64 // units per second
	SpawnIntervalMs float64
}

// Validate checks the curve bounds.
func (r RampConfig) Validate() error {
	var errs []error
	if r.FallSpeedStart <= 0 || r.FallSpeedMax < r.FallSpeedStart {
		errs = append(errs, fmt.Errorf("ramp: need 0 < fall_speed_start <= fall_speed_max, got %v and %v", r.FallSpeedStart, r.FallSpeedMax))
	}
	if r.FallRampPct < 0 {
		errs = append(errs, fmt.Errorf("ramp: fall_ramp_pct must be non-negative, got %v", r.FallRampPct))
	}
	if r.RampEverySec <= 0 {
		errs = append(errs, fmt.Errorf("ramp: ramp_every_sec must be positive, got %v", r.RampEverySec))
	}
	if r.SpawnIntervalMinMs <= 0 || r.SpawnIntervalStartMs < r.SpawnIntervalMinMs {
		errs = append(errs, fmt.Errorf("ramp: need 0 < spawn_interval_min_ms <= spawn_interval_start_ms, got %v and %v", r.SpawnIntervalMinMs, r.SpawnIntervalStartMs))
	}
	if r.SpawnIntervalStepMs < 0 {
		errs = append(errs, fmt.Errorf("ramp: spawn_interval_step_ms must be non-negative, got %v", r.SpawnIntervalStepMs))
	}
	if r.SpawnJitter < 0 || r.SpawnJitter >= 1 {
		errs = append(errs, fmt.Errorf("ramp: spawn_jitter must be in [0, 1), got %v", r.SpawnJitter))
	}
	return errors.Join(errs...)
}

// Compute returns fall speed and spawn interval after elapsedMs of play.
// Both are monotonic in elapsedMs and saturate at their bounds.
func (r RampConfig) Compute(elapsedMs float64) Ramp {
	step := r.StepAt(elapsedMs)
	fall := r.FallSpeedStart * math.Pow(1+r.FallRampPct, float64(step))
	spawn := r.SpawnIntervalStartMs - float64(step)*r.SpawnIntervalStepMs
	return Ramp{
		Step:            step,
		FallSpeed:       math.Min(r.FallSpeedMax, fall),
		SpawnIntervalMs: math.Max(r.SpawnIntervalMinMs, spawn),
	}
}

// StepAt returns the ramp step index for an elapsed time.
func (r RampConfig) StepAt(elapsedMs float64) int {
	interval := r.IntervalMs()
	if interval <= 0 || elapsedMs <= 0 || math.IsNaN(elapsedMs) {
		return 0
	}
	if math.IsInf(elapsedMs, 1) {
		return math.MaxInt32
	}
	return int(math.Min(math.Floor(elapsedMs/interval), math.MaxInt32))
}

// IntervalMs is the length of one ramp step.
func (r RampConfig) IntervalMs() float64 {
	return r.RampEverySec * 1000
}

// StepsToSaturate returns the first step at which both fall speed and spawn
// interval have reached their bounds.
func (r RampConfig) StepsToSaturate() int {
	fallSteps := 0
	if r.FallRampPct > 0 && r.FallSpeedMax > r.FallSpeedStart {
		fallSteps = int(math.Ceil(math.Log(r.FallSpeedMax/r.FallSpeedStart) / math.Log1p(r.FallRampPct)))
	}
	spawnSteps := 0
	if r.SpawnIntervalStepMs > 0 && r.SpawnIntervalStartMs > r.SpawnIntervalMinMs {
		spawnSteps = int(math.Ceil((r.SpawnIntervalStartMs - r.SpawnIntervalMinMs) / r.SpawnIntervalStepMs))
	}
	return max(fallSteps, spawnSteps)
}

// DifficultyManager maps session time onto the ramp, honoring the preset's
// starting level and whether progression is enabled.
type DifficultyManager struct {
	ramp         RampConfig
	cfg          DifficultyConfig
	initialLevel float64
}

// NewDifficultyManager creates a new difficulty manager.
func NewDifficultyManager(ramp RampConfig, cfg DifficultyConfig) *DifficultyManager {
	return &DifficultyManager{
		ramp:         ramp,
		cfg:          cfg,
		initialLevel: clampF(cfg.InitialLevel, 0.0, 1.0),
	}
}

// SetInitialLevel overrides the initial difficulty level (0.0 to 1.0).
func (d *DifficultyManager) SetInitialLevel(level float64) {
	d.initialLevel = clampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables difficulty progression.
func (d *DifficultyManager) SetEnabled(enabled bool) {
	d.cfg.Enabled = enabled
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyManager) IsEnabled() bool {
	return d.cfg.Enabled
}

// offsetMs is how far the initial level moves the ramp clock forward.
func (d *DifficultyManager) offsetMs() float64 {
	return d.initialLevel * float64(d.ramp.StepsToSaturate()) * d.ramp.IntervalMs()
}

// Compute returns the ramp for a session that has been playing for elapsedMs.
// With progression disabled the ramp stays at its starting point.
func (d *DifficultyManager) Compute(elapsedMs float64) Ramp {
	if !d.cfg.Enabled {
		return d.ramp.Compute(0)
	}
	return d.ramp.Compute(math.Max(0, elapsedMs) + d.offsetMs())
}

// Level returns the current difficulty level (0.0 to 1.0).
func (d *DifficultyManager) Level(elapsedMs float64) float64 {
	steps := d.ramp.StepsToSaturate()
	if steps == 0 {
		return 1.0
	}
	return clampF(float64(d.Compute(elapsedMs).Step)/float64(steps), 0.0, 1.0)
}

// clampF restricts a float64 to [min, max].
func clampF(val, min, max float64) float64 {
	return math.Max(min, math.Min(max, val))
}
