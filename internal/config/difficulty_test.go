package config

import (
	"math"
	"testing"
)

func TestRampCompute(t *testing.T) {
	r := DefaultDeployConfig().Ramp

	tests := []struct {
		elapsedMs float64
		step      int
		fall      float64
		spawn     float64
	}{
		{0, 0, 180, 1000},
		{19999, 0, 180, 1000},
		{20000, 1, 180 * 1.06, 960},
		{40000, 2, 180 * 1.06 * 1.06, 920},
		{10 * 20000, 10, 300, 600},
		{1e9, 50000, 300, 600},
	}
	for _, tt := range tests {
		got := r.Compute(tt.elapsedMs)
		if got.Step != tt.step {
			t.Errorf("Compute(%v).Step = %d, want %d", tt.elapsedMs, got.Step, tt.step)
		}
		if math.Abs(got.FallSpeed-tt.fall) > 1e-9 {
			t.Errorf("Compute(%v).FallSpeed = %v, want %v", tt.elapsedMs, got.FallSpeed, tt.fall)
		}
		if math.Abs(got.SpawnIntervalMs-tt.spawn) > 1e-9 {
			t.Errorf("Compute(%v).SpawnIntervalMs = %v, want %v", tt.elapsedMs, got.SpawnIntervalMs, tt.spawn)
		}
	}
}

func TestRampMonotonic(t *testing.T) {
	r := DefaultDeployConfig().Ramp
	prev := r.Compute(0)
	for ms := 0.0; ms <= 600000; ms += 250 {
		cur := r.Compute(ms)
		if cur.FallSpeed < prev.FallSpeed || cur.FallSpeed > r.FallSpeedMax {
			t.Fatalf("fall speed at %vms = %v (prev %v)", ms, cur.FallSpeed, prev.FallSpeed)
		}
		if cur.SpawnIntervalMs > prev.SpawnIntervalMs || cur.SpawnIntervalMs < r.SpawnIntervalMinMs {
			t.Fatalf("spawn interval at %vms = %v (prev %v)", ms, cur.SpawnIntervalMs, prev.SpawnIntervalMs)
		}
		prev = cur
	}
}

func TestRampDegenerateInput(t *testing.T) {
	r := DefaultDeployConfig().Ramp
	for _, ms := range []float64{-1000, math.NaN()} {
		if got := r.Compute(ms); got.Step != 0 || got.FallSpeed != r.FallSpeedStart {
			t.Errorf("Compute(%v) = %+v, want starting ramp", ms, got)
		}
	}
	if got := r.Compute(math.Inf(1)); got.FallSpeed != r.FallSpeedMax || got.SpawnIntervalMs != r.SpawnIntervalMinMs {
		t.Errorf("Compute(+Inf) = %+v, want saturated ramp", got)
	}
}

func TestStepsToSaturate(t *testing.T) {
	r := DefaultDeployConfig().Ramp
	// 180 * 1.06^9 ~= 304 reaches the cap; (1000-600)/40 = 10 steps for spawn.
	if got := r.StepsToSaturate(); got != 10 {
		t.Errorf("StepsToSaturate() = %d, want 10", got)
	}
}

func TestDifficultyManagerPresets(t *testing.T) {
	ramp := DefaultDeployConfig().Ramp

	easy := NewDifficultyManager(ramp, DifficultyConfig{Enabled: true, InitialLevel: 0})
	hard := NewDifficultyManager(ramp, DifficultyConfig{Enabled: true, InitialLevel: 0.7})

	if easy.Compute(0) != ramp.Compute(0) {
		t.Errorf("easy start = %+v, want %+v", easy.Compute(0), ramp.Compute(0))
	}
	if got := hard.Compute(0).Step; got != 7 {
		t.Errorf("hard start step = %d, want 7", got)
	}
	if hard.Level(0) <= easy.Level(0) {
		t.Errorf("hard level %v not above easy level %v", hard.Level(0), easy.Level(0))
	}

	for ms := 0.0; ms <= 300000; ms += 1000 {
		e, h := easy.Compute(ms), hard.Compute(ms)
		if h.FallSpeed < e.FallSpeed || h.SpawnIntervalMs > e.SpawnIntervalMs {
			t.Fatalf("at %vms hard ramp %+v easier than easy %+v", ms, h, e)
		}
	}
}

func TestDifficultyManagerFixed(t *testing.T) {
	ramp := DefaultDeployConfig().Ramp
	d := NewDifficultyManager(ramp, DifficultyConfig{Enabled: false, InitialLevel: 0.7})

	if d.IsEnabled() {
		t.Error("IsEnabled() = true")
	}
	if got := d.Compute(500000); got != ramp.Compute(0) {
		t.Errorf("fixed Compute = %+v, want starting ramp", got)
	}

	d.SetEnabled(true)
	d.SetInitialLevel(5)
	if got := d.Level(0); got != 1.0 {
		t.Errorf("Level after clamp = %v, want 1", got)
	}
}
