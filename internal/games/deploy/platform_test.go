package deploy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/deploy-or-die/internal/config"
)

func testPlatform() (Platform, PlatformController) {
	cfg := config.DefaultDeployConfig()
	return Platform{X: 180, TargetX: 180, Width: 90, Y: 616}, NewPlatformController(cfg.Controls)
}

func TestPlatformHoldsWithoutInput(t *testing.T) {
	p, c := testPlatform()
	for range 100 {
		p = c.Update(p, 0.016, Input{}, 360)
	}
	assert.Equal(t, 180.0, p.X)
	assert.Equal(t, 180.0, p.TargetX)
}

func TestPlatformEasesTowardPointer(t *testing.T) {
	p, c := testPlatform()
	p = c.Update(p, 0.016, Input{PointerX: 260, HasPointer: true}, 360)
	assert.Equal(t, 260.0, p.TargetX)
	assert.InDelta(t, 200.0, p.X, 1e-9, "one quarter of the way")

	for range 200 {
		p = c.Update(p, 0.016, Input{}, 360)
	}
	assert.InDelta(t, 260.0, p.X, 1e-6)
}

func TestPlatformKeyboard(t *testing.T) {
	p, c := testPlatform()
	p = c.Update(p, 0.016, Input{Nudge: -36}, 360)
	assert.Equal(t, 144.0, p.TargetX)

	p, _ = testPlatform()
	p = c.Update(p, 0.1, Input{Right: true}, 360)
	assert.InDelta(t, 220.0, p.TargetX, 1e-9, "400 units/s for 0.1s")
}

func TestPlatformTilt(t *testing.T) {
	p, c := testPlatform()
	p = c.Update(p, 0.016, Input{Tilt: 0.5, HasTilt: true}, 360)
	assert.Equal(t, 270.0, p.TargetX)

	p = c.Update(p, 0.016, Input{Tilt: -5, HasTilt: true}, 360)
	assert.Equal(t, 45.0, p.TargetX, "tilt clamps to the left edge")

	assert.Equal(t, 1.0, TiltFraction(45, 30))
	assert.Equal(t, -0.5, TiltFraction(-15, 30))
	assert.Equal(t, 0.0, TiltFraction(math.NaN(), 30))
}

func TestPlatformIgnoresNonFiniteInput(t *testing.T) {
	p, c := testPlatform()
	p.TargetX = 200
	for _, in := range []Input{
		{PointerX: math.NaN(), HasPointer: true},
		{PointerX: math.Inf(1), HasPointer: true},
		{Tilt: math.NaN(), HasTilt: true},
		{Nudge: math.Inf(-1)},
	} {
		got := c.Update(p, 0.016, in, 360)
		assert.Equal(t, 200.0, got.TargetX, "input %+v", in)
	}
}

func TestPlatformBounds(t *testing.T) {
	p, c := testPlatform()
	rng := NewMulberry32(2024)
	extremes := []float64{-1e12, 1e12, math.NaN(), math.Inf(1), math.Inf(-1), -1, 0, 360, 361}

	for i := range 5000 {
		var in Input
		switch i % 5 {
		case 0:
			in = Input{PointerX: extremes[int(rng.Float64()*float64(len(extremes)))], HasPointer: true}
		case 1:
			in = Input{PointerX: between(rng, -500, 900), HasPointer: true}
		case 2:
			in = Input{Nudge: between(rng, -1000, 1000)}
		case 3:
			in = Input{Tilt: between(rng, -3, 3), HasTilt: true}
		case 4:
			in = Input{Left: rng.Float64() < 0.5, Right: rng.Float64() < 0.5}
		}
		p = c.Update(p, between(rng, 0, 0.05), in, 360)
		if p.X < 45 || p.X > 315 || math.IsNaN(p.X) {
			t.Fatalf("step %d: platform x = %v outside [45, 315]", i, p.X)
		}
	}
}

func TestInputMerge(t *testing.T) {
	in := Input{Nudge: 10, Left: true}
	in = in.Merge(Input{Nudge: 5, PointerX: 100, HasPointer: true})
	assert.Equal(t, 15.0, in.Nudge)
	assert.True(t, in.HasPointer)
	assert.False(t, in.Left, "held flags follow the newest input")

	in = in.Merge(Input{PointerX: 120, HasPointer: true, Tilt: 0.2, HasTilt: true})
	assert.Equal(t, 120.0, in.PointerX)
	assert.Equal(t, 0.2, in.Tilt)
}
