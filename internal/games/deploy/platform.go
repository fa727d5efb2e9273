package deploy

import (
	"github.com/vovakirdan/deploy-or-die/internal/config"
	"github.com/vovakirdan/deploy-or-die/internal/core"
)

// Input is the player's intent for one tick, already normalized to play
// field units. The zero value means "no input".
type Input struct {
	// PointerX is an absolute target x. Valid only when HasPointer is set.
	PointerX   float64
	HasPointer bool

	// Tilt is a device tilt fraction in [-1, 1], mapped across the field.
	Tilt    float64
	HasTilt bool

	// Nudge moves the target by a fixed distance (discrete key presses).
	Nudge float64

	// Left and Right are held-key flags; they move the target continuously.
	Left, Right bool
}

// Merge folds a newer input into i. Absolute positions and held flags are
// replaced, nudges accumulate.
func (i Input) Merge(next Input) Input {
	if next.HasPointer {
		i.PointerX, i.HasPointer = next.PointerX, true
	}
	if next.HasTilt {
		i.Tilt, i.HasTilt = next.Tilt, true
	}
	i.Nudge += next.Nudge
	i.Left, i.Right = next.Left, next.Right
	return i
}

// TiltFraction maps a tilt angle in degrees to [-1, 1].
func TiltFraction(gammaDeg, maxTiltDeg float64) float64 {
	if maxTiltDeg <= 0 || !core.Finite(gammaDeg) {
		return 0
	}
	return core.ClampF(gammaDeg/maxTiltDeg, -1, 1)
}

// PlatformController eases the platform toward the player's target.
type PlatformController struct {
	cfg config.ControlsConfig
}

// NewPlatformController creates a controller with the given tuning.
func NewPlatformController(cfg config.ControlsConfig) PlatformController {
	return PlatformController{cfg: cfg}
}

// Update applies one tick of input. dtSec is the frame delta in seconds.
// Non-finite input values are ignored and the previous target is kept.
func (c PlatformController) Update(p Platform, dtSec float64, in Input, fieldW float64) Platform {
	half := p.Width / 2
	lo, hi := half, fieldW-half

	target := p.TargetX
	if in.HasPointer && core.Finite(in.PointerX) {
		target = in.PointerX
	}
	if in.HasTilt && core.Finite(in.Tilt) {
		target = fieldW/2 + core.ClampF(in.Tilt, -1, 1)*fieldW/2
	}
	if core.Finite(in.Nudge) {
		target += in.Nudge
	}
	if core.Finite(dtSec) && dtSec > 0 {
		if in.Left {
			target -= c.cfg.KeySpeed * dtSec
		}
		if in.Right {
			target += c.cfg.KeySpeed * dtSec
		}
	}
	if !core.Finite(target) {
		target = p.X
	}
	p.TargetX = core.ClampF(target, lo, hi)

	p.X += (p.TargetX - p.X) * c.cfg.Ease
	p.X = core.ClampF(p.X, lo, hi)
	return p
}
