package deploy

import "math"

// Autopilot steers the platform from snapshots alone. It is deterministic,
// so a seed plus the autopilot always replays the same session; the sim
// command uses it for headless runs.
type Autopilot struct {
	// Avoid makes the pilot step away from unwanted blocks that are about
	// to land when nothing useful is in reach.
	Avoid bool
}

// Decide returns the input for the next tick.
func (a Autopilot) Decide(s Snapshot) Input {
	if s.Phase != PhasePlaying {
		return Input{}
	}

	offset := 0.0
	if n := len(s.Stack); n > 0 {
		offset = s.Stack[n-1].DX
	}

	if b, ok := a.nearest(s, a.wanted); ok {
		// Put the top of the stack, not the platform, under the block.
		return Input{PointerX: b.X - offset, HasPointer: true}
	}

	if a.Avoid {
		if b, ok := a.nearest(s, func(s Snapshot, b FallingBlock) bool { return !a.wanted(s, b) }); ok {
			if math.Abs(b.X-s.Surface.CenterX) <= s.Surface.HalfWidth+b.W/2 {
				away := s.Platform.X + s.Platform.Width
				if b.X > s.Surface.CenterX {
					away = s.Platform.X - s.Platform.Width
				}
				return Input{PointerX: away, HasPointer: true}
			}
		}
	}
	return Input{}
}

func (a Autopilot) wanted(s Snapshot, b FallingBlock) bool {
	switch k := b.Kind.(type) {
	case StepBlock:
		return !s.Blocked() && k.Step == s.Goal()
	case HealBlock:
		return !s.Blocked() || k.Heal.Clears() == s.BlockedBy
	case TimeBonusBlock:
		return true
	default:
		return false
	}
}

// nearest returns the matching block closest to landing that is still above
// the catch surface.
func (a Autopilot) nearest(s Snapshot, match func(Snapshot, FallingBlock) bool) (FallingBlock, bool) {
	var best FallingBlock
	found := false
	for _, b := range s.Blocks {
		if b.Bottom() > s.Surface.Y || !match(s, b) {
			continue
		}
		if !found || b.Y > best.Y {
			best, found = b, true
		}
	}
	return best, found
}
