package deploy

// Phase is the session lifecycle gate.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePlaying
	PhaseSuccess
	PhaseFail
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePlaying:
		return "playing"
	case PhaseSuccess:
		return "success"
	case PhaseFail:
		return "fail"
	default:
		return "unknown"
	}
}

// Terminal reports whether the session has ended.
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseFail
}

// Platform is the paddle the player moves. X is its center, Y its top edge.
type Platform struct {
	X       float64
	TargetX float64
	Width   float64
	Y       float64
}

// FallingBlock is an item still in flight. X and Y are its center.
type FallingBlock struct {
	ID     int
	Kind   BlockKind
	X, Y   float64
	VX, VY float64 // units per second
	W, H   float64
}

// Bottom returns the y of the block's lower edge.
func (b FallingBlock) Bottom() float64 { return b.Y + b.H/2 }

// Top returns the y of the block's upper edge.
func (b FallingBlock) Top() float64 { return b.Y - b.H/2 }

// StackedBlock is a correctly caught step resting on the platform.
// DX is its center offset from the platform center, fixed at catch time.
type StackedBlock struct {
	Step StepID
	W, H float64
	DX   float64
}

// State is the complete session aggregate. The engine owns the only
// writable copy; everything else sees clones.
type State struct {
	Phase      Phase
	Seed       uint32
	TimeLeftMs float64
	ElapsedMs  float64

	Score           int
	Combo           float64
	MaxCombo        float64
	GoalIndex       int
	CompletedCycles int
	Mistakes        int

	Blocks   []FallingBlock
	Stack    []StackedBlock
	Platform Platform

	SpawnCooldownMs float64
	FallSpeed       float64
	SpawnIntervalMs float64
	SpawnCutMs      float64 // interval reduction earned by completed cycles
	LastBadAtMs     float64
	LastCorrectAtMs float64 // negative until the first correct catch
	NextBlockID     int

	BlockedBy BadKind // empty unless the blocking rules are active

	LastEvent   *Event // most recent catch outcome, for the HUD toast
	LastEventMs float64
}

// Goal returns the step the player must catch next.
func (s State) Goal() StepID {
	return StepAt(s.GoalIndex)
}

// Blocked reports whether an incident is blocking progress.
func (s State) Blocked() bool {
	return s.BlockedBy != ""
}

// StackHeight returns the summed height of stacked blocks.
func (s State) StackHeight() float64 {
	h := 0.0
	for _, b := range s.Stack {
		h += b.H
	}
	return h
}

// Clone returns a deep copy that shares no slices with s.
func (s State) Clone() State {
	c := s
	if s.Blocks != nil {
		c.Blocks = make([]FallingBlock, len(s.Blocks))
		copy(c.Blocks, s.Blocks)
	}
	if s.Stack != nil {
		c.Stack = make([]StackedBlock, len(s.Stack))
		copy(c.Stack, s.Stack)
	}
	if s.LastEvent != nil {
		ev := *s.LastEvent
		c.LastEvent = &ev
	}
	return c
}
