package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionLeft           // A, Left arrow - nudge platform left
	ActionRight          // D, Right arrow - nudge platform right
	ActionStart          // Space, Enter - start the session from the idle screen
	ActionPause          // P - pause/unpause
	ActionRestart        // R - restart after game over
	ActionBack           // B, Escape - back to menu
	ActionQuit           // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionStart:
		return "Start"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame is everything the player did since the previous frame.
//
// Discrete actions accumulate as counts so that two key repeats inside one
// frame move the platform twice. Pointer and tilt are absolute and the last
// value written wins.
type InputFrame struct {
	Actions map[Action]int

	// Pointer is the horizontal pointer position as a fraction of the
	// play field width, in [0, 1]. Valid only when HasPointer is set.
	Pointer    float64
	HasPointer bool

	// Tilt is the device tilt as a fraction in [-1, 1]. Valid only when
	// HasTilt is set.
	Tilt    float64
	HasTilt bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]int),
	}
}

// Set records one occurrence of an action for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]int)
	}
	f.Actions[a]++
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	return f.Count(a) > 0
}

// Count returns how many times the action was triggered this frame.
func (f InputFrame) Count(a Action) int {
	if f.Actions == nil {
		return 0
	}
	return f.Actions[a]
}

// SetPointer records an absolute pointer position (fraction of field width).
func (f *InputFrame) SetPointer(fraction float64) {
	f.Pointer = fraction
	f.HasPointer = true
}

// SetTilt records an absolute tilt fraction.
func (f *InputFrame) SetTilt(fraction float64) {
	f.Tilt = fraction
	f.HasTilt = true
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
	f.Pointer, f.HasPointer = 0, false
	f.Tilt, f.HasTilt = 0, false
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	clone.Pointer, clone.HasPointer = f.Pointer, f.HasPointer
	clone.Tilt, clone.HasTilt = f.Tilt, f.HasTilt
	return clone
}
