package core

// RuntimeConfig contains configuration passed to games at initialization.
// Games use this to adapt to screen size and for deterministic simulation.
type RuntimeConfig struct {
	ScreenW  int    // Screen width in characters
	ScreenH  int    // Screen height in characters
	TickRate int    // Frames per second requested from the platform (default 60)
	Seed     int64  // RNG seed, 0 means derive one at session start
	Player   string // Player name recorded in results (SSH user, $USER, ...)

	// Label resolves a stable label key (e.g. "step.deploy-prod") to display
	// text. Nil means games show the key itself.
	Label func(key string) string
}

// Text resolves a label key through Label, falling back to the key.
func (c RuntimeConfig) Text(key string) string {
	if c.Label == nil {
		return key
	}
	if s := c.Label(key); s != "" {
		return s
	}
	return key
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Seed:     0,
	}
}

// GameState summarizes a session for the platform layer.
type GameState struct {
	Score    int  // Current score
	Started  bool // Whether the player has left the start screen
	GameOver bool // Whether the session reached a terminal phase
	Won      bool // Terminal phase was a success
	Paused   bool // Whether the game is paused
}

// StepResult is returned by Game.Step() after each frame.
type StepResult struct {
	State GameState
}
