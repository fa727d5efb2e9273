package deploy

import (
	"strconv"
	"time"

	"github.com/vovakirdan/deploy-or-die/internal/config"
	"github.com/vovakirdan/deploy-or-die/internal/core"
	"github.com/vovakirdan/deploy-or-die/internal/registry"
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil {
		p = ""
	}
	difficultyPreset = p
}

// LoadConfig loads the config for a variant with the CLI path and preset applied.
func LoadConfig(variant string) (config.DeployConfig, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	config.ApplyPreset(&cfg, difficultyPreset)
	return config.WithVariant(cfg, variant)
}

// Game adapts the Engine to the registry's frame-driven Game interface.
type Game struct {
	variant string
	runtime core.RuntimeConfig
	cfg     config.DeployConfig
	engine  *Engine
	opts    []Option
	snap    Snapshot
	paused  bool

	// Layout
	minScreenW     int
	minScreenH     int
	screenTooSmall bool
}

// New creates the canonical game: one cycle deploys and wins.
func New() *Game {
	return &Game{variant: config.VariantClassic}
}

// NewEndless creates the endless variant: cycles repeat until time runs out.
func NewEndless() *Game {
	return &Game{variant: config.VariantEndless}
}

// NewBlocking creates the variant where incidents block progress until fixed.
func NewBlocking() *Game {
	return &Game{variant: config.VariantBlocking}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	switch g.variant {
	case config.VariantEndless:
		return "deploy_endless"
	case config.VariantBlocking:
		return "deploy_blocking"
	default:
		return "deploy"
	}
}

// Variant returns the rule set name, one of the config.Variant constants.
func (g *Game) Variant() string { return g.variant }

// Title returns the display name for this game.
func (g *Game) Title() string {
	switch g.variant {
	case config.VariantEndless:
		return "Deploy or Die (Endless)"
	case config.VariantBlocking:
		return "Deploy or Die (Blocking)"
	default:
		return "Deploy or Die"
	}
}

// Attach adds engine options, such as sinks or a logger. They take effect
// on the next Reset.
func (g *Game) Attach(opts ...Option) {
	g.opts = append(g.opts, opts...)
}

// Reset loads the config and returns to the idle screen.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	cfg, err := LoadConfig(g.variant)
	if err != nil {
		cfg, _ = config.WithVariant(config.DefaultDeployConfig(), g.variant)
		config.ApplyPreset(&cfg, difficultyPreset)
	}
	g.cfg = cfg

	opts := []Option{WithVariant(g.ID()), WithPlayer(runtime.Player)}
	g.engine = NewEngine(cfg, append(opts, g.opts...)...)
	g.snap = g.engine.Snapshot()
	g.paused = false

	g.minScreenW = 40
	g.minScreenH = 16
	g.screenTooSmall = runtime.ScreenW < g.minScreenW || runtime.ScreenH < g.minScreenH
}

// Resize adapts the layout to a new screen size without touching the session.
func (g *Game) Resize(w, h int) {
	g.runtime.ScreenW, g.runtime.ScreenH = w, h
	g.screenTooSmall = w < g.minScreenW || h < g.minScreenH
}

// sessionSeed returns the configured seed, or derives one from the player
// and the current time.
func (g *Game) sessionSeed() uint32 {
	if g.runtime.Seed != 0 {
		return uint32(g.runtime.Seed)
	}
	return SeedFromStrings(g.runtime.Player, strconv.FormatInt(time.Now().UnixMilli(), 10))
}

// Step advances the game by one frame.
func (g *Game) Step(in core.InputFrame, dt time.Duration) core.StepResult {
	if g.screenTooSmall || g.engine == nil {
		return core.StepResult{State: g.State()}
	}

	switch {
	case g.snap.Phase == PhaseIdle:
		if in.Has(core.ActionStart) {
			g.snap = g.engine.Start(g.sessionSeed())
		}
		return core.StepResult{State: g.State()}

	case g.snap.Phase.Terminal():
		if in.Has(core.ActionRestart) || in.Has(core.ActionStart) {
			g.paused = false
			g.snap = g.engine.Start(g.sessionSeed())
		}
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.engine.ApplyInput(g.inputFrom(in))
	g.snap = g.engine.Tick(dt)
	return core.StepResult{State: g.State()}
}

// inputFrom converts platform actions into engine input in field units.
func (g *Game) inputFrom(in core.InputFrame) Input {
	steps := in.Count(core.ActionRight) - in.Count(core.ActionLeft)
	out := Input{Nudge: float64(steps) * g.cfg.Controls.KeyStep}
	if in.HasPointer {
		out.PointerX, out.HasPointer = in.Pointer*g.cfg.Field.Width, true
	}
	if in.HasTilt {
		out.Tilt, out.HasTilt = in.Tilt, true
	}
	return out
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.snap.Score,
		Started:  g.snap.Phase != PhaseIdle,
		GameOver: g.snap.Phase.Terminal(),
		Won:      g.snap.Phase == PhaseSuccess,
		Paused:   g.paused,
	}
}

// Snapshot returns the last snapshot the game rendered from.
func (g *Game) Snapshot() Snapshot {
	return g.snap
}

// Result returns the payload of the last finished session.
func (g *Game) Result() (Result, bool) {
	if g.engine == nil {
		return Result{}, false
	}
	return g.engine.Result()
}

func init() {
	registry.Register("deploy", func() registry.Game {
		return New()
	})
	registry.Register("deploy_endless", func() registry.Game {
		return NewEndless()
	})
	registry.Register("deploy_blocking", func() registry.Game {
		return NewBlocking()
	})
}
