// Package deploy implements the Deploy or Die simulation: blocks labelled
// with delivery pipeline steps fall onto a platform, and the player must
// catch them in pipeline order before the clock runs out.
//
// The Engine owns the session state and advances it one frame at a time.
// It never draws, plays sounds or stores anything itself; those concerns
// are reached through the Presenter, Feedback and ResultSink ports.
package deploy

import (
	"context"
	"io"
	"math"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/deploy-or-die/internal/config"
	"github.com/vovakirdan/deploy-or-die/internal/core"
)

// Engine runs one session at a time.
//
// Tick, Start and Stop may be called from one goroutine (the frame loop)
// while ApplyInput and Snapshot are called from others.
type Engine struct {
	cfg        config.DeployConfig
	difficulty *config.DifficultyManager
	spawner    SpawnSelector
	controller PlatformController
	scorer     Scorer

	logger    *log.Logger
	presenter Presenter
	feedback  Feedback
	sink      ResultSink
	clock     func() time.Time
	newRandom func(seed uint32) RandomSource
	player    string
	variant   string
	version   string

	mu        sync.Mutex // serializes Start, Tick and Stop
	rng       RandomSource
	sessionID string
	result    *Result

	stateMu sync.RWMutex
	state   State

	inputMu sync.Mutex
	pending Input
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for lifecycle and sink failure messages.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithPresenter sets the sink that receives a snapshot every tick.
func WithPresenter(p Presenter) Option {
	return func(e *Engine) { e.presenter = p }
}

// WithFeedback sets the sink notified of every catch outcome.
func WithFeedback(f Feedback) Option {
	return func(e *Engine) { e.feedback = f }
}

// WithResultSink sets the sink that receives the final result.
func WithResultSink(s ResultSink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithClock sets the wall clock used for result timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.clock = now
		}
	}
}

// WithRandomSource replaces the seeded Mulberry32 generator.
func WithRandomSource(f func(seed uint32) RandomSource) Option {
	return func(e *Engine) {
		if f != nil {
			e.newRandom = f
		}
	}
}

// WithPlayer sets the player name recorded in results.
func WithPlayer(name string) Option {
	return func(e *Engine) { e.player = name }
}

// WithVariant sets the variant name recorded in results.
func WithVariant(id string) Option {
	return func(e *Engine) { e.variant = id }
}

// WithClientVersion overrides the client version recorded in results.
func WithClientVersion(v string) Option {
	return func(e *Engine) { e.version = v }
}

// NewEngine creates an idle engine for the given configuration.
func NewEngine(cfg config.DeployConfig, opts ...Option) *Engine {
	e := &Engine{
		cfg:        cfg,
		difficulty: config.NewDifficultyManager(cfg.Ramp, cfg.Difficulty),
		spawner:    NewSpawnSelector(cfg.Spawn, cfg.Rules),
		controller: NewPlatformController(cfg.Controls),
		scorer:     NewScorer(cfg),
		logger:     log.New(io.Discard),
		clock:      time.Now,
		newRandom:  func(seed uint32) RandomSource { return NewMulberry32(seed) },
		variant:    cfg.Rules.Variant,
		version:    ClientVersion,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.state = e.initialState(PhaseIdle)
	return e
}

// Config returns the configuration the engine runs with.
func (e *Engine) Config() config.DeployConfig {
	return e.cfg
}

// Seed returns the seed of the current or last session.
func (e *Engine) Seed() uint32 {
	return e.current().Seed
}

func (e *Engine) initialState(phase Phase) State {
	f := e.cfg.Field
	r := e.difficulty.Compute(0)
	return State{
		Phase:      phase,
		TimeLeftMs: e.cfg.Session.DurationMs,
		Combo:      1,
		MaxCombo:   1,
		Platform: Platform{
			X:       f.Width / 2,
			TargetX: f.Width / 2,
			Width:   f.PlatformWidth,
			Y:       f.Height - f.PlatformOffset,
		},
		FallSpeed:       r.FallSpeed,
		SpawnIntervalMs: r.SpawnIntervalMs,
		LastCorrectAtMs: -1,
	}
}

// Start begins a fresh session with the given seed.
func (e *Engine) Start(seed uint32) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.rng = e.newRandom(seed)
	e.sessionID = uuid.NewString()
	e.result = nil

	e.inputMu.Lock()
	e.pending = Input{}
	e.inputMu.Unlock()

	s := e.initialState(PhasePlaying)
	s.Seed = seed
	e.swap(s)
	e.logger.Debug("session started", "variant", e.variant, "seed", SeedHex(seed), "session", e.sessionID)

	snap := e.snapshotOf(s)
	e.present(snap)
	return snap
}

// Stop abandons a running session. No result is emitted.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := e.current()
	if s.Phase != PhasePlaying {
		return
	}
	s = s.Clone()
	s.Phase = PhaseIdle
	e.swap(s)

	e.inputMu.Lock()
	e.pending = Input{}
	e.inputMu.Unlock()
	e.logger.Debug("session stopped", "session", e.sessionID, "elapsed_ms", int64(s.ElapsedMs))
}

// ApplyInput queues input for the next tick. It never touches the session
// state directly.
func (e *Engine) ApplyInput(in Input) {
	e.inputMu.Lock()
	e.pending = e.pending.Merge(in)
	e.inputMu.Unlock()
}

func (e *Engine) takeInput() Input {
	e.inputMu.Lock()
	defer e.inputMu.Unlock()
	in := e.pending
	e.pending = Input{Left: in.Left, Right: in.Right}
	return in
}

// Snapshot returns a read-only view of the current state.
func (e *Engine) Snapshot() Snapshot {
	return e.snapshotOf(e.current())
}

// State returns a deep copy of the current state.
func (e *Engine) State() State {
	return e.current().Clone()
}

// Result returns the payload of the last finished session.
func (e *Engine) Result() (Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.result == nil {
		return Result{}, false
	}
	return *e.result, true
}

func (e *Engine) current() State {
	e.stateMu.RLock()
	defer e.stateMu.RUnlock()
	return e.state
}

func (e *Engine) swap(s State) {
	e.stateMu.Lock()
	e.state = s
	e.stateMu.Unlock()
}

func (e *Engine) snapshotOf(s State) Snapshot {
	return newSnapshot(s, e.variant, e.cfg.Field.Width, e.cfg.Field.Height)
}

// Tick advances a running session by dt and returns the new snapshot.
// Outside the playing phase it changes nothing.
func (e *Engine) Tick(dt time.Duration) Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	cur := e.current()
	if cur.Phase != PhasePlaying {
		return e.snapshotOf(cur)
	}

	next, events := e.step(cur.Clone(), e.takeInput(), dt)
	e.swap(next)

	snap := e.snapshotOf(next)
	for _, ev := range events {
		e.notify(ev.Type)
	}
	e.present(snap)
	if next.Phase.Terminal() {
		e.emitResult(next)
	}
	return snap
}

// step advances s by one frame: clock, timeout, difficulty, spawning,
// block movement and catches, then the platform.
func (e *Engine) step(s State, in Input, dt time.Duration) (State, []Event) {
	field := e.cfg.Field
	dtMs := core.ClampF(float64(dt)/float64(time.Millisecond), 0, e.cfg.Session.MaxFrameMs)
	dtSec := dtMs / 1000

	s.ElapsedMs += dtMs
	s.TimeLeftMs -= dtMs
	if s.TimeLeftMs <= 0 {
		s.TimeLeftMs = 0
		e.end(&s, e.timeoutPhase(s), "timeout")
		return s, nil
	}

	r := e.difficulty.Compute(s.ElapsedMs)
	s.FallSpeed = r.FallSpeed
	s.SpawnIntervalMs = math.Max(e.cfg.Ramp.SpawnIntervalMinMs, r.SpawnIntervalMs-s.SpawnCutMs)

	s.SpawnCooldownMs -= dtMs
	if s.SpawnCooldownMs <= 0 && len(s.Blocks) < e.cfg.Session.MaxActiveBlocks {
		e.spawn(&s)
		j := e.cfg.Ramp.SpawnJitter
		s.SpawnCooldownMs = between(e.rng, s.SpawnIntervalMs*(1-j), s.SpawnIntervalMs*(1+j))
	}

	var events []Event
	kept := s.Blocks[:0]
	for _, b := range s.Blocks {
		if s.Phase != PhasePlaying {
			kept = append(kept, b)
			continue
		}
		b.X = core.ClampF(b.X+b.VX*dtSec, b.W/2, field.Width-b.W/2)
		b.Y += b.VY * dtSec

		if Catches(b, s) {
			evs := e.scorer.Apply(&s, b, e.rng)
			events = append(events, evs...)
			e.afterCatch(&s, evs)
			continue
		}
		if OffField(b, field.Height) {
			continue
		}
		kept = append(kept, b)
	}
	s.Blocks = kept

	if s.Phase == PhasePlaying {
		s.Platform = e.controller.Update(s.Platform, dtSec, in, field.Width)
	}
	return s, events
}

func (e *Engine) spawn(s *State) {
	f := e.cfg.Field
	kind := e.spawner.Pick(s, e.rng)
	w, h := f.BlockWidth, f.BlockHeight

	s.NextBlockID++
	s.Blocks = append(s.Blocks, FallingBlock{
		ID:   s.NextBlockID,
		Kind: kind,
		X:    between(e.rng, w/2, f.Width-w/2),
		Y:    -h - 4,
		VX:   between(e.rng, -f.SpawnDrift, f.SpawnDrift),
		VY:   s.FallSpeed,
		W:    w,
		H:    h,
	})
}

func (e *Engine) afterCatch(s *State, evs []Event) {
	if len(evs) == 0 {
		return
	}
	last := evs[len(evs)-1]
	s.LastEvent = &last
	s.LastEventMs = s.ElapsedMs

	for _, ev := range evs {
		if ev.Type != EventCycleComplete {
			continue
		}
		if e.cfg.Rules.CycleEndsSession {
			e.end(s, PhaseSuccess, "cycle complete")
			return
		}
		s.SpawnCutMs += e.cfg.Rules.CycleSpawnCutMs
		e.logger.Debug("cycle complete", "cycles", s.CompletedCycles, "score", s.Score)
	}
}

func (e *Engine) timeoutPhase(s State) Phase {
	if e.cfg.Rules.TimeoutSucceedsAfterCycle && s.CompletedCycles > 0 {
		return PhaseSuccess
	}
	return PhaseFail
}

func (e *Engine) end(s *State, phase Phase, reason string) {
	s.Phase = phase
	e.logger.Debug("session ended",
		"phase", phase, "reason", reason, "score", s.Score,
		"cycles", s.CompletedCycles, "mistakes", s.Mistakes)
}

func (e *Engine) emitResult(s State) {
	res := Result{
		SessionID:       e.sessionID,
		Variant:         e.variant,
		Player:          e.player,
		Score:           s.Score,
		Success:         s.Phase == PhaseSuccess,
		CompletedCycles: s.CompletedCycles,
		Mistakes:        s.Mistakes,
		MaxCombo:        s.MaxCombo,
		DurationMs:      int64(math.Round(s.ElapsedMs)),
		Seed:            SeedHex(s.Seed),
		Timestamp:       e.clock().UnixMilli(),
		ClientVersion:   e.version,
	}.Sign()
	e.result = &res

	if e.sink == nil {
		return
	}
	e.guard("result", func() {
		if err := e.sink.SaveResult(res); err != nil {
			e.logger.Warn("result sink failed", "session", res.SessionID, "err", err)
		}
	})
}

func (e *Engine) notify(t EventType) {
	if e.feedback == nil {
		return
	}
	e.guard("feedback", func() { e.feedback.Notify(t) })
}

func (e *Engine) present(s Snapshot) {
	if e.presenter == nil {
		return
	}
	e.guard("presenter", func() { e.presenter.Present(s) })
}

// guard runs a collaborator call so that a panic inside it cannot
// interrupt the frame.
func (e *Engine) guard(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("sink panicked", "sink", name, "panic", r)
		}
	}()
	fn()
}

// Run ticks the engine on every value received from frames until the
// session ends, frames is closed, or ctx is cancelled. Cancellation stops
// the session. The first frame only establishes the time base.
func (e *Engine) Run(ctx context.Context, frames <-chan time.Time) error {
	var last time.Time
	for {
		select {
		case <-ctx.Done():
			e.Stop()
			return ctx.Err()
		case now, ok := <-frames:
			if !ok {
				return nil
			}
			var dt time.Duration
			if !last.IsZero() {
				dt = now.Sub(last)
			}
			last = now
			if snap := e.Tick(dt); snap.Phase != PhasePlaying {
				return nil
			}
		}
	}
}
