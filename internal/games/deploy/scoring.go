package deploy

import (
	"math"

	"github.com/vovakirdan/deploy-or-die/internal/config"
	"github.com/vovakirdan/deploy-or-die/internal/core"
)

// EventType names a catch outcome. Feedback sinks key sounds and haptics on it.
type EventType string

const (
	EventCorrect       EventType = "correct"
	EventWrong         EventType = "wrong"
	EventBad           EventType = "bad"
	EventHeal          EventType = "heal"
	EventCycleComplete EventType = "cycle-complete"
	EventTimeBonus     EventType = "time-bonus"
)

// Event is one scoring outcome with its deltas, for presentation.
type Event struct {
	Type        EventType
	Key         string // label key of the caught block
	ScoreDelta  int
	TimeDeltaMs float64
}

// Scorer applies catch outcomes to the session state.
type Scorer struct {
	scoring config.ScoringConfig
	field   config.FieldConfig
	rules   config.RulesConfig
	maxMs   float64
}

// NewScorer creates a scorer from the session config.
func NewScorer(cfg config.DeployConfig) Scorer {
	return Scorer{
		scoring: cfg.Scoring,
		field:   cfg.Field,
		rules:   cfg.Rules,
		maxMs:   cfg.Session.MaxDurationMs,
	}
}

// ComboMultiplier maps a combo count to its score multiplier: the multiplier
// of the highest tier the combo has reached, or 1 below the first tier.
func (sc Scorer) ComboMultiplier(combo float64) float64 {
	m := 1.0
	for i, tier := range sc.scoring.ComboTiers {
		if i < len(sc.scoring.ComboMult) && combo >= tier {
			m = sc.scoring.ComboMult[i]
		}
	}
	return m
}

// Apply resolves a caught block against s. Exactly one transition applies
// per block; a correct catch that closes the sequence also yields a
// cycle-complete event.
func (sc Scorer) Apply(s *State, b FallingBlock, rng RandomSource) []Event {
	switch k := b.Kind.(type) {
	case StepBlock:
		if sc.rules.Blocking && s.Blocked() {
			return []Event{sc.wrong(s, k)}
		}
		if k.Step != s.Goal() {
			return []Event{sc.wrong(s, k)}
		}
		return sc.correct(s, b, k, rng)

	case BadBlock:
		return []Event{sc.bad(s, k)}

	case HealBlock:
		if sc.rules.Blocking && s.Blocked() {
			if k.Heal.Clears() != s.BlockedBy {
				return []Event{sc.wrong(s, k)}
			}
			s.BlockedBy = ""
			d := sc.addTime(s, sc.scoring.HealBonusMs)
			return []Event{{Type: EventHeal, Key: k.Key(), TimeDeltaMs: d}}
		}
		s.Score += sc.scoring.HealScoreBonus
		return []Event{{Type: EventHeal, Key: k.Key(), ScoreDelta: sc.scoring.HealScoreBonus}}

	case TimeBonusBlock:
		d := sc.addTime(s, sc.scoring.TimeBonusMs)
		return []Event{{Type: EventTimeBonus, Key: k.Key(), TimeDeltaMs: d}}
	}
	return nil
}

func (sc Scorer) correct(s *State, b FallingBlock, k StepBlock, rng RandomSource) []Event {
	s.Stack = append(s.Stack, sc.place(*s, b, rng))

	// The catch is scored at the combo it was made on.
	pts := int(math.Floor(float64(sc.scoring.Base) * sc.ComboMultiplier(s.Combo)))
	if s.LastCorrectAtMs >= 0 && s.ElapsedMs-s.LastCorrectAtMs <= sc.scoring.SpeedWindowMs {
		pts += sc.scoring.SpeedBonus
	}
	s.Combo = math.Min(sc.scoring.ComboCap, s.Combo+1)
	s.MaxCombo = math.Max(s.MaxCombo, s.Combo)
	s.LastCorrectAtMs = s.ElapsedMs
	s.Score += pts
	d := sc.addTime(s, sc.scoring.CorrectBonusMs)

	events := []Event{{Type: EventCorrect, Key: k.Key(), ScoreDelta: pts, TimeDeltaMs: d}}

	s.GoalIndex = (s.GoalIndex + 1) % SequenceLen
	if s.GoalIndex == 0 {
		s.CompletedCycles++
		bonus := int(math.Floor(s.TimeLeftMs / 1000 * sc.scoring.FinishPerSec))
		s.Score += bonus
		if sc.rules.ClearStackOnCycle {
			s.Stack = nil
		}
		events = append(events, Event{Type: EventCycleComplete, Key: k.Key(), ScoreDelta: bonus})
	}
	return events
}

// place computes where a correctly caught block rests: its x is clamped to
// the support below, inset by the stack margin, then jittered and clamped
// again. The result is stored as an offset from the platform center.
func (sc Scorer) place(s State, b FallingBlock, rng RandomSource) StackedBlock {
	sf := CatchSurface(s)
	reach := math.Max(0, sf.HalfWidth-sc.field.StackMargin)
	lo, hi := sf.CenterX-reach, sf.CenterX+reach

	x := core.ClampF(b.X, lo, hi)
	x = core.ClampF(x+between(rng, -sc.field.StackJitter, sc.field.StackJitter), lo, hi)

	return StackedBlock{
		Step: b.Kind.(StepBlock).Step,
		W:    b.W,
		H:    b.H,
		DX:   x - s.Platform.X,
	}
}

func (sc Scorer) wrong(s *State, k BlockKind) Event {
	s.Combo = 1
	s.Mistakes++
	d := sc.addTime(s, -sc.scoring.WrongPenaltyMs)
	return Event{Type: EventWrong, Key: k.Key(), TimeDeltaMs: d}
}

func (sc Scorer) bad(s *State, k BadBlock) Event {
	s.Combo = 1
	s.Mistakes++
	if sc.rules.Blocking {
		s.BlockedBy = k.Bad
		d := sc.addTime(s, -sc.scoring.BadPenaltyMs)
		return Event{Type: EventBad, Key: k.Key(), TimeDeltaMs: d}
	}
	s.Score -= sc.scoring.BadScorePenalty
	return Event{Type: EventBad, Key: k.Key(), ScoreDelta: -sc.scoring.BadScorePenalty}
}

// addTime moves the clock by deltaMs within [0, max] and returns the
// change actually applied.
func (sc Scorer) addTime(s *State, deltaMs float64) float64 {
	before := s.TimeLeftMs
	s.TimeLeftMs = core.ClampF(s.TimeLeftMs+deltaMs, 0, sc.maxMs)
	return s.TimeLeftMs - before
}
