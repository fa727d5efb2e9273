package deploy

import "github.com/vovakirdan/deploy-or-die/internal/config"

// WeightedKind is one entry of the spawn bag.
type WeightedKind struct {
	Kind   BlockKind
	Weight int
}

// SpawnSelector picks the kind of the next falling block.
type SpawnSelector struct {
	cfg   config.SpawnConfig
	rules config.RulesConfig
}

// NewSpawnSelector creates a selector for the given weights and rule set.
func NewSpawnSelector(cfg config.SpawnConfig, rules config.RulesConfig) SpawnSelector {
	return SpawnSelector{cfg: cfg, rules: rules}
}

// Starved reports whether enough time has passed since the last bad spawn
// for bad kinds to get their raised weight.
func (sp SpawnSelector) Starved(elapsedMs, lastBadAtMs float64) bool {
	return elapsedMs-lastBadAtMs >= sp.cfg.BadEverySecMin*1000
}

// Weights builds the spawn bag: the current goal weighs most, the next two
// steps less, every other step least. Heals, time bonuses and incidents are
// mixed in, with incidents weighted up once they have been starved.
func (sp SpawnSelector) Weights(goalIndex int, elapsedMs, lastBadAtMs float64) []WeightedKind {
	bag := make([]WeightedKind, 0, SequenceLen+5)
	push := func(k BlockKind, w int) {
		if w > 0 {
			bag = append(bag, WeightedKind{Kind: k, Weight: w})
		}
	}

	for i := range SequenceLen {
		idx := (goalIndex + i) % SequenceLen
		switch i {
		case 0:
			push(StepBlock{StepAt(idx)}, sp.cfg.GoalWeight)
		case 1:
			push(StepBlock{StepAt(idx)}, sp.cfg.NextWeight)
		case 2:
			push(StepBlock{StepAt(idx)}, sp.cfg.AfterNextWeight)
		default:
			push(StepBlock{StepAt(idx)}, sp.cfg.DecoyWeight)
		}
	}

	push(HealBlock{HealFixBug}, sp.cfg.HealWeight)
	push(HealBlock{HealFixInfra}, sp.cfg.HealWeight)

	if sp.rules.TimeBonusBlocks {
		push(TimeBonusBlock{}, sp.cfg.TimeBonusWeight)
	}

	bad := sp.cfg.BadWeight
	if sp.Starved(elapsedMs, lastBadAtMs) {
		bad = sp.cfg.BadStarvedWeight
	}
	push(BadBlock{BadBug}, bad)
	push(BadBlock{BadInfra}, bad)

	return bag
}

// BadWeight returns the total weight of incident kinds in a bag.
func BadWeight(bag []WeightedKind) int {
	total := 0
	for _, wk := range bag {
		if _, ok := wk.Kind.(BadBlock); ok {
			total += wk.Weight
		}
	}
	return total
}

// Pick draws the next kind and records the time of a bad spawn in s.
// The caller checks the active block cap before calling.
func (sp SpawnSelector) Pick(s *State, rng RandomSource) BlockKind {
	if sp.rules.Blocking && s.Blocked() && rng.Float64() < sp.cfg.HealBiasWhenBlocked {
		return HealBlock{HealFor(s.BlockedBy)}
	}

	bag := sp.Weights(s.GoalIndex, s.ElapsedMs, s.LastBadAtMs)
	total := 0
	for _, wk := range bag {
		total += wk.Weight
	}

	// Uniform index into the bag as if each kind were repeated Weight times.
	n := int(rng.Float64() * float64(total))
	kind := bag[len(bag)-1].Kind
	for _, wk := range bag {
		if n < wk.Weight {
			kind = wk.Kind
			break
		}
		n -= wk.Weight
	}

	if _, ok := kind.(BadBlock); ok {
		s.LastBadAtMs = s.ElapsedMs
	}
	return kind
}
