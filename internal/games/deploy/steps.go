package deploy

// StepID identifies one stage of the delivery pipeline.
type StepID string

const (
	StepRequirements     StepID = "requirements"
	StepBranch           StepID = "branch"
	StepCode             StepID = "code"
	StepTests            StepID = "tests"
	StepFixBugs          StepID = "fix-bugs"
	StepResolveConflicts StepID = "resolve-conflicts"
	StepApprovals        StepID = "mr-approvals"
	StepMerge            StepID = "merge-main"
	StepDeploy           StepID = "deploy-prod"
)

// stepSequence is the order in which steps must be caught.
var stepSequence = [...]StepID{
	StepRequirements,
	StepBranch,
	StepCode,
	StepTests,
	StepFixBugs,
	StepResolveConflicts,
	StepApprovals,
	StepMerge,
	StepDeploy,
}

// SequenceLen is the number of steps in one cycle.
const SequenceLen = len(stepSequence)

// StepSequence returns the ordered pipeline steps.
func StepSequence() []StepID {
	out := make([]StepID, SequenceLen)
	copy(out, stepSequence[:])
	return out
}

// StepAt returns the step at index i, wrapping around the sequence.
func StepAt(i int) StepID {
	i %= SequenceLen
	if i < 0 {
		i += SequenceLen
	}
	return stepSequence[i]
}

// StepIndex returns the position of id in the sequence, or -1.
func StepIndex(id StepID) int {
	for i, s := range stepSequence {
		if s == id {
			return i
		}
	}
	return -1
}

// Key returns the label key of the step.
func (s StepID) Key() string { return "step." + string(s) }

// BadKind is an incident that penalizes the player when caught.
type BadKind string

const (
	BadBug   BadKind = "bug"
	BadInfra BadKind = "infra"
)

// HealKind is a fix that offsets an incident.
type HealKind string

const (
	HealFixBug   HealKind = "fix-bug"
	HealFixInfra HealKind = "fix-infra"
)

// Clears returns the incident this fix resolves.
func (h HealKind) Clears() BadKind {
	if h == HealFixInfra {
		return BadInfra
	}
	return BadBug
}

// HealFor returns the fix that resolves an incident.
func HealFor(b BadKind) HealKind {
	if b == BadInfra {
		return HealFixInfra
	}
	return HealFixBug
}

// BlockKind is what a falling block represents. The set of implementations
// is closed: StepBlock, BadBlock, HealBlock and TimeBonusBlock.
type BlockKind interface {
	// Key is the stable label key used for localization.
	Key() string
	blockKind()
}

// StepBlock is a pipeline step.
type StepBlock struct{ Step StepID }

// BadBlock is an incident.
type BadBlock struct{ Bad BadKind }

// HealBlock is a fix.
type HealBlock struct{ Heal HealKind }

// TimeBonusBlock adds time to the session clock.
type TimeBonusBlock struct{}

func (StepBlock) blockKind()      {}
func (BadBlock) blockKind()       {}
func (HealBlock) blockKind()      {}
func (TimeBonusBlock) blockKind() {}

func (k StepBlock) Key() string    { return k.Step.Key() }
func (k BadBlock) Key() string     { return "bad." + string(k.Bad) }
func (k HealBlock) Key() string    { return "heal." + string(k.Heal) }
func (TimeBonusBlock) Key() string { return "time.bonus" }
