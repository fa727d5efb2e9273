package deploy

// Snapshot is a read-only view of the session for presentation.
// It owns its slices; mutating it does not affect the engine.
type Snapshot struct {
	State

	Variant string
	FieldW  float64
	FieldH  float64
	Surface Surface
	Danger  bool   // timer is in its final seconds
	Toast   *Event // recent catch outcome, nil once it has faded
}

// dangerMs is the remaining time under which the timer is shown as critical.
const dangerMs = 10000

// toastMs is how long a catch outcome stays visible.
const toastMs = 600

func newSnapshot(s State, variant string, fieldW, fieldH float64) Snapshot {
	c := s.Clone()
	snap := Snapshot{
		State:   c,
		Variant: variant,
		FieldW:  fieldW,
		FieldH:  fieldH,
		Surface: CatchSurface(c),
		Danger:  c.Phase == PhasePlaying && c.TimeLeftMs < dangerMs,
	}
	if c.LastEvent != nil && c.ElapsedMs-c.LastEventMs <= toastMs {
		snap.Toast = c.LastEvent
	}
	return snap
}

// Checklist returns every step with whether it is done in the current cycle.
func (s Snapshot) Checklist() []ChecklistItem {
	items := make([]ChecklistItem, SequenceLen)
	for i := range SequenceLen {
		items[i] = ChecklistItem{
			Step:    StepAt(i),
			Done:    i < s.GoalIndex,
			Current: i == s.GoalIndex,
		}
	}
	return items
}

// ChecklistItem is one row of the goal checklist.
type ChecklistItem struct {
	Step    StepID
	Done    bool
	Current bool
}
