package core

// Color is a semantic foreground color for a screen cell.
// The platform layer maps each value to a terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorStep          // pipeline step blocks
	ColorGoal          // the step the player must catch next
	ColorBad           // incidents
	ColorHeal          // fixes
	ColorTime          // time bonus pickups
	ColorPlatform      // the catch platform
	ColorStack         // blocks already stacked on the platform
	ColorHUD           // timer, score, labels
	ColorDanger        // low timer, penalties
	ColorSuccess       // positive score deltas, cycle complete
	ColorMuted         // checklist entries already done
)
