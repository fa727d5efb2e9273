package deploy

import (
	"fmt"
	"math"
	"strings"

	"github.com/vovakirdan/deploy-or-die/internal/core"
)

const (
	hudRows   = 2
	panelW    = 24
	minFieldW = 20
	maxFieldW = 64
)

// layout is where each part of the game goes on the current screen.
type layout struct {
	box       core.Rect // field border
	vp        core.Viewport
	panel     core.Rect
	showPanel bool
}

func (g *Game) layout(w, h int) layout {
	l := layout{showPanel: w >= panelW+minFieldW+16}

	avail := w
	if l.showPanel {
		avail -= panelW + 1
	}
	innerW := core.Clamp(avail-2, minFieldW, maxFieldW)
	l.box = core.NewRect(max(0, (avail-innerW-2)/2), hudRows, innerW+2, h-hudRows)
	l.vp = core.Viewport{
		FieldW: g.cfg.Field.Width,
		FieldH: g.cfg.Field.Height,
		Cells:  core.NewRect(l.box.X+1, l.box.Y+1, innerW, l.box.H-2),
	}
	l.panel = core.NewRect(l.box.Right()+1, hudRows, panelW, h-hudRows)
	return l
}

// PointerFraction maps a screen cell to a pointer position across the
// field, as a fraction of its width. ok is false outside the field.
func (g *Game) PointerFraction(col, row, screenW, screenH int) (float64, bool) {
	if g.screenTooSmall {
		return 0, false
	}
	vp := g.layout(screenW, screenH).vp
	if !vp.Cells.Contains(col, row) {
		return 0, false
	}
	return vp.FieldX(col) / vp.FieldW, true
}

// Render draws the current game state.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()
	if g.engine == nil {
		return
	}

	if g.screenTooSmall {
		dst.DrawTextCentered(dst.Height()/2-1, g.text("ui.too-small"), core.ColorDanger)
		dst.DrawTextCentered(dst.Height()/2+1, fmt.Sprintf("%dx%d", g.minScreenW, g.minScreenH), core.ColorHUD)
		return
	}

	l := g.layout(dst.Width(), dst.Height())
	s := g.snap

	g.renderHUD(dst, s)
	dst.DrawBox(l.box, core.ColorMuted)
	if l.showPanel {
		g.renderChecklist(dst, l.panel, s)
	}

	if s.Phase != PhaseIdle {
		g.renderStack(dst, l.vp, s)
		g.renderBlocks(dst, l.vp, s)
		g.renderPlatform(dst, l.vp, s)
	}

	g.renderOverlay(dst, l.box, s)
}

// renderHUD draws timer, score and combo on row 0 and the goal on row 1.
func (g *Game) renderHUD(dst *core.Screen, s Snapshot) {
	timeColor := core.ColorHUD
	if s.Danger {
		timeColor = core.ColorDanger
	}
	dst.DrawTextColor(1, 0, fmt.Sprintf("%s %s", g.text("ui.time"), formatClock(s.TimeLeftMs, s.Danger)), timeColor)
	dst.DrawTextCentered(0, fmt.Sprintf("%s %d", g.text("ui.score"), s.Score), core.ColorHUD)

	combo := fmt.Sprintf("%s x%.1f", g.text("ui.combo"), g.scorerMultiplier(s.Combo))
	dst.DrawTextColor(dst.Width()-len([]rune(combo))-1, 0, combo, core.ColorHUD)

	if s.Blocked() {
		dst.DrawTextColor(1, 1, fmt.Sprintf("%s %s", g.text("ui.blocked"), g.text(BadBlock{s.BlockedBy}.Key())), core.ColorDanger)
	} else {
		dst.DrawTextColor(1, 1, fmt.Sprintf("%s %s", g.text("ui.next"), g.text(s.Goal().Key())), core.ColorGoal)
	}

	if s.Toast != nil {
		text, c := toastText(*s.Toast)
		dst.DrawTextColor(dst.Width()-len([]rune(text))-1, 1, text, c)
	}
}

func (g *Game) scorerMultiplier(combo float64) float64 {
	return g.engine.scorer.ComboMultiplier(combo)
}

// toastText formats a catch outcome as a short delta.
func toastText(ev Event) (string, core.Color) {
	switch {
	case ev.ScoreDelta > 0:
		return fmt.Sprintf("+%d", ev.ScoreDelta), core.ColorSuccess
	case ev.ScoreDelta < 0:
		return fmt.Sprintf("%d", ev.ScoreDelta), core.ColorDanger
	case ev.TimeDeltaMs > 0:
		return fmt.Sprintf("+%ds", int(math.Round(ev.TimeDeltaMs/1000))), core.ColorTime
	case ev.TimeDeltaMs < 0:
		return fmt.Sprintf("%ds", int(math.Round(ev.TimeDeltaMs/1000))), core.ColorDanger
	default:
		return string(ev.Type), core.ColorHUD
	}
}

// formatClock renders remaining time as m:ss, with tenths in the danger zone.
func formatClock(ms float64, precise bool) string {
	if precise {
		return fmt.Sprintf("%.1fs", math.Max(0, ms)/1000)
	}
	secs := int(math.Ceil(math.Max(0, ms) / 1000))
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func (g *Game) renderChecklist(dst *core.Screen, r core.Rect, s Snapshot) {
	dst.DrawTextColor(r.X, r.Y+1, g.text("ui.pipeline"), core.ColorHUD)
	for i, item := range s.Checklist() {
		y := r.Y + 3 + i
		mark, c := "  ", core.ColorHUD
		switch {
		case item.Done:
			mark, c = "✓ ", core.ColorMuted
		case item.Current:
			mark, c = "> ", core.ColorGoal
		}
		dst.DrawTextColor(r.X, y, fit(mark+g.text(item.Step.Key()), r.W), c)
	}

	y := r.Y + 4 + SequenceLen
	dst.DrawTextColor(r.X, y, fmt.Sprintf("%s: %d", g.text("ui.cycles"), s.CompletedCycles), core.ColorHUD)
	dst.DrawTextColor(r.X, y+1, fmt.Sprintf("%s: %d", g.text("ui.mistakes"), s.Mistakes), core.ColorHUD)
	if s.Phase != PhaseIdle {
		dst.DrawTextColor(r.X, y+2, fmt.Sprintf("%s: %s", g.text("ui.seed"), SeedHex(s.Seed)), core.ColorMuted)
	}
}

func (g *Game) renderStack(dst *core.Screen, vp core.Viewport, s Snapshot) {
	bottom := s.Platform.Y
	for _, b := range s.Stack {
		cy := bottom - b.H/2
		g.drawBlock(dst, vp, s.Platform.X+b.DX, cy, b.W, b.H, g.short(StepBlock{b.Step}.Key()), core.ColorStack)
		bottom -= b.H
	}
}

func (g *Game) renderBlocks(dst *core.Screen, vp core.Viewport, s Snapshot) {
	for _, b := range s.Blocks {
		g.drawBlock(dst, vp, b.X, b.Y, b.W, b.H, g.short(b.Kind.Key()), blockColor(b.Kind, s))
	}
}

func blockColor(k BlockKind, s Snapshot) core.Color {
	switch k := k.(type) {
	case StepBlock:
		if k.Step == s.Goal() {
			return core.ColorGoal
		}
		return core.ColorStep
	case BadBlock:
		return core.ColorBad
	case HealBlock:
		return core.ColorHeal
	case TimeBonusBlock:
		return core.ColorTime
	}
	return core.ColorDefault
}

// drawBlock draws a block centered at (cx, cy) in field units, clipped to
// the field. The first row carries the label.
func (g *Game) drawBlock(dst *core.Screen, vp core.Viewport, cx, cy, w, h float64, label string, c core.Color) {
	cw, ch := vp.CellW(w), vp.CellH(h)
	x0, y0 := vp.CellX(cx-w/2), vp.CellY(cy-h/2)
	inner := max(0, cw-2)

	for row := range ch {
		line := "[" + strings.Repeat("▒", inner) + "]"
		if row == 0 {
			line = "[" + center(label, inner) + "]"
		}
		if cw < 2 {
			line = "█"
		}
		for col, r := range []rune(line) {
			x, y := x0+col, y0+row
			if vp.Cells.Contains(x, y) {
				dst.SetColor(x, y, r, c)
			}
		}
	}
}

func (g *Game) renderPlatform(dst *core.Screen, vp core.Viewport, s Snapshot) {
	p := s.Platform
	y := min(vp.CellY(p.Y), vp.Cells.Bottom()-1)
	x0 := vp.CellX(p.X - p.Width/2)
	for i := range vp.CellW(p.Width) {
		if vp.Cells.Contains(x0+i, y) {
			dst.SetColor(x0+i, y, '▀', core.ColorPlatform)
		}
	}
}

func (g *Game) renderOverlay(dst *core.Screen, box core.Rect, s Snapshot) {
	mid := box.Y + box.H/2
	put := func(dy int, text string, c core.Color) {
		x := box.X + (box.W-len([]rune(text)))/2
		dst.DrawTextColor(max(box.X+1, x), mid+dy, text, c)
	}

	switch {
	case s.Phase == PhaseIdle:
		put(-4, g.text("ui.title"), core.ColorGoal)
		put(-2, g.text("ui.rules.catch"), core.ColorHUD)
		put(-1, g.text("ui.rules.avoid"), core.ColorHUD)
		put(0, g.text("ui.rules.controls"), core.ColorHUD)
		put(2, g.text("ui.press-start"), core.ColorSuccess)

	case s.Phase.Terminal():
		title, c := g.text("ui.fail"), core.ColorDanger
		if s.Phase == PhaseSuccess {
			title, c = g.text("ui.success"), core.ColorSuccess
		}
		put(-3, title, c)
		put(-1, fmt.Sprintf("%s: %d", g.text("ui.score"), s.Score), core.ColorHUD)
		put(0, fmt.Sprintf("%s: %d  %s: %d", g.text("ui.cycles"), s.CompletedCycles, g.text("ui.mistakes"), s.Mistakes), core.ColorHUD)
		put(1, fmt.Sprintf("%s: %s", g.text("ui.seed"), SeedHex(s.Seed)), core.ColorMuted)
		put(3, g.text("ui.restart"), core.ColorHUD)

	case g.paused:
		put(0, g.text("ui.paused"), core.ColorHUD)
		put(1, g.text("ui.resume"), core.ColorMuted)
	}
}

// text resolves a label key. Without a catalogue the key's last part is shown.
func (g *Game) text(key string) string {
	s := g.runtime.Text(key)
	if s == key {
		if i := strings.IndexByte(key, '.'); i >= 0 {
			return key[i+1:]
		}
	}
	return s
}

// short resolves the compact form of a label used inside blocks.
func (g *Game) short(key string) string {
	if s := g.runtime.Text(key + ".short"); s != key+".short" {
		return s
	}
	return g.text(key)
}

// fit truncates s to n runes.
func fit(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// center pads or truncates s to exactly n runes.
func center(s string, n int) string {
	s = fit(s, n)
	pad := n - len([]rune(s))
	return strings.Repeat(" ", pad/2) + s + strings.Repeat(" ", pad-pad/2)
}
