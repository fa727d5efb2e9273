package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/deploy-or-die/internal/core"
	"github.com/vovakirdan/deploy-or-die/internal/registry"
	"github.com/vovakirdan/deploy-or-die/internal/storage"
)

const maxScores = 100

// boardView selects what the results board lists.
type boardView int

const (
	viewTop  boardView = iota // best results of the selected mode
	viewMine                  // the player's own recent sessions, all modes
)

// ScoreboardKeyMap defines the key bindings for the results board.
type ScoreboardKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Toggle, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Next, k.Prev}, {k.Toggle, k.Back, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "scroll")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "scroll")),
		Next:   key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "mode")),
		Prev:   key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("←", "prev mode")),
		Toggle: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "top/mine")),
		Back:   key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel shows stored results: the top of one mode, or the
// current player's history across modes.
type ScoreboardModel struct {
	modes     []registry.GameInfo
	cursor    int
	view      boardView
	player    string
	store     *storage.Store
	entries   []storage.Entry
	stats     *storage.VariantStats
	text      func(key string) string
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a results board for cfg.Player.
func NewScoreboardModel(store *storage.Store, cfg core.RuntimeConfig) ScoreboardModel {
	m := ScoreboardModel{
		modes:  registry.List(),
		player: cfg.Player,
		store:  store,
		text:   cfg.Text,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
	}
	m.table = m.createTable()
	m.reload()
	return m
}

func (m ScoreboardModel) mode() string {
	if len(m.modes) == 0 {
		return ""
	}
	return m.modes[m.cursor].ID
}

func (m *ScoreboardModel) createTable() table.Model {
	second := m.text("scores.player")
	if m.view == viewMine {
		second = m.text("scores.mode")
	}
	columns := []table.Column{
		{Title: m.text("scores.rank"), Width: 5},
		{Title: second, Width: 16},
		{Title: m.text("scores.score"), Width: 8},
		{Title: m.text("scores.cycles"), Width: 7},
		{Title: m.text("scores.date"), Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(3, m.height-10)),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// reload fetches entries and stats for the current view and mode.
func (m *ScoreboardModel) reload() {
	m.entries, m.stats = nil, nil
	if m.store != nil {
		var err error
		if m.view == viewMine {
			m.entries, err = m.store.PlayerHistory(m.player, maxScores)
		} else {
			m.entries, err = m.store.TopResults(m.mode(), maxScores)
		}
		if err != nil {
			m.entries = nil
		}
		if st, err := m.store.Stats(m.mode()); err == nil {
			m.stats = st
		}
	}

	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		cycles := fmt.Sprintf("%d", e.CompletedCycles)
		if e.Success {
			cycles += " ✓"
		}
		second := e.Player
		if m.view == viewMine {
			second = e.Variant
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			second,
			fmt.Sprintf("%d", e.Score),
			cycles,
			e.PlayedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
			if n := len(m.modes); n > 0 {
				step := 1
				if key.Matches(msg, m.keys.Prev) {
					step = n - 1
				}
				m.cursor = (m.cursor + step) % n
				m.reload()
			}
			return m, nil
		case key.Matches(msg, m.keys.Toggle):
			m.view = 1 - m.view
			m.table = m.createTable()
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table = m.createTable()
		m.reload()
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render(m.text("scores.title")), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.modeLine(), m.width))
	b.WriteString("\n")
	if m.stats != nil && m.stats.Games > 0 {
		line := fmt.Sprintf(m.text("scores.stats"), m.stats.Games, m.stats.Wins, m.stats.HighScore)
		b.WriteString(centerText(menuMutedStyle.Render(line), m.width))
	}
	b.WriteString("\n\n")

	body := m.table.View()
	if len(m.entries) == 0 {
		body = lipgloss.NewStyle().Italic(true).Padding(1, 4).Render(m.text("scores.empty"))
	}
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(body)
	for _, line := range strings.Split(box, "\n") {
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(menuMutedStyle.Render(m.help.View(m.keys)), m.width))
	return b.String()
}

// modeLine lists the modes the way the menu does, highlighting the
// selected one, followed by the active view.
func (m ScoreboardModel) modeLine() string {
	parts := make([]string, 0, len(m.modes)+1)
	for i, g := range m.modes {
		if i == m.cursor {
			parts = append(parts, menuCursorStyle.Render("> "+g.Title))
		} else {
			parts = append(parts, menuMutedStyle.Render(g.Title))
		}
	}
	line := strings.Join(parts, "   ")
	if lipgloss.Width(line) > m.width-4 && len(m.modes) > 0 {
		line = menuCursorStyle.Render("< " + m.modes[m.cursor].Title + " >")
	}

	view := m.text("scores.top")
	if m.view == viewMine {
		view = m.text("scores.mine") + ": " + m.player
	}
	return line + "   [" + view + "]"
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the results board.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, cfg core.RuntimeConfig) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, cfg), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
