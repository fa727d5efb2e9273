package tui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/deploy-or-die/internal/games/deploy"
	"github.com/vovakirdan/deploy-or-die/internal/storage"
)

func boardStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	for i, r := range []struct {
		variant, player string
		score           int
	}{
		{"deploy", "tester", 500},
		{"deploy", "bob", 900},
		{"deploy_endless", "tester", 700},
	} {
		res := deploy.Result{
			SessionID:     string(rune('a' + i)),
			Variant:       r.variant,
			Player:        r.player,
			Score:         r.score,
			Seed:          "1",
			Timestamp:     int64(1000 + i),
			ClientVersion: deploy.ClientVersion,
		}.Sign()
		if err := store.SaveResult(res); err != nil {
			t.Fatalf("SaveResult() failed: %v", err)
		}
	}
	return store
}

func boardKey(t *testing.T, m ScoreboardModel, msg tea.KeyMsg) ScoreboardModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(ScoreboardModel)
}

func TestScoreboardTopAndMine(t *testing.T) {
	m := NewScoreboardModel(boardStore(t), testRuntime())

	if m.mode() != "deploy" {
		t.Fatalf("first mode = %q", m.mode())
	}
	if len(m.entries) != 2 || m.entries[0].Player != "bob" {
		t.Fatalf("top entries = %+v", m.entries)
	}
	if m.stats == nil || m.stats.Games != 2 || m.stats.HighScore != 900 {
		t.Errorf("stats = %+v", m.stats)
	}

	m = boardKey(t, m, runes("m"))
	if m.view != viewMine {
		t.Fatal("m did not switch to the player's history")
	}
	if len(m.entries) != 2 {
		t.Fatalf("history has %d entries, want 2", len(m.entries))
	}
	for _, e := range m.entries {
		if e.Player != "tester" {
			t.Errorf("history holds %q's result", e.Player)
		}
	}
	if rows := m.table.Rows(); rows[0][1] != "deploy_endless" {
		t.Errorf("history row names %q, want the mode", rows[0][1])
	}
}

func TestScoreboardCyclesModes(t *testing.T) {
	m := NewScoreboardModel(boardStore(t), testRuntime())

	m = boardKey(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.mode() != "deploy_endless" {
		t.Fatalf("shift+tab from first mode = %q, want last", m.mode())
	}
	if len(m.entries) != 1 || m.entries[0].Score != 700 {
		t.Errorf("endless entries = %+v", m.entries)
	}

	m = boardKey(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.mode() != "deploy" {
		t.Errorf("tab wrapped to %q", m.mode())
	}

	m = boardKey(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if !m.IsGoingBack() || m.IsQuitting() {
		t.Error("esc should go back without quitting")
	}
}
