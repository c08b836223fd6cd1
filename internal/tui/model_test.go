package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/piedpiper/teamboard/internal/board"
	"github.com/piedpiper/teamboard/internal/leaderboard"
	"github.com/piedpiper/teamboard/internal/server"
	"github.com/piedpiper/teamboard/internal/stats"
)

func sizedModel() *Model {
	m := NewModel(NewClient("http://localhost:0"), nil)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestTabCycling(t *testing.T) {
	m := sizedModel()
	if m.activeTab != tabOverview {
		t.Fatalf("initial tab = %v", m.activeTab)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.activeTab != tabActivity {
		t.Errorf("after tab key: %v, want activity", m.activeTab)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.activeTab != tabOverview {
		t.Errorf("after shift+tab: %v, want overview", m.activeTab)
	}

	// Wrap backwards from the first tab.
	m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.activeTab != tabLeaderboard {
		t.Errorf("wrap: %v, want leaderboard", m.activeTab)
	}

	// Direct number keys.
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	if m.activeTab != tabBoard {
		t.Errorf("number key: %v, want board", m.activeTab)
	}
}

func TestQuitKey(t *testing.T) {
	m := sizedModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should produce a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestDataMsgPopulatesView(t *testing.T) {
	m := sizedModel()
	m.Update(dataMsg{
		payload: server.DataPayload{
			Agents: []server.AgentPayload{{
				AgentStats: stats.AgentStats{Agent: "richard", TotalMessages: 3},
				Name:       "Richard Hendricks",
				Status:     "active",
			}},
			Team:        stats.TeamStats{TotalMessages: 3},
			Leaderboard: []leaderboard.Entry{{Rank: 1, Badge: "🥇", Agent: "Richard Hendricks", Score: 10}},
			GeneratedAt: "2026-02-18T15:00:00Z",
		},
		tasks: []board.Task{{ID: 1, Title: "Ship it", Status: board.StatusInProgress}},
	})

	if m.loading {
		t.Error("loading should clear after data arrives")
	}
	if !strings.Contains(m.View(), "Richard Hendricks") {
		t.Error("overview should list the agent")
	}

	m.activeTab = tabBoard
	if view := m.View(); !strings.Contains(view, "Ship it") {
		t.Error("board should render the task title")
	}

	m.activeTab = tabLeaderboard
	if view := m.View(); !strings.Contains(view, "🥇") {
		t.Error("leaderboard should render the badge")
	}
}

func TestErrMsgRendered(t *testing.T) {
	m := sizedModel()
	m.Update(errMsg{err: errFake("connection refused")})
	if view := m.View(); !strings.Contains(view, "connection refused") {
		t.Error("error should surface in the view")
	}
}

type errFake string

func (e errFake) Error() string { return string(e) }
