package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/piedpiper/teamboard/internal/agentlog"
	"github.com/piedpiper/teamboard/internal/board"
	"github.com/piedpiper/teamboard/internal/server"
)

type tabID int

const (
	tabOverview tabID = iota
	tabActivity
	tabBoard
	tabLeaderboard
	tabCount
)

var tabNames = [tabCount]string{"Overview", "Activity", "Board", "Leaderboard"}

const refreshInterval = 15 * time.Second

// KeyMap defines the keybindings for the dashboard.
type KeyMap struct {
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		NextTab: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/→", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("shift+tab/←", "prev tab")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

type dataMsg struct {
	payload server.DataPayload
	tasks   []board.Task
}

type errMsg struct{ err error }

type tickMsg time.Time

type watchMsg agentlog.Event

// Model is the root bubbletea model: four read-only tabs over the API
// payloads, refreshed on a timer and on watcher events.
type Model struct {
	client *Client
	watch  <-chan agentlog.Event

	keymap  KeyMap
	styles  Styles
	spinner spinner.Model

	overview    table.Model
	leaderboard table.Model

	data  server.DataPayload
	tasks []board.Task

	activeTab tabID
	width     int
	height    int
	loading   bool
	err       error
	ready     bool
}

// NewModel builds the dashboard model. watch may be nil when no local
// agents directory is being observed.
func NewModel(client *Client, watch <-chan agentlog.Event) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return &Model{
		client:      client,
		watch:       watch,
		keymap:      DefaultKeyMap(),
		styles:      DefaultStyles(),
		spinner:     sp,
		overview:    newOverviewTable(),
		leaderboard: newLeaderboardTable(),
		loading:     true,
	}
}

func newOverviewTable() table.Model {
	t := table.New(table.WithColumns([]table.Column{
		{Title: "Agent", Width: 20},
		{Title: "Status", Width: 8},
		{Title: "Msgs", Width: 6},
		{Title: "Tokens", Width: 10},
		{Title: "Cost", Width: 9},
		{Title: "Hours", Width: 6},
		{Title: "Context", Width: 14},
	}))
	t.SetHeight(8)
	return t
}

func newLeaderboardTable() table.Model {
	t := table.New(table.WithColumns([]table.Column{
		{Title: "#", Width: 3},
		{Title: "", Width: 3},
		{Title: "Agent", Width: 20},
		{Title: "Score", Width: 6},
		{Title: "Done", Width: 5},
		{Title: "WIP", Width: 5},
		{Title: "Blocked", Width: 8},
		{Title: "Cost", Width: 9},
	}))
	t.SetHeight(8)
	return t
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.spinner.Tick,
		refreshCmd(m.client),
		tickCmd(),
	}
	if m.watch != nil {
		cmds = append(cmds, waitWatchCmd(m.watch))
	}
	return tea.Batch(cmds...)
}

func refreshCmd(client *Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		payload, err := client.Data(ctx)
		if err != nil {
			return errMsg{err}
		}
		tasks, err := client.Sprints(ctx)
		if err != nil {
			return errMsg{err}
		}
		return dataMsg{payload: payload, tasks: tasks}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func waitWatchCmd(ch <-chan agentlog.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		return watchMsg(ev)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.overview.SetHeight(max(4, m.height-14))
		m.leaderboard.SetHeight(max(4, m.height-8))
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, tea.Batch(refreshCmd(m.client), tickCmd())

	case watchMsg:
		// Log files changed under us; refetch and keep listening.
		return m, tea.Batch(refreshCmd(m.client), waitWatchCmd(m.watch))

	case dataMsg:
		m.loading = false
		m.err = nil
		m.data = msg.payload
		m.tasks = msg.tasks
		m.overview.SetRows(overviewRows(msg.payload.Agents))
		m.leaderboard.SetRows(leaderboardRows(msg.payload.Leaderboard))
		return m, nil

	case errMsg:
		m.loading = false
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keymap.NextTab):
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keymap.PrevTab):
		m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		return m, nil
	case key.Matches(msg, m.keymap.Refresh):
		m.loading = true
		return m, refreshCmd(m.client)
	}

	if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= int(tabCount) {
		m.activeTab = tabID(n - 1)
		return m, nil
	}

	// Scroll keys go to the table on the current tab.
	var cmd tea.Cmd
	switch m.activeTab {
	case tabOverview:
		m.overview, cmd = m.overview.Update(msg)
	case tabLeaderboard:
		m.leaderboard, cmd = m.leaderboard.Update(msg)
	}
	return m, cmd
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.renderNavbar())
	b.WriteString("\n")

	if !m.ready || (m.loading && m.data.GeneratedAt == "") {
		b.WriteString(m.styles.Content.Render(fmt.Sprintf("%s Loading...", m.spinner.View())))
		return b.String()
	}
	if m.err != nil {
		b.WriteString(m.styles.Content.Render(m.styles.Error.Render("error: " + m.err.Error())))
		return b.String()
	}

	switch m.activeTab {
	case tabOverview:
		b.WriteString(m.viewOverview())
	case tabActivity:
		b.WriteString(m.viewActivity())
	case tabBoard:
		b.WriteString(m.viewBoard())
	case tabLeaderboard:
		b.WriteString(m.viewLeaderboard())
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Subtle.Render(" tab: switch · r: refresh · q: quit"))
	return b.String()
}

func (m *Model) renderNavbar() string {
	var tabs []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf("[%d] %s", i+1, tabNames[i])
		if i == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render(label))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render(label))
		}
	}
	bar := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
	return m.styles.TabBar.Width(max(m.width, lipgloss.Width(bar))).Render(bar)
}
