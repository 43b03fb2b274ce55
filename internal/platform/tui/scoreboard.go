package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-bullethell/internal/config"
	"github.com/vovakirdan/tui-bullethell/internal/core"
	"github.com/vovakirdan/tui-bullethell/internal/storage"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 100 // Minimum width to show difficulty sidebar
	sidebarWidth       = 18  // Width of difficulty sidebar
	maxScores          = storage.DefaultLeaderboardLimit
	loadTimeout        = 3 * time.Second
)

// LeaderboardSource provides ranked best runs. *storage.Store implements it.
type LeaderboardSource interface {
	Leaderboard(ctx context.Context, difficulty, deviceType string, limit int) ([]storage.LeaderboardEntry, error)
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Device  key.Binding
	Back    key.Binding
	Quit    key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Refresh key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Device, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab},
		{k.Device, k.Refresh, k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev difficulty"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next difficulty"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next difficulty"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev difficulty"),
		),
		Device: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "terminal/ssh"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel is the Bubble Tea model for the leaderboard screen.
// It shows one board per difficulty and device type.
type ScoreboardModel struct {
	difficulties []string
	cursor       int // Selected difficulty
	deviceType   string
	source       LeaderboardSource
	entries      []storage.LeaderboardEntry
	loadErr      error
	table        table.Model
	help         help.Model
	keys         ScoreboardKeyMap
	width        int
	height       int
	quitting     bool
	goingBack    bool // True if user pressed back (not quit)
	showSidebar  bool // Whether to show difficulty sidebar
}

// NewScoreboardModel creates a new scoreboard model opened on difficulty.
// source may be nil when no database is available.
func NewScoreboardModel(source LeaderboardSource, difficulty, deviceType string, width, height int) ScoreboardModel {
	keys := DefaultScoreboardKeyMap()
	h := help.New()
	h.ShowAll = false

	m := ScoreboardModel{
		difficulties: config.Difficulties(),
		deviceType:   core.NormalizeDeviceType(deviceType),
		source:       source,
		keys:         keys,
		help:         h,
		width:        width,
		height:       height,
		showSidebar:  width >= minWidthForSidebar,
	}
	for i, d := range m.difficulties {
		if d == difficulty {
			m.cursor = i
		}
	}

	m.table = m.createTable()
	m.loadScores()

	return m
}

// createTable creates a new table with appropriate columns.
func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Player", Width: 14},
		{Title: "Time", Width: 10},
		{Title: "Density/Pattern", Width: 16},
		{Title: "Date", Width: 12},
	}

	// Calculate available width for table
	tableWidth := m.width - 4 // Margins
	if m.showSidebar {
		tableWidth -= sidebarWidth + 3 // Sidebar + border + gap
	}

	// Give spare width to the player column
	if spare := tableWidth - 6 - 14 - 10 - 16 - 12 - 10; spare > 0 {
		columns[1].Width += min(spare, core.MaxPlayerName-columns[1].Width)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)), // Leave room for header, tabs, help and margins
	)

	// Table styles
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

// loadScores loads the board for the selected difficulty and device.
func (m *ScoreboardModel) loadScores() {
	m.entries = nil
	m.loadErr = nil

	if m.source != nil && len(m.difficulties) > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		m.entries, m.loadErr = m.source.Leaderboard(ctx, m.difficulty(), m.deviceType, maxScores)
	}
	m.updateTableRows()
}

// updateTableRows updates the table with current entries.
func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.entries))
	for i, e := range m.entries {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", e.Rank),
			e.Username,
			formatSurvival(e.SurvivalTime),
			e.Density + "/" + e.Pattern,
			e.CreatedAt.Local().Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)

	// Reset cursor to top
	m.table.GotoTop()
}

func (m ScoreboardModel) difficulty() string {
	if len(m.difficulties) == 0 {
		return ""
	}
	return m.difficulties[m.cursor]
}

// formatSurvival renders seconds as m:ss.cc.
func formatSurvival(seconds float64) string {
	cs := int(seconds*100 + 0.5)
	return fmt.Sprintf("%d:%02d.%02d", cs/6000, cs/100%60, cs%100)
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab), key.Matches(msg, m.keys.Right):
			if len(m.difficulties) > 0 {
				m.cursor = (m.cursor + 1) % len(m.difficulties)
				m.loadScores()
			}
			return m, nil

		case key.Matches(msg, m.keys.PrevTab), key.Matches(msg, m.keys.Left):
			if len(m.difficulties) > 0 {
				m.cursor--
				if m.cursor < 0 {
					m.cursor = len(m.difficulties) - 1
				}
				m.loadScores()
			}
			return m, nil

		case key.Matches(msg, m.keys.Device):
			if m.deviceType == core.DeviceSSH {
				m.deviceType = core.DeviceTerminal
			} else {
				m.deviceType = core.DeviceSSH
			}
			m.loadScores()
			return m, nil

		case key.Matches(msg, m.keys.Refresh):
			m.loadScores()
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			// Pass to table for scrolling
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	// Pass other messages to table
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder

	// Title
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)

	title := fmt.Sprintf("LEADERBOARD - %s (%s)", strings.ToUpper(m.difficulty()), m.deviceType)
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")

	if m.showSidebar {
		// Wide layout: sidebar + table
		b.WriteString(m.renderWideLayout())
	} else {
		// Narrow layout: difficulty tabs + table
		b.WriteString(m.renderNarrowLayout())
	}

	// Help bar
	b.WriteString("\n")
	helpStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

// renderWideLayout renders the scoreboard with sidebar for difficulty selection.
func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Difficulty\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, d := range m.difficulties {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(lipgloss.Color("229"))
		}
		sidebar.WriteString(style.Render(cursor + d))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

// renderNarrowLayout renders the scoreboard with difficulty tabs above the table.
func (m ScoreboardModel) renderNarrowLayout() string {
	var b strings.Builder

	tabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	tabs := make([]string, len(m.difficulties))
	for i, d := range m.difficulties {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(d)
		} else {
			tabs[i] = tabStyle.Render(" " + d + " ")
		}
	}

	tabLine := strings.Join(tabs, " ")
	if lipgloss.Width(tabLine) > m.width-4 {
		// Just show current difficulty with arrows
		tabLine = fmt.Sprintf("< %s >", m.difficulty())
	}
	b.WriteString(centerStyled(tabLine, m.width))
	b.WriteString("\n\n")

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	b.WriteString(tableStyle.Render(m.renderTableContent()))

	return b.String()
}

// renderTableContent renders the table or an explanatory message.
func (m ScoreboardModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.source == nil:
		return emptyStyle.Render("Leaderboard unavailable.\nScores are not being recorded.")
	case m.loadErr != nil:
		return emptyStyle.Render("Could not load the leaderboard.\nPress r to retry.")
	case len(m.entries) == 0:
		return emptyStyle.Render("No runs recorded yet.\nPlay a ranked run to set the pace!")
	}

	return m.table.View()
}

// Entries returns the loaded leaderboard rows.
func (m ScoreboardModel) Entries() []storage.LeaderboardEntry {
	return m.entries
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(source LeaderboardSource, difficulty, deviceType string, width, height int) (goBack bool, err error) {
	model := NewScoreboardModel(source, difficulty, deviceType, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

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
