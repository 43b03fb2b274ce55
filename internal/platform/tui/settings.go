package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-bullethell/internal/config"
	"github.com/vovakirdan/tui-bullethell/internal/core"
	"github.com/vovakirdan/tui-bullethell/internal/registry"
)

// Settings menu rows, top to bottom.
const (
	rowMode = iota
	rowDifficulty
	rowDensity
	rowPattern
	rowHP
	rowStart
	rowCount
)

// Selection is everything the settings menu decides about the next run.
type Selection struct {
	Mode       string
	PlayerName string
	Settings   config.Settings
}

// SettingsModel is the Bubble Tea model for the pre-game settings menu.
// Ranked modes need a valid player name; without one, starting opens a
// name prompt.
type SettingsModel struct {
	modes        []registry.GameInfo
	ranked       map[string]bool
	difficulties []string
	densities    []string
	patterns     []string

	selection  Selection
	cursor     int
	width      int
	height     int
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	nameInput  textinput.Model
	editing    bool   // Name prompt is open
	nameLocked bool   // Name comes from the session and cannot change
	nameErr    string // Last validation error of the prompt

	quitting       bool
	started        bool
	openScoreboard bool
}

// NewSettingsModel creates a settings menu preselecting sel.
func NewSettingsModel(sel Selection, nameLocked bool, cfg core.RuntimeConfig) SettingsModel {
	modes := registry.List()
	ranked := make(map[string]bool, len(modes))
	for _, info := range modes {
		if g, err := registry.Create(info.ID); err == nil {
			if rep, ok := g.(registry.Reporter); ok {
				ranked[info.ID] = rep.Ranked()
			}
		}
	}
	if len(modes) > 0 && !registry.Exists(sel.Mode) {
		sel.Mode = modes[0].ID
	}
	sel.Settings = sel.Settings.Normalize(config.DefaultBulletHellConfig())

	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.Prompt = "Name: "
	ti.CharLimit = core.MaxPlayerName
	ti.Width = core.MaxPlayerName + 1
	ti.SetValue(sel.PlayerName)

	return SettingsModel{
		modes:        modes,
		ranked:       ranked,
		difficulties: config.Difficulties(),
		densities:    config.Densities(),
		patterns:     config.Patterns(),
		selection:    sel,
		cursor:       rowStart,
		width:        cfg.ScreenW,
		height:       cfg.ScreenH,
		config:       cfg,
		keyMapper:    NewKeyMapper(),
		nameInput:    ti,
		nameLocked:   nameLocked,
	}
}

// Init initializes the settings model.
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the settings menu.
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleNameKey(msg)
		}
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m SettingsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "n" && !m.nameLocked {
		return m.openNamePrompt()
	}

	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < rowCount-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.change(-1)

	case MenuActionRight:
		m.change(1)

	case MenuActionSelect:
		return m.start()

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// handleNameKey feeds the name prompt.
func (m SettingsModel) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "esc":
		m.editing = false
		m.nameErr = ""
		m.nameInput.Blur()
		return m, nil

	case "enter":
		name, err := core.NormalizePlayerName(m.nameInput.Value())
		if err != nil {
			m.nameErr = fmt.Sprintf("Name must be %d-%d characters", core.MinPlayerName, core.MaxPlayerName)
			return m, nil
		}
		m.selection.PlayerName = name
		m.editing = false
		m.nameErr = ""
		m.nameInput.Blur()
		return m.start()
	}

	var cmd tea.Cmd
	m.nameInput, cmd = m.nameInput.Update(msg)
	return m, cmd
}

func (m SettingsModel) openNamePrompt() (tea.Model, tea.Cmd) {
	m.editing = true
	m.nameErr = ""
	m.nameInput.SetValue(m.selection.PlayerName)
	m.nameInput.CursorEnd()
	return m, m.nameInput.Focus()
}

// start leaves the menu, unless a ranked run still needs a name.
func (m SettingsModel) start() (tea.Model, tea.Cmd) {
	if m.ranked[m.selection.Mode] && !m.nameLocked {
		if _, err := core.NormalizePlayerName(m.selection.PlayerName); err != nil {
			return m.openNamePrompt()
		}
	}
	m.started = true
	return m, tea.Quit
}

// change moves the value of the current row by delta, wrapping around.
func (m *SettingsModel) change(delta int) {
	s := &m.selection.Settings
	switch m.cursor {
	case rowMode:
		ids := make([]string, len(m.modes))
		for i, info := range m.modes {
			ids[i] = info.ID
		}
		m.selection.Mode = cycle(ids, m.selection.Mode, delta)
	case rowDifficulty:
		s.Difficulty = cycle(m.difficulties, s.Difficulty, delta)
	case rowDensity:
		s.Density = cycle(m.densities, s.Density, delta)
	case rowPattern:
		s.Pattern = cycle(m.patterns, s.Pattern, delta)
	case rowHP:
		s.MaxHP = (s.MaxHP-1+delta+config.MaxHPLimit)%config.MaxHPLimit + 1
	}
}

// cycle returns the value delta steps away from current.
func cycle(values []string, current string, delta int) string {
	if len(values) == 0 {
		return current
	}
	i := slices.Index(values, current)
	if i < 0 {
		return values[0]
	}
	n := len(values)
	return values[((i+delta)%n+n)%n]
}

// View renders the settings menu.
func (m SettingsModel) View() string {
	if m.quitting {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	activeStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerStyled(titleStyle.Render("B U L L E T   H E L L"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Survive as long as you can", m.width))
	b.WriteString("\n\n")

	labels := [rowCount]string{"Mode", "Difficulty", "Density", "Pattern", "HP", ""}
	values := [rowCount]string{
		m.modeTitle(),
		m.selection.Settings.Difficulty,
		m.selection.Settings.Density,
		m.selection.Settings.Pattern,
		fmt.Sprintf("%d", m.selection.Settings.MaxHP),
	}

	for row := range rowCount {
		var line string
		if row == rowStart {
			line = "  Start  "
			if m.cursor == row {
				line = "> Start <"
			}
		} else {
			line = fmt.Sprintf("%-10s   %s  ", labels[row], values[row])
			if m.cursor == row {
				line = fmt.Sprintf("%-10s < %s >", labels[row], values[row])
			}
		}
		if m.cursor == row {
			line = activeStyle.Render(line)
		}
		if row == rowStart {
			b.WriteString("\n")
		}
		b.WriteString(centerStyled(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.editing:
		b.WriteString(centerStyled(m.nameInput.View(), m.width))
		b.WriteString("\n")
		if m.nameErr != "" {
			b.WriteString(centerStyled(errStyle.Render(m.nameErr), m.width))
			b.WriteString("\n")
		}
		b.WriteString(centerStyled(dimStyle.Render("Enter: Confirm  |  Esc: Cancel"), m.width))
		b.WriteString("\n")
		return b.String()

	case m.selection.PlayerName != "":
		b.WriteString(centerText("Player: "+m.selection.PlayerName, m.width))
	case m.ranked[m.selection.Mode]:
		b.WriteString(centerStyled(dimStyle.Render("Ranked runs ask for your name"), m.width))
	}
	b.WriteString("\n\n")

	controls := "Up/Down: Move  |  Left/Right: Change  |  Enter: Start  |  Tab: Scores  |  Q: Quit"
	if !m.nameLocked {
		controls += "  |  N: Name"
	}
	b.WriteString(centerStyled(dimStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

func (m SettingsModel) modeTitle() string {
	for _, info := range m.modes {
		if info.ID == m.selection.Mode {
			return info.Title
		}
	}
	return m.selection.Mode
}

// Selection returns the current selection.
func (m SettingsModel) Selection() Selection {
	return m.selection
}

// Started returns true if the player chose to start a run.
func (m SettingsModel) Started() bool {
	return m.started
}

// IsQuitting returns true if user requested to quit.
func (m SettingsModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m SettingsModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m SettingsModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text
}

// centerStyled centers text that may contain ANSI sequences.
func centerStyled(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// SettingsResult holds the result of running the settings menu.
type SettingsResult struct {
	Selection       Selection
	Config          core.RuntimeConfig
	Start           bool
	WantsScoreboard bool
	Quit            bool
}

// RunSettings runs the settings menu and returns the outcome.
func RunSettings(sel Selection, nameLocked bool, cfg core.RuntimeConfig) (SettingsResult, error) {
	model := NewSettingsModel(sel, nameLocked, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return SettingsResult{Selection: sel, Config: cfg}, err
	}

	m, ok := finalModel.(SettingsModel)
	if !ok {
		return SettingsResult{Selection: sel, Config: cfg, Quit: true}, nil
	}

	result := SettingsResult{
		Selection: m.Selection(),
		Config:    m.Config(),
	}

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.Started():
		result.Start = true
	default:
		result.Quit = true
	}

	return result, nil
}
