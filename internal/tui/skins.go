package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mediabrowse/internal/settings"
	"mediabrowse/internal/skins"
)

var boxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)

const skinPage = 10

// SkinOptions configures the skin selector.
type SkinOptions struct {
	Profile    skins.Profile
	GUISkinDir string
	Store      *settings.Store
	Restarter  skins.Restarter
}

type skinModel struct {
	opts    SkinOptions
	list    []skins.Skin
	cursor  int
	preview string

	keys skinKeys
	help help.Model

	prompt  bool
	about   bool
	applied string
	err     error
}

func newSkinModel(opts SkinOptions, list []skins.Skin, current string) *skinModel {
	m := &skinModel{
		opts: opts,
		list: list,
		keys: newSkinKeys(),
		help: help.New(),
	}
	m.cursor = skins.InitialIndex(opts.Profile, list, current)
	m.loadPreview()
	return m
}

// SelectSkin runs the skin selector and returns the applied config value,
// empty when the user closed it without applying.
func SelectSkin(opts SkinOptions) (string, error) {
	list, err := opts.Profile.Discover()
	if err != nil {
		return "", err
	}
	current, err := opts.Store.Get(opts.Profile.ConfigKey)
	if err != nil {
		return "", err
	}
	m := newSkinModel(opts, list, current)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return "", err
	}
	return m.applied, m.err
}

func (m *skinModel) current() string {
	if m.cursor < 0 || m.cursor >= len(m.list) {
		return ""
	}
	return m.list[m.cursor].Name
}

func (m *skinModel) move(i int) {
	if len(m.list) == 0 {
		return
	}
	m.cursor = max(0, min(i, len(m.list)-1))
	m.loadPreview()
}

func (m *skinModel) loadPreview() {
	if name := m.current(); name != "" {
		m.preview = m.opts.Profile.PreviewPath(name, m.opts.GUISkinDir)
	}
}

func (m *skinModel) Init() tea.Cmd { return nil }

func (m *skinModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		if ws, ok := msg.(tea.WindowSizeMsg); ok {
			m.help.Width = ws.Width
		}
		return m, nil
	}
	if m.prompt {
		switch {
		case key.Matches(km, m.keys.Yes):
			m.prompt = false
			name := m.current()
			if err := m.opts.Profile.Apply(name, m.opts.Store, m.opts.Restarter); err != nil {
				m.err = err
				return m, nil
			}
			m.err = nil
			m.applied = m.opts.Profile.ConfigValue(name)
			return m, tea.Quit
		case key.Matches(km, m.keys.No):
			m.prompt = false
		}
		return m, nil
	}
	if m.about {
		// any key dismisses the about box
		m.about = false
		return m, nil
	}
	switch {
	case key.Matches(km, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(km, m.keys.Up):
		m.move(m.cursor - 1)
	case key.Matches(km, m.keys.Down):
		m.move(m.cursor + 1)
	case key.Matches(km, m.keys.PageUp):
		m.move(m.cursor - skinPage)
	case key.Matches(km, m.keys.PageDown):
		m.move(m.cursor + skinPage)
	case key.Matches(km, m.keys.Apply):
		if m.current() != "" {
			m.prompt = true
		}
	case key.Matches(km, m.keys.About):
		m.about = true
	}
	return m, nil
}

func (m *skinModel) View() string {
	lines := []string{headerStyle.Render(" " + m.opts.Profile.Title + " "), statusStyle.Render(skins.Introduction), ""}
	if len(m.list) == 0 {
		lines = append(lines, syntheticRow.Render("no skins installed"))
	}
	for i, s := range m.list {
		if i == m.cursor {
			lines = append(lines, cursorStyle.Render("> ")+s.Name)
		} else {
			lines = append(lines, "  "+s.Name)
		}
	}
	lines = append(lines, "", fmt.Sprintf("Preview: %s", m.preview))
	switch {
	case m.prompt:
		lines = append(lines, "", boxStyle.Render(skins.RestartTitle+"\n\n"+skins.RestartPrompt+"\n\n[y] yes  [n] no"))
	case m.about:
		lines = append(lines, "", boxStyle.Render("About...\n\n"+skins.AboutText))
	}
	if m.err != nil {
		lines = append(lines, "", fmt.Sprintf("error: %v", m.err))
	}
	lines = append(lines, m.help.View(m.keys))
	return container.Render(strings.Join(lines, "\n"))
}
