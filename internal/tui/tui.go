package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"mediabrowse/internal/filelist"
	"mediabrowse/internal/logging"
	"mediabrowse/internal/volumes"
)

type storageChangedMsg struct{ change volumes.Change }
type watchClosedMsg struct{}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	dirStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	syntheticRow  = lipgloss.NewStyle().Faint(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	statusStyle   = lipgloss.NewStyle().Faint(true)
	container     = lipgloss.NewStyle().Padding(1)
)

// BrowseOptions configures a browser session.
type BrowseOptions struct {
	Directory   string
	Source      volumes.Source
	Lister      filelist.Options
	Multi       bool
	Preselected []string
	// WatchRoot is watched for volumes coming and going; empty disables it.
	WatchRoot string
}

// Result is what the user chose.
type Result struct {
	Picked    string
	Selected  []string
	Aborted   bool
	// Dropped counts selected paths that vanished before confirmation.
	Dropped   int
	Directory string
	OwnerOf   func(string) string
}

type model struct {
	list  *filelist.Lister
	multi *filelist.MultiSelect

	keys browserKeys
	help help.Model
	vp   viewport.Model

	changes <-chan volumes.Change

	status  string
	picked  string
	chosen  []string
	dropped int
	aborted bool
	done    bool
}

func newModel(opts BrowseOptions, changes <-chan volumes.Change) *model {
	m := &model{
		keys:    newBrowserKeys(opts.Multi),
		help:    help.New(),
		vp:      viewport.New(80, 20),
		changes: changes,
	}
	if opts.Multi {
		m.multi = filelist.NewMultiSelect(opts.Preselected, opts.Directory, opts.Source, opts.Lister)
		m.list = m.multi.Lister
	} else {
		m.list = filelist.New(opts.Directory, opts.Source, opts.Lister)
	}
	m.refreshViewport()
	return m
}

// Browse runs the file browser until the user picks, confirms or quits.
func Browse(opts BrowseOptions) (Result, error) {
	log := logging.Named("tui")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var changes chan volumes.Change
	if opts.WatchRoot != "" {
		w, err := volumes.NewWatcher(opts.WatchRoot)
		if err != nil {
			log.Warn("storage watcher disabled", zap.Error(err))
		} else {
			defer w.Close()
			changes = make(chan volumes.Change, 16)
			go func() {
				defer close(changes)
				_ = w.Run(ctx, func(c volumes.Change) {
					select {
					case changes <- c:
					case <-ctx.Done():
					}
				})
			}()
		}
	}

	m := newModel(opts, changes)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return Result{}, err
	}
	return m.result(), nil
}

func (m *model) result() Result {
	return Result{
		Picked:    m.picked,
		Selected:  m.chosen,
		Aborted:   m.aborted,
		Dropped:   m.dropped,
		Directory: m.list.CurrentDirectory(),
		OwnerOf:   m.list.OwnerOf,
	}
}

func waitForChange(ch <-chan volumes.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return storageChangedMsg{change: c}
	}
}

func (m *model) Init() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	return waitForChange(m.changes)
}

func (m *model) pageSize() int {
	return max(m.vp.Height-1, 1)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.aborted = true
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			m.list.Up()
		case key.Matches(msg, m.keys.Down):
			m.list.Down()
		case key.Matches(msg, m.keys.PageUp):
			m.list.PageUp(m.pageSize())
		case key.Matches(msg, m.keys.PageDown):
			m.list.PageDown(m.pageSize())
		case key.Matches(msg, m.keys.Refresh):
			m.list.Refresh()
			m.status = "refreshed"
		case key.Matches(msg, m.keys.Toggle):
			m.toggle()
		case key.Matches(msg, m.keys.Confirm):
			m.chosen = m.multi.ConfirmedSelection()
			m.dropped = m.multi.Selection().Len() - len(m.chosen)
			m.done = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Enter):
			if m.list.CanDescend() {
				m.list.Descend()
				m.status = ""
				break
			}
			if m.multi != nil {
				m.toggle()
				break
			}
			if e, ok := m.list.Current(); ok && !e.Synthetic() {
				m.picked = m.list.Filename()
				m.done = true
				return m, tea.Quit
			}
		}
		m.refreshViewport()
		return m, nil
	case tea.WindowSizeMsg:
		// header (1), blank (1), status (1), help (1), padding (2)
		reserved := 6
		m.vp.Width = msg.Width
		m.vp.Height = max(msg.Height-reserved, 3)
		m.help.Width = msg.Width
		m.refreshViewport()
		return m, nil
	case storageChangedMsg:
		m.list.PartitionsChanged()
		m.status = fmt.Sprintf("volume %s: %s", msg.change.Action, msg.change.Path)
		m.refreshViewport()
		return m, waitForChange(m.changes)
	case watchClosedMsg:
		m.changes = nil
		return m, nil
	}
	return m, nil
}

func (m *model) toggle() {
	if m.multi == nil {
		return
	}
	e, ok := m.list.Current()
	if !ok || e.Synthetic() {
		return
	}
	if m.multi.ToggleCurrent() {
		m.status = "selected " + e.Name
	} else {
		m.status = "deselected " + e.Name
	}
}

func icon(e filelist.Entry) string {
	switch {
	case e.Kind == filelist.KindStorageList, e.Kind == filelist.KindParent:
		return "↑"
	case e.Kind == filelist.KindPlaceholder:
		return " "
	case e.IsDir:
		return "▸"
	}
	switch e.Type {
	case filelist.TypeMusic:
		return "♪"
	case filelist.TypePicture:
		return "▣"
	case filelist.TypeMovie:
		return "▶"
	}
	return "·"
}

func (m *model) renderRow(i int, e filelist.Entry) string {
	mark := ""
	if m.multi != nil && !e.Synthetic() {
		mark = "[ ] "
		if e.Selected {
			mark = selectedStyle.Render("[x]") + " "
		}
	}
	name := e.Name
	switch {
	case e.Synthetic():
		name = syntheticRow.Render(name)
	case e.IsDir:
		name = dirStyle.Render(name)
	}
	line := fmt.Sprintf("%s %s%s", icon(e), mark, name)
	if i == m.list.Cursor() {
		return cursorStyle.Render("> ") + line
	}
	return "  " + line
}

func (m *model) refreshViewport() {
	entries := m.list.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = m.renderRow(i, e)
	}
	m.vp.SetContent(strings.Join(lines, "\n"))

	// keep the cursor row visible
	c := m.list.Cursor()
	if c < m.vp.YOffset {
		m.vp.SetYOffset(c)
	} else if c >= m.vp.YOffset+m.vp.Height {
		m.vp.SetYOffset(c - m.vp.Height + 1)
	}
}

func (m *model) title() string {
	dir := m.list.CurrentDirectory()
	if dir == filelist.StorageRoot {
		return " Storage devices "
	}
	t := " " + dir + " "
	if mp := m.list.CurrentMountpoint(); mp != "" && mp != dir {
		t += "(" + filepath.Base(strings.TrimSuffix(mp, "/")) + ") "
	}
	return t
}

func (m *model) View() string {
	header := headerStyle.Render(m.title())
	if m.multi != nil {
		header += statusStyle.Render(fmt.Sprintf(" %d selected", m.multi.Selection().Len()))
	}
	status := statusStyle.Render(m.status)
	return container.Render(strings.Join([]string{header, "", m.vp.View(), status, m.help.View(m.keys)}, "\n"))
}
