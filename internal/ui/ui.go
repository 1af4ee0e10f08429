package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rhymx/internal/models"
	"github.com/desertthunder/rhymx/internal/shared"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LyricsView ViewState = iota
	GroupListView
)

// chrome is the number of rows used by the header and help line.
const chrome = 5

// Loader produces the song to display. It runs off the UI goroutine.
type Loader func(ctx context.Context) (*models.SongExport, error)

// Static returns a [Loader] for an already analyzed song.
func Static(song *models.SongExport) Loader {
	return func(context.Context) (*models.SongExport, error) {
		return song, nil
	}
}

// Model represents the TUI application state.
type Model struct {
	ctx       context.Context
	view      ViewState
	load      Loader
	song      *models.SongExport
	focus     int
	loading   bool
	ready     bool
	width     int
	height    int
	viewport  viewport.Model
	groupList list.Model
	spinner   spinner.Model
	err       error
	help      help.Model
	keys      keyMap
}

// NewModel creates a new TUI model that displays the song returned by load.
func NewModel(ctx context.Context, load Loader) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.ok

	return &Model{
		ctx:       ctx,
		view:      LyricsView,
		load:      load,
		focus:     -1,
		loading:   true,
		viewport:  viewport.New(0, 0),
		groupList: list.New(nil, list.NewDefaultDelegate(), 0, 0),
		spinner:   sp,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init starts loading the song.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadSong())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(msg.Height-chrome, 1)
		m.groupList.SetSize(msg.Width, max(msg.Height-2, 1))
		m.ready = true
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		switch m.view {
		case LyricsView:
			return m.handleLyricsKeys(msg)
		case GroupListView:
			return m.handleGroupListKeys(msg)
		}
	}

	return m.updateView(msg)
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgSongLoaded:
		data := msg.data.(songLoaded)
		m.loading = false
		if data.err == nil && data.song == nil {
			data.err = fmt.Errorf("%w: nothing to display", shared.ErrInvalidInput)
		}
		if data.err != nil {
			m.err = data.err
			return m, nil
		}

		m.song = data.song
		m.focus = -1
		m.groupList.SetItems(groupItems(m.song.Rhymes))
		m.groupList.Title = "Rhyme groups"
		m.refresh()
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	if m.loading {
		return fmt.Sprintf("%s Fetching lyrics...\n", m.spinner.View())
	}

	switch m.view {
	case GroupListView:
		return m.renderGroupList()
	default:
		return m.renderLyrics()
	}
}

func (m *Model) handleLyricsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle):
		if m.song != nil && len(m.groupList.Items()) > 0 {
			m.view = GroupListView
		}
		return m, nil
	case key.Matches(msg, m.keys.back):
		m.focus = -1
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m *Model) handleGroupListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.groupList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.groupList, cmd = m.groupList.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.toggle), key.Matches(msg, m.keys.back):
		m.view = LyricsView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.groupList.SelectedItem().(groupItem); ok {
			m.focus = item.index
			m.refresh()
			if len(item.group.Words) > 0 {
				m.viewport.SetYOffset(item.group.Words[0].Line)
			}
		}
		m.view = LyricsView
		return m, nil
	}

	var cmd tea.Cmd
	m.groupList, cmd = m.groupList.Update(msg)
	return m, cmd
}

func (m *Model) updateView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case LyricsView:
		m.viewport, cmd = m.viewport.Update(msg)
	case GroupListView:
		m.groupList, cmd = m.groupList.Update(msg)
	}
	return m, cmd
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderLyrics(m.song, m.focus))
}

func (m *Model) loadSong() tea.Cmd {
	return func() tea.Msg {
		song, err := m.load(m.ctx)
		return songLoadedMsg(song, err)
	}
}

func (m *Model) renderLyrics() string {
	title := "Lyrics"
	if h := m.song.Heading(); h != "" {
		title = h
	}

	groups := 0
	if m.song.Rhymes != nil {
		groups = len(m.song.Rhymes.Groups)
	}

	info := fmt.Sprintf("%d groups", groups)
	if s := schemeSummary(m.song.Rhymes); s != "" {
		info = fmt.Sprintf("%s • %s", info, s)
	}
	if m.focus >= 0 {
		info = fmt.Sprintf("%s • focus %s", info, m.song.Rhymes.Groups[m.focus].Label)
	}

	helpKeys := []key.Binding{m.keys.up, m.keys.down, m.keys.toggle, m.keys.quit}
	if m.focus >= 0 {
		helpKeys = []key.Binding{m.keys.up, m.keys.down, m.keys.toggle, m.keys.back, m.keys.quit}
	}

	body := m.viewport.View()
	if !m.ready {
		body = renderLyrics(m.song, m.focus)
	}

	return fmt.Sprintf("%s\n%s\n\n%s\n%s", styles.title.Render(title), styles.help.Render(info), body, m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderGroupList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.toggle, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.groupList.View(), m.help.ShortHelpView(helpKeys))
}

// Run starts the viewer on the terminal and blocks until the user quits.
func Run(ctx context.Context, load Loader) error {
	p := tea.NewProgram(NewModel(ctx, load), tea.WithAltScreen(), tea.WithContext(ctx))
	model, err := p.Run()
	if err != nil {
		return fmt.Errorf("viewer failed: %w", err)
	}
	if m, ok := model.(*Model); ok && m.err != nil {
		return m.err
	}
	return nil
}
