// Package tui provides a Bubble Tea terminal user interface for cover-embedder.
package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/cover-embedder/internal/album"
	"github.com/handiism/cover-embedder/internal/config"
	"github.com/handiism/cover-embedder/internal/embed"
	"github.com/handiism/cover-embedder/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	albumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))
)

// maxVisibleAlbums bounds the album list; longer lists scroll.
const maxVisibleAlbums = 15

// State represents the current UI state.
type State int

const (
	StateFolder State = iota
	StateScanning
	StateCorruptWarning
	StateSelectAlbum
	StateImage
	StateOptions
	StateEmbedding
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   model.ProgressLevel
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state       State
	folderInput textinput.Model
	imageInput  textinput.Model
	spinner     spinner.Model
	progress    progress.Model

	settings     *config.Settings
	settingsPath string

	logs []LogEntry
	err  error

	// Scan results
	scan     *model.ScanResult
	albums   *model.Albums
	fallback bool
	cursor   int
	offset   int
	selected model.AlbumGroup

	// Options
	naming        model.NamingOption
	resize        bool
	saveExample   bool
	dontWarnAgain bool

	// Embed context
	ctx    context.Context
	cancel context.CancelFunc
	events chan model.ProgressEvent

	// Embed progress
	processed int
	total     int
	report    *model.Report

	width  int
	height int
}

// NewModel creates a new TUI model.
//
// settingsPath is where the "don't warn again" choice is persisted; an
// empty path keeps it in memory only.
func NewModel(settings *config.Settings, settingsPath string) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	fi := textinput.New()
	fi.Placeholder = "/path/to/music"
	fi.SetValue(settings.MP3Folder)
	fi.Focus()
	fi.CharLimit = 1024
	fi.Width = 60

	ii := textinput.New()
	ii.Placeholder = "/path/to/cover.jpg"
	ii.CharLimit = 1024
	ii.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:        StateFolder,
		folderInput:  fi,
		imageInput:   ii,
		spinner:      sp,
		progress:     prog,
		settings:     settings,
		settingsPath: settingsPath,
		logs:         make([]LogEntry, 0),
		naming:       settings.Naming(),
		resize:       settings.ResizeCover,
		saveExample:  settings.AutoSaveEmbed,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// ScanDoneMsg is sent when the folder scan completes.
	ScanDoneMsg struct {
		Result *model.ScanResult
		Err    error
	}

	// ProgressMsg is sent for each embed progress event.
	ProgressMsg struct {
		Event model.ProgressEvent

		events <-chan model.ProgressEvent
	}

	// EmbedDoneMsg is sent when the album has been processed.
	EmbedDoneMsg struct {
		Report *model.Report
		Err    error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancel()
			return m, tea.Quit
		}
		next, cmd, handled := m.handleKey(msg)
		if handled {
			return next, cmd
		}
		m = next

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ScanDoneMsg:
		return m.scanDone(msg)

	case ProgressMsg:
		// Events from an earlier run are drained without being counted.
		if msg.events != nil && msg.events != m.events {
			return m, waitForEvent(msg.events)
		}
		m.addLog(msg.Event)
		if msg.Event.File != "" {
			m.processed++
		}
		var percent float64
		if m.total > 0 {
			percent = float64(m.processed) / float64(m.total)
		}
		cmds = append(cmds, m.progress.SetPercent(percent), waitForEvent(m.events))

	case EmbedDoneMsg:
		m.report = msg.Report
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateComplete
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text inputs
	switch m.state {
	case StateFolder:
		var cmd tea.Cmd
		m.folderInput, cmd = m.folderInput.Update(msg)
		cmds = append(cmds, cmd)
	case StateImage:
		var cmd tea.Cmd
		m.imageInput, cmd = m.imageInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleKey processes state-specific keys. handled reports that the key
// was consumed and must not reach the text inputs.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	key := msg.String()

	switch m.state {
	case StateFolder:
		switch key {
		case "esc":
			return m, tea.Quit, true
		case "enter":
			folder := strings.TrimSpace(m.folderInput.Value())
			if folder == "" {
				return m, nil, true
			}
			m.settings.MP3Folder = folder
			m.state = StateScanning
			m.logs = nil
			return m, tea.Batch(m.scanFolder(folder), m.spinner.Tick), true
		}

	case StateCorruptWarning:
		switch key {
		case "d":
			m.dontWarnAgain = !m.dontWarnAgain
			return m, nil, true
		case "enter":
			if m.dontWarnAgain {
				m.settings.ShowCorruptWarning = false
				m.persistSettings()
			}
			m.state = StateSelectAlbum
			return m, nil, true
		case "esc":
			return m.backToFolder(), nil, true
		}

	case StateSelectAlbum:
		switch key {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
			m.scrollToCursor()
			return m, nil, true
		case "down", "j":
			if m.cursor < m.albums.Len()-1 {
				m.cursor++
			}
			m.scrollToCursor()
			return m, nil, true
		case "enter":
			group, ok := m.albums.At(m.cursor + 1)
			if !ok {
				return m, nil, true
			}
			m.selected = group
			m.state = StateImage
			m.imageInput.Focus()
			return m, textinput.Blink, true
		case "esc", "b":
			return m.backToFolder(), nil, true
		}

	case StateImage:
		switch key {
		case "esc":
			m.imageInput.Blur()
			m.state = StateSelectAlbum
			return m, nil, true
		case "enter":
			if strings.TrimSpace(m.imageInput.Value()) == "" {
				return m, nil, true
			}
			m.imageInput.Blur()
			m.state = StateOptions
			return m, nil, true
		}

	case StateOptions:
		switch key {
		case "1":
			m.naming = model.NamingImage
			return m, nil, true
		case "2":
			m.naming = model.NamingAlbum
			return m, nil, true
		case "r":
			m.resize = !m.resize
			return m, nil, true
		case "s":
			m.saveExample = !m.saveExample
			return m, nil, true
		case "esc", "b":
			m.state = StateImage
			m.imageInput.Focus()
			return m, textinput.Blink, true
		case "enter":
			m.state = StateEmbedding
			m.processed = 0
			m.total = len(m.selected.Files)
			m.logs = nil
			m.events = make(chan model.ProgressEvent, m.total+8)
			return m, tea.Batch(m.startEmbed(), waitForEvent(m.events), m.spinner.Tick), true
		}

	case StateEmbedding:
		if key == "esc" {
			m.cancel()
			return m, nil, true
		}

	case StateComplete, StateError:
		switch key {
		case "q", "esc":
			return m, tea.Quit, true
		case "a":
			if m.albums != nil && m.albums.Len() > 0 {
				m = m.resetContext()
				m.state = StateSelectAlbum
				return m, nil, true
			}
		case "r":
			m = m.resetContext()
			return m.backToFolder(), textinput.Blink, true
		}
	}

	return m, nil, false
}

func (m Model) scanDone(msg ScanDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.state = StateError
		m.err = msg.Err
		return m, nil
	}

	m.scan = msg.Result
	m.albums = msg.Result.Albums
	m.fallback = false
	m.cursor, m.offset = 0, 0

	switch {
	case msg.Result.AudioFiles == 0:
		m.state = StateError
		m.err = fmt.Errorf("no music files found in %s", msg.Result.Folder)
		return m, nil
	case m.albums.Len() == 0:
		files, err := album.ListAudioFiles(msg.Result.Folder)
		if err != nil {
			m.state = StateError
			m.err = err
			return m, nil
		}
		m.albums = album.Fallback(files)
		m.fallback = true
	}

	if len(msg.Result.Corrupted) > 0 && m.settings.ShowCorruptWarning {
		m.state = StateCorruptWarning
	} else {
		m.state = StateSelectAlbum
	}
	return m, nil
}

func (m Model) backToFolder() Model {
	m.state = StateFolder
	m.err = nil
	m.folderInput.Focus()
	return m
}

func (m Model) resetContext() Model {
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.report = nil
	m.err = nil
	m.logs = nil
	m.imageInput.SetValue("")
	return m
}

func (m *Model) scrollToCursor() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+maxVisibleAlbums {
		m.offset = m.cursor - maxVisibleAlbums + 1
	}
}

func (m *Model) addLog(event model.ProgressEvent) {
	m.logs = append(m.logs, LogEntry{Message: event.Message, Level: event.Level})
	// Keep only last 10 logs
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

func (m *Model) persistSettings() {
	if m.settingsPath == "" {
		return
	}
	if err := m.settings.Save(m.settingsPath); err != nil {
		m.addLog(model.ProgressEvent{Message: fmt.Sprintf("Could not save settings: %v", err), Level: model.LevelWarning})
	}
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("MP3 Album Cover Embedder"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Embed album covers into MP3 metadata"))
	b.WriteString("\n\n")

	switch m.state {
	case StateFolder:
		b.WriteString(m.viewFolder())
	case StateScanning:
		b.WriteString(m.spinner.View() + " " + subtitleStyle.Render("Scanning for albums..."))
		b.WriteString("\n")
	case StateCorruptWarning:
		b.WriteString(m.viewCorruptWarning())
	case StateSelectAlbum:
		b.WriteString(m.viewSelectAlbum())
	case StateImage:
		b.WriteString(m.viewImage())
	case StateOptions:
		b.WriteString(m.viewOptions())
	case StateEmbedding:
		b.WriteString(m.viewEmbedding())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewFolder() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("MP3 folder:"))
	b.WriteString("\n\n")
	b.WriteString(m.folderInput.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Embed examples: %s", m.settings.EmbedFolder)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewCorruptWarning() string {
	var b strings.Builder

	b.WriteString(warningStyle.Render(fmt.Sprintf("! %d file(s) could not be read and will be skipped:", len(m.scan.Corrupted))))
	b.WriteString("\n\n")
	for _, c := range m.scan.Corrupted {
		b.WriteString(fmt.Sprintf("  %s\n", c.Name))
	}
	b.WriteString("\n")

	check := "[ ]"
	if m.dontWarnAgain {
		check = "[×]"
	}
	b.WriteString(fmt.Sprintf("%s Don't show this warning again (d)\n", check))

	return b.String()
}

func (m Model) viewSelectAlbum() string {
	var b strings.Builder

	if m.fallback {
		b.WriteString(warningStyle.Render("No albums found. Default albums were created from filenames."))
		b.WriteString("\n\n")
	}

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Select an album (%d found):", m.albums.Len())))
	b.WriteString("\n\n")

	groups := m.albums.Groups()
	end := m.offset + maxVisibleAlbums
	if end > len(groups) {
		end = len(groups)
	}
	for i := m.offset; i < end; i++ {
		line := fmt.Sprintf("%2d. %s (%d file(s))", i+1, groups[i].Name, len(groups[i].Files))
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> " + line))
		} else {
			b.WriteString(albumStyle.Render("  " + line))
		}
		b.WriteString("\n")
	}
	if len(groups) > maxVisibleAlbums {
		b.WriteString(dimStyle.Render(fmt.Sprintf("  showing %d-%d of %d", m.offset+1, end, len(groups))))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewImage() string {
	var b strings.Builder

	b.WriteString(albumStyle.Render(fmt.Sprintf("Album: %s", m.selected.Name)))
	b.WriteString("\n\n")
	b.WriteString(subtitleStyle.Render("Cover image (JPEG or PNG):"))
	b.WriteString("\n\n")
	b.WriteString(m.imageInput.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewOptions() string {
	var b strings.Builder

	b.WriteString(albumStyle.Render(fmt.Sprintf("Album: %s (%d file(s))", m.selected.Name, len(m.selected.Files))))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Cover: %s", m.imageInput.Value())))
	b.WriteString("\n\n")

	radio := func(on bool) string {
		if on {
			return "(•)"
		}
		return "( )"
	}
	check := func(on bool) string {
		if on {
			return "[×]"
		}
		return "[ ]"
	}

	b.WriteString(infoStyle.Render("Save example image as:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Same name as the image (1)\n", radio(m.naming == model.NamingImage)))
	b.WriteString(fmt.Sprintf("  %s Album name (2)\n", radio(m.naming == model.NamingAlbum)))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Resize cover to 240x240 for the MECHEN 2.4\" player (r)\n", check(m.resize)))
	b.WriteString(fmt.Sprintf("  %s Save an example copy of the embedded image (s)\n", check(m.saveExample)))

	return b.String()
}

func (m Model) viewEmbedding() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Embedding cover into %s...", m.selected.Name)))
	b.WriteString("\n\n")

	var percent float64
	if m.total > 0 {
		percent = float64(m.processed) / float64(m.total)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d", m.processed, m.total)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	updated := m.report.Updated()
	failed := m.report.Failed()

	summary := fmt.Sprintf("Processing Complete!\n\nAlbum: %s\nUpdated: %d\nFailed: %d", m.report.Album, len(updated), len(failed))
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n\n")

	if len(updated) > 0 {
		b.WriteString(successStyle.Render("Updated files:"))
		b.WriteString("\n")
		for _, f := range updated {
			b.WriteString(fmt.Sprintf("  ✓ %s\n", filepath.Join(m.settings.MP3Folder, f)))
		}
	}
	if len(failed) > 0 {
		b.WriteString(errorStyle.Render("Failed files:"))
		b.WriteString("\n")
		for _, f := range failed {
			b.WriteString(fmt.Sprintf("  ✗ %s: %v\n", f.Name, f.Err))
		}
	}
	if m.report.ExamplePath != "" {
		b.WriteString("\n")
		b.WriteString(infoStyle.Render("Embed example image path:"))
		b.WriteString("\n  " + m.report.ExamplePath + "\n")
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case model.LevelError:
			style = errorStyle
			prefix = "✗"
		case model.LevelWarning:
			style = warningStyle
			prefix = "!"
		case model.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case model.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateFolder:
		return "enter: scan • esc: quit"
	case StateScanning:
		return "ctrl+c: quit"
	case StateCorruptWarning:
		return "enter: continue • d: don't warn again • esc: back"
	case StateSelectAlbum:
		return "↑/↓: move • enter: select • b: back"
	case StateImage:
		return "enter: continue • esc: back"
	case StateOptions:
		return "1/2: example name • r: resize • s: save example • enter: embed • b: back"
	case StateEmbedding:
		return "esc: cancel"
	case StateComplete, StateError:
		return "a: another album • r: new folder • q: quit"
	}
	return ""
}

// scanFolder groups the folder's files in the background.
func (m Model) scanFolder(folder string) tea.Cmd {
	return func() tea.Msg {
		result, err := album.NewGrouper(nil, nil).Scan(m.ctx, folder)
		return ScanDoneMsg{Result: result, Err: err}
	}
}

// startEmbed runs the embedder for the selected album in background.
func (m Model) startEmbed() tea.Cmd {
	settings := *m.settings
	settings.NamingOption = int(m.naming)
	settings.ResizeCover = m.resize
	settings.AutoSaveEmbed = m.saveExample

	req := embed.NewRequest(&settings, strings.TrimSpace(m.imageInput.Value()), m.selected)
	events := m.events
	ctx := m.ctx

	return func() tea.Msg {
		embedder := embed.NewEmbedder(func(event model.ProgressEvent) {
			events <- event
		}, embed.WithMaxConcurrent(settings.MaxConcurrentWrites))

		report, err := embedder.Embed(ctx, req)
		close(events)
		return EmbedDoneMsg{Report: report, Err: err}
	}
}

// waitForEvent delivers the next embed progress event. It yields no
// message once the channel is closed and drained.
func waitForEvent(events <-chan model.ProgressEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return nil
		}
		return ProgressMsg{Event: event, events: events}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, settingsPath string) error {
	p := tea.NewProgram(NewModel(settings, settingsPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
