// Package tui provides a Bubble Tea terminal user interface showing one
// progress bar per in-flight track. It implements progress.Sink, so the
// download pipeline reports into it without knowing a terminal exists;
// reports arrive as Bubble Tea messages via Program.Send.
package tui

import (
	"strings"

	pbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/rosenkrans/trackrip/internal/progress"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))
)

// Message types
type (
	// startMsg announces a new track row.
	startMsg struct {
		ID string
	}

	// totalMsg sets a row's expected byte count.
	totalMsg struct {
		ID    string
		Total int64
	}

	// positionMsg updates a row's received byte count.
	positionMsg struct {
		ID       string
		Position int64
	}

	// messageMsg replaces a row's label.
	messageMsg struct {
		ID   string
		Text string
	}

	// finishMsg marks a row done.
	finishMsg struct {
		ID   string
		Text string
	}
)

// row is the per-track display state.
type row struct {
	id       string
	label    string
	total    int64
	position int64
	done     bool
}

// Model is the Bubble Tea model for the multi-track progress display.
type Model struct {
	spinner  spinner.Model
	progress pbar.Model

	rows  []*row
	byID  map[string]*row
	width int
}

// NewModel creates a new TUI model.
func NewModel() Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := pbar.New(pbar.WithDefaultGradient())
	prog.Width = 40

	return Model{
		spinner:  sp,
		progress: prog,
		byID:     make(map[string]*row),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = msg.Width - 30
		if m.progress.Width > 60 {
			m.progress.Width = 60
		}
		if m.progress.Width < 10 {
			m.progress.Width = 10
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case startMsg:
		r := &row{id: msg.ID, label: msg.ID}
		m.rows = append(m.rows, r)
		m.byID[msg.ID] = r

	case totalMsg:
		if r, ok := m.byID[msg.ID]; ok {
			r.total = msg.Total
		}

	case positionMsg:
		if r, ok := m.byID[msg.ID]; ok {
			r.position = msg.Position
		}

	case messageMsg:
		if r, ok := m.byID[msg.ID]; ok {
			r.label = msg.Text
		}

	case finishMsg:
		if r, ok := m.byID[msg.ID]; ok {
			r.done = true
			r.label = msg.Text
		}
	}

	return m, nil
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("♪ trackrip"))
	b.WriteString("\n")

	for _, r := range m.rows {
		if r.done {
			b.WriteString(successStyle.Render("✓ " + r.label))
			b.WriteString("\n")
			continue
		}

		b.WriteString(m.spinner.View())
		b.WriteString(" ")

		var percent float64
		if r.total > 0 {
			percent = float64(r.position) / float64(r.total)
			if percent > 1 {
				percent = 1
			}
		}
		b.WriteString(m.progress.ViewAs(percent))
		b.WriteString(" ")
		b.WriteString(infoStyle.Render(humanize.Bytes(uint64(r.position))))
		b.WriteString("\n  ")
		b.WriteString(dimStyle.Render(r.label))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("ctrl+c: cancel"))
	b.WriteString("\n")

	return b.String()
}

// UI runs the progress display and hands out progress bars for it.
type UI struct {
	program *tea.Program
	done    chan error
}

// New creates a UI. Call Start before handing out bars.
func New() *UI {
	return &UI{
		program: tea.NewProgram(NewModel()),
		done:    make(chan error, 1),
	}
}

// Start launches the display in a background goroutine.
func (u *UI) Start() {
	go func() {
		_, err := u.program.Run()
		u.done <- err
	}()
}

// Stop shuts the display down and waits for it to exit.
func (u *UI) Stop() error {
	u.program.Quit()
	return <-u.done
}

// StartTrack adds a row for a track and returns its bar.
func (u *UI) StartTrack(id string) progress.Bar {
	u.program.Send(startMsg{ID: id})
	return &uiBar{id: id, program: u.program}
}

// uiBar forwards bar updates to the running program. Sends are safe from
// any goroutine.
type uiBar struct {
	id      string
	program *tea.Program
}

func (b *uiBar) SetTotal(n int64) {
	b.program.Send(totalMsg{ID: b.id, Total: n})
}

func (b *uiBar) SetPosition(n int64) {
	b.program.Send(positionMsg{ID: b.id, Position: n})
}

func (b *uiBar) SetMessage(text string) {
	b.program.Send(messageMsg{ID: b.id, Text: text})
}

func (b *uiBar) Finish(text string) {
	b.program.Send(finishMsg{ID: b.id, Text: text})
}
