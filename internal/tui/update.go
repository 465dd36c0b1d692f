package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/duetmind/duet/internal/chat"
)

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.transcript = viewport.New(msg.Width, 1)
			m.padView = viewport.New(1, 1)
			m.ready = true
		}
		m.layout()
		return m, nil

	case activityMsg:
		m.refreshTranscript()
		m.refreshNotepad()
		return m, nil

	case keyStatusMsg:
		m.keyStatus = msg.status
		return m, nil

	case flowDoneMsg:
		m.busy = false
		m.refreshTranscript()
		m.refreshNotepad()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.forward(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		if m.busy {
			m.orch.Cancel()
		}
		return m, tea.Quit

	case "ctrl+x":
		if m.busy {
			m.orch.Cancel()
		}
		return m, nil

	case "ctrl+r":
		if m.busy || m.orch.Failed() == nil {
			return m, nil
		}
		m.busy = true
		return m, tea.Batch(m.retryFailedStep(), m.spin.Tick)

	case "ctrl+n":
		m.showNotepad = !m.showNotepad
		m.layout()
		return m, nil

	case "ctrl+t":
		m.showThoughts = !m.showThoughts
		m.refreshTranscript()
		return m, nil

	case "ctrl+z":
		if m.pad.Undo() {
			m.refreshNotepad()
		}
		return m, nil

	case "ctrl+y":
		if m.pad.Redo() {
			m.refreshNotepad()
		}
		return m, nil

	case "enter":
		query := strings.TrimSpace(m.input.Value())
		if query == "" || m.busy {
			return m, nil
		}
		if path, ok := strings.CutPrefix(query, "/image "); ok {
			m.attachImage(strings.TrimSpace(path))
			m.input.Reset()
			return m, nil
		}
		m.busy = true
		m.input.Reset()
		image := m.pendingImage
		m.pendingImage = nil
		return m, tea.Batch(m.startDiscussion(query, image), m.spin.Tick)
	}

	return m.forward(msg)
}

// forward routes unhandled messages to the input and the transcript
// viewport (for scrolling).
func (m Model) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	m.transcript, cmd = m.transcript.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// startDiscussion runs a full discussion flow on its own goroutine. The
// orchestrator records progress into the transcript as it goes; the flow
// result only clears the busy state.
func (m Model) startDiscussion(query string, image *chat.Image) tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		return flowDoneMsg{err: orch.Start(context.Background(), query, image)}
	}
}

func (m Model) retryFailedStep() tea.Cmd {
	orch := m.orch
	return func() tea.Msg {
		return flowDoneMsg{err: orch.RetryFailedStep(context.Background())}
	}
}
