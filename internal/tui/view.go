package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/duetmind/duet/internal/chat"
	"github.com/duetmind/duet/internal/tui/styles"
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting..."
	}

	var b strings.Builder

	b.WriteString(m.headerView())
	b.WriteString("\n")

	if m.keyStatus.Missing || m.keyStatus.Invalid {
		b.WriteString(styles.KeyBanner.Render(m.keyStatus.Message))
		b.WriteString("\n")
	}

	b.WriteString(m.mainView())
	b.WriteString("\n")
	b.WriteString(m.statusView())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.helpView())

	return b.String()
}

func (m Model) headerView() string {
	s := m.orch.Settings()

	mode := "AI-driven turns"
	if s.Mode == chat.ModeFixedTurns {
		mode = fmt.Sprintf("%d fixed turns", s.FixedTurns)
	}

	title := styles.Header.Render("duet")
	sub := styles.Subtitle.Render(fmt.Sprintf(
		"Cognito: %s | Muse: %s | %s", s.Cognito.Model, s.Muse.Model, mode))
	return title + "  " + sub
}

func (m Model) mainView() string {
	transcript := m.transcript.View()
	if !m.showNotepad {
		return transcript
	}

	title := "Notepad"
	if by := m.pad.LastUpdatedBy(); by != "" {
		title = fmt.Sprintf("Notepad (last edited by %s)", by)
	}
	pane := styles.NotepadPane.Render(
		styles.NotepadTitle.Render(title) + "\n" + m.padView.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, transcript, " ", pane)
}

func (m Model) statusView() string {
	switch {
	case m.busy:
		return m.spin.View() + styles.ActivityBar.Render("The agents are discussing... press ctrl+x to stop.")
	case m.orch.Failed() != nil:
		return styles.Error.Render("A step failed. Press ctrl+r to retry it.")
	case m.pendingImage != nil:
		return styles.Muted.Render("Image attached: " + m.pendingImage.Name)
	default:
		return ""
	}
}

func (m Model) helpView() string {
	items := []struct{ key, desc string }{
		{"enter", "send"},
		{"ctrl+j", "newline"},
		{"ctrl+n", "notepad"},
		{"ctrl+t", "thoughts"},
		{"ctrl+z/y", "undo/redo"},
		{"ctrl+x", "stop"},
		{"ctrl+r", "retry"},
		{"ctrl+c", "quit"},
	}

	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, styles.HelpKey.Render(it.key)+" "+it.desc)
	}
	return styles.HelpBar.Render(strings.Join(parts, "  "))
}
