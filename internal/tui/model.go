package tui

import (
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/duetmind/duet/internal/chat"
	"github.com/duetmind/duet/internal/notepad"
	"github.com/duetmind/duet/internal/orchestrator"
	"github.com/duetmind/duet/internal/tui/styles"
)

// Layout constants
const (
	inputHeight = 3 // textarea rows
	// header + key banner slot + status line + input border rows + help bar
	chromeHeight = 8
	// transcript share of the width when the notepad pane is open
	transcriptRatio = 0.62
)

// Model holds the TUI application state.
type Model struct {
	orch *orchestrator.Orchestrator
	log  *chat.Log
	pad  *notepad.Engine

	transcript viewport.Model
	padView    viewport.Model
	input      textarea.Model
	spin       spinner.Model

	width  int
	height int
	ready  bool

	busy         bool
	showNotepad  bool
	showThoughts bool
	quitting     bool
	keyStatus    orchestrator.KeyStatus
	pendingImage *chat.Image
}

func newModel(orch *orchestrator.Orchestrator, log *chat.Log, pad *notepad.Engine) Model {
	input := textarea.New()
	input.Placeholder = "Ask a question for the agents to discuss..."
	input.ShowLineNumbers = false
	input.SetHeight(inputHeight)
	input.CharLimit = 0
	// Enter submits; ctrl+j inserts a literal newline.
	input.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j"))
	input.Focus()

	spin := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(styles.ActivityBar),
	)

	return Model{
		orch:  orch,
		log:   log,
		pad:   pad,
		input: input,
		spin:  spin,
	}
}

// refreshTranscript re-renders the message list into the viewport and
// follows the tail.
func (m *Model) refreshTranscript() {
	m.transcript.SetContent(m.renderMessages())
	m.transcript.GotoBottom()
}

func (m *Model) refreshNotepad() {
	m.padView.SetContent(m.pad.Content())
}

func (m *Model) layout() {
	contentHeight := m.height - chromeHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	transcriptWidth := m.width
	if m.showNotepad {
		transcriptWidth = int(float64(m.width) * transcriptRatio)
		padWidth := m.width - transcriptWidth - 4 // pane border and padding
		if padWidth < 10 {
			padWidth = 10
		}
		m.padView.Width = padWidth
		m.padView.Height = contentHeight - 2
	}

	m.transcript.Width = transcriptWidth
	m.transcript.Height = contentHeight
	m.input.SetWidth(m.width - 2)

	m.refreshTranscript()
	m.refreshNotepad()
}

// renderMessages formats the transcript for display.
func (m *Model) renderMessages() string {
	msgs := m.log.Messages()
	if len(msgs) == 0 {
		return styles.Muted.Render("No messages yet.")
	}

	wrap := lipgloss.NewStyle().Width(m.transcript.Width)

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(wrap.Render(m.renderMessage(msg)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderMessage(msg chat.Message) string {
	switch msg.Sender {
	case chat.SenderSystem:
		return styles.System.Render(msg.Text)
	case chat.SenderUser:
		return styles.User.Render("You") + "\n" + msg.Text
	}

	label := senderLabel(msg.Sender)
	if msg.DurationMs > 0 {
		label += styles.Muted.Render(fmt.Sprintf("  (%.1fs)", float64(msg.DurationMs)/1000))
	}

	body := msg.Text
	if m.showThoughts && msg.Thoughts != "" {
		body = styles.Thoughts.Render(msg.Thoughts) + "\n\n" + body
	}

	if msg.Purpose == chat.PurposeFinalResponse {
		return label + "\n" + styles.FinalAnswer.Width(m.transcript.Width-2).Render(body)
	}
	return label + "\n" + body
}

// attachImage loads a local image file to send along with the next query.
func (m *Model) attachImage(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		m.log.Notify(fmt.Sprintf("Could not attach image: %v", err))
		return
	}

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if !strings.HasPrefix(mimeType, "image/") {
		m.log.Notify(fmt.Sprintf("Could not attach image: %s does not look like an image file", path))
		return
	}

	m.pendingImage = &chat.Image{
		MimeType: mimeType,
		Name:     filepath.Base(path),
		Data:     base64.StdEncoding.EncodeToString(data),
	}
	m.log.Notify(fmt.Sprintf("Attached %s. It will be sent with your next question.", filepath.Base(path)))
}

func senderLabel(sender chat.Sender) string {
	switch sender {
	case chat.SenderCognito:
		return styles.Cognito.Render("Cognito")
	case chat.SenderMuse:
		return styles.Muse.Render("Muse")
	default:
		return string(sender)
	}
}
