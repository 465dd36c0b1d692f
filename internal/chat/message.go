package chat

import (
	"time"

	"github.com/google/uuid"
)

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser    Sender = "User"
	SenderCognito Sender = "Cognito"
	SenderMuse    Sender = "Muse"
	SenderSystem  Sender = "System"
)

// Purpose classifies a message's role in the conversation flow.
type Purpose string

const (
	PurposeUserInput          Purpose = "user-input"
	PurposeSystemNotification Purpose = "system-notification"
	// PurposeCognitoToMuse marks Cognito's discussion contributions,
	// including the opening turn.
	PurposeCognitoToMuse Purpose = "cognito-to-muse"
	PurposeMuseToCognito Purpose = "muse-to-cognito"
	// PurposeFinalResponse marks Cognito's synthesized answer to the user.
	PurposeFinalResponse Purpose = "final-response"
)

// DiscussionMode selects how the discussion loop decides to stop.
type DiscussionMode string

const (
	// ModeFixedTurns runs a configured number of turn pairs regardless of
	// agent stop signals.
	ModeFixedTurns DiscussionMode = "fixed"
	// ModeAiDriven continues until both agents independently and
	// consecutively signal completion.
	ModeAiDriven DiscussionMode = "ai-driven"
)

// Image is an attachment supplied with a user query.
type Image struct {
	MimeType string `json:"mimeType"`
	Name     string `json:"name,omitempty"`
	// Data is the base64-encoded image payload.
	Data string `json:"data"`
}

// Message is one immutable entry in the session transcript.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Sender    Sender    `json:"sender"`
	Purpose   Purpose   `json:"purpose"`
	Timestamp time.Time `json:"timestamp"`
	// DurationMs is how long the model took to produce this message.
	// Zero for non-AI messages.
	DurationMs int64 `json:"durationMs,omitempty"`
	// Thoughts carries the model's reasoning trace when the provider
	// exposes one.
	Thoughts string `json:"thoughts,omitempty"`
	Image    *Image `json:"image,omitempty"`
}

// NewMessage creates a message with a fresh ID and the current time.
func NewMessage(text string, sender Sender, purpose Purpose) Message {
	return Message{
		ID:        uuid.NewString(),
		Text:      text,
		Sender:    sender,
		Purpose:   purpose,
		Timestamp: time.Now(),
	}
}

// WithDuration returns a copy of m carrying the generation duration.
func (m Message) WithDuration(d time.Duration) Message {
	m.DurationMs = d.Milliseconds()
	return m
}

// WithThoughts returns a copy of m carrying a reasoning trace.
func (m Message) WithThoughts(thoughts string) Message {
	m.Thoughts = thoughts
	return m
}

// WithImage returns a copy of m carrying an image attachment.
func (m Message) WithImage(img *Image) Message {
	m.Image = img
	return m
}

// Recorder appends durable messages to the session transcript.
type Recorder interface {
	Record(m Message)
}

// Notifier emits system diagnostics. Implementations typically record them
// as system-notification messages, but the engine does not assume so.
type Notifier interface {
	Notify(text string)
}
