package chat

import "sync"

// Log is the append-only session transcript. It satisfies both Recorder
// and Notifier and is safe for concurrent use.
type Log struct {
	mu        sync.RWMutex
	messages  []Message
	welcomeID string
	// onChange, when set, is invoked after every append or patch. Used by
	// the TUI to wake its event loop. Called without the lock held.
	onChange func()
}

// NewLog creates an empty transcript.
func NewLog() *Log {
	return &Log{}
}

// NewLogFromMessages creates a transcript seeded with previously persisted
// messages. A nil or empty slice is a valid cold start.
func NewLogFromMessages(messages []Message) *Log {
	l := &Log{}
	l.messages = append(l.messages, messages...)
	return l
}

// OnChange registers a callback fired after every mutation.
func (l *Log) OnChange(fn func()) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Record appends a message to the transcript.
func (l *Log) Record(m Message) {
	l.mu.Lock()
	l.messages = append(l.messages, m)
	fn := l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Notify appends a system-notification message.
func (l *Log) Notify(text string) {
	l.Record(NewMessage(text, SenderSystem, PurposeSystemNotification))
}

// Welcome records the welcome banner and remembers it so its wording can be
// patched later when settings change.
func (l *Log) Welcome(text string) {
	m := NewMessage(text, SenderSystem, PurposeSystemNotification)

	l.mu.Lock()
	l.welcomeID = m.ID
	l.messages = append(l.messages, m)
	fn := l.onChange
	l.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// PatchWelcome rewords the welcome banner in place. This is the only
// mutation of a recorded message the transcript permits. It is a no-op if
// no welcome banner was recorded.
func (l *Log) PatchWelcome(text string) {
	l.mu.Lock()
	var fn func()
	for i := range l.messages {
		if l.messages[i].ID == l.welcomeID {
			l.messages[i].Text = text
			fn = l.onChange
			break
		}
	}
	l.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Messages returns a copy of the transcript in order.
func (l *Log) Messages() []Message {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of recorded messages.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}
