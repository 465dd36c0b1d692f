package notepad

import (
	"sync"

	"github.com/duetmind/duet/internal/protocol"
)

// Engine holds the current notepad content together with its edit
// history. All methods are safe for concurrent use.
type Engine struct {
	mu            sync.Mutex
	history       []string
	index         int
	lastUpdatedBy string
	// onChange, when set, is invoked after every mutation that moves the
	// current document. Called without the lock held.
	onChange func()
}

// NewEngine seeds the history with the initial document.
func NewEngine(initial string) *Engine {
	return &Engine{history: []string{initial}}
}

// OnChange registers a callback fired after every edit, undo, redo or
// reset that changes the visible document.
func (e *Engine) OnChange(fn func()) {
	e.mu.Lock()
	e.onChange = fn
	e.mu.Unlock()
}

// Content returns the document at the current history position.
func (e *Engine) Content() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history[e.index]
}

// LastUpdatedBy names the author of the most recent committed edit, or
// "" if nothing has been committed yet.
func (e *Engine) LastUpdatedBy() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastUpdatedBy
}

// ApplyActions applies a batch against the current position and commits
// the result as a new history entry attributed to author. If the user has
// undone past edits, the redo tail is discarded, matching editor
// convention. Warnings from individual actions are returned alongside.
func (e *Engine) ApplyActions(author string, actions []protocol.Action) (string, []string) {
	e.mu.Lock()
	next, warnings := Apply(e.history[e.index], actions)
	fn := e.commit(author, next)
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
	return next, warnings
}

// SetContent replaces the document wholesale, recording it as a history
// entry. Used for direct edits from the user.
func (e *Engine) SetContent(author, content string) {
	e.mu.Lock()
	fn := e.commit(author, content)
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// commit records content and returns the change callback to fire, or nil
// if nothing moved. Caller must hold the lock and invoke the callback
// after releasing it.
func (e *Engine) commit(author, content string) func() {
	if content == e.history[e.index] {
		return nil
	}
	e.history = append(e.history[:e.index+1], content)
	e.index = len(e.history) - 1
	e.lastUpdatedBy = author
	return e.onChange
}

// Undo steps back one history entry. It reports whether a step occurred.
func (e *Engine) Undo() bool {
	e.mu.Lock()
	if e.index == 0 {
		e.mu.Unlock()
		return false
	}
	e.index--
	fn := e.onChange
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

// Redo steps forward one history entry. It reports whether a step
// occurred.
func (e *Engine) Redo() bool {
	e.mu.Lock()
	if e.index >= len(e.history)-1 {
		e.mu.Unlock()
		return false
	}
	e.index++
	fn := e.onChange
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
	return true
}

func (e *Engine) CanUndo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index > 0
}

func (e *Engine) CanRedo() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.index < len(e.history)-1
}

// Reset discards the history and starts over from content.
func (e *Engine) Reset(content string) {
	e.mu.Lock()
	e.history = []string{content}
	e.index = 0
	e.lastUpdatedBy = ""
	fn := e.onChange
	e.mu.Unlock()

	if fn != nil {
		fn()
	}
}
